package engine

import (
	"time"

	"github.com/wricardo/boxpusher/game/ecs"
)

// World holds one store per component type
type World struct {
	registry *ecs.Registry

	Positions   *ecs.Store[Position]
	Movables    *ecs.Store[Movable]
	Immovables  *ecs.Store[Immovable]
	Walls       *ecs.Store[Wall]
	Floors      *ecs.Store[Floor]
	Players     *ecs.Store[Player]
	Boxes       *ecs.Store[Box]
	Spots       *ecs.Store[BoxSpot]
	Renderables *ecs.Store[Renderable]
}

// NewWorld creates an empty world
func NewWorld() *World {
	w := &World{
		Positions:   ecs.NewStore[Position](),
		Movables:    ecs.NewStore[Movable](),
		Immovables:  ecs.NewStore[Immovable](),
		Walls:       ecs.NewStore[Wall](),
		Floors:      ecs.NewStore[Floor](),
		Players:     ecs.NewStore[Player](),
		Boxes:       ecs.NewStore[Box](),
		Spots:       ecs.NewStore[BoxSpot](),
		Renderables: ecs.NewStore[Renderable](),
	}
	w.registry = ecs.NewRegistry(
		w.Positions, w.Movables, w.Immovables, w.Walls, w.Floors,
		w.Players, w.Boxes, w.Spots, w.Renderables,
	)
	return w
}

// NewEntity starts building an entity in this world
func (w *World) NewEntity() *ecs.Builder {
	return w.registry.NewEntity()
}

// Entities returns every entity in creation order
func (w *World) Entities() []ecs.Entity {
	return w.registry.Entities()
}

// Reset removes every entity so the world can be populated again
func (w *World) Reset() {
	w.registry.Reset()
}

// Exists reports whether e has any component
func (w *World) Exists(e ecs.Entity) bool {
	return w.registry.Exists(e)
}

// Player returns the player entity and its position
func (w *World) Player() (ecs.Entity, Position, bool) {
	rows := ecs.Join2(w.Players, w.Positions)
	if len(rows) == 0 {
		return ecs.Nil, Position{}, false
	}
	return rows[0].Entity, rows[0].B, true
}

// Kind classifies an entity for snapshots
func (w *World) Kind(e ecs.Entity) EntityKind {
	switch {
	case w.Players.Has(e):
		return KindPlayer
	case w.Boxes.Has(e):
		return KindBox
	case w.Spots.Has(e):
		return KindSpot
	case w.Walls.Has(e):
		return KindWall
	default:
		return KindFloor
	}
}

// ColorOf returns the color of a box or spot
func (w *World) ColorOf(e ecs.Entity) (Color, bool) {
	if b, ok := w.Boxes.Get(e); ok {
		return b.Color, true
	}
	if s, ok := w.Spots.Get(e); ok {
		return s.Color, true
	}
	return "", false
}

// cellIndex maps each cell to the entity of the given class standing on it.
// It is rebuilt on every call.
func (w *World) cellIndex(class ecs.Membership) map[Cell]ecs.Entity {
	return ecs.BuildIndex(w.Positions, Position.Cell, class)
}

// InputQueue holds directions waiting for a tick, oldest first
type InputQueue struct {
	pending []Direction
	limit   int
}

// NewInputQueue creates a queue that holds at most limit inputs
func NewInputQueue(limit int) *InputQueue {
	if limit <= 0 {
		limit = MaxPendingInputs
	}
	return &InputQueue{limit: limit}
}

// Push appends an input; it fails once the queue is full
func (q *InputQueue) Push(d Direction) error {
	if !d.Valid() {
		return ErrInvalidDirection
	}
	if len(q.pending) >= q.limit {
		return ErrInputQueueFull
	}
	q.pending = append(q.pending, d)
	return nil
}

// Pop removes the oldest input
func (q *InputQueue) Pop() (Direction, bool) {
	if len(q.pending) == 0 {
		return "", false
	}
	d := q.pending[0]
	q.pending = q.pending[1:]
	return d, true
}

// Len returns the number of waiting inputs
func (q *InputQueue) Len() int {
	return len(q.pending)
}

// Clear drops every waiting input
func (q *InputQueue) Clear() {
	q.pending = nil
}

// Clock accumulates simulated time across ticks
type Clock struct {
	Tick    uint64        `json:"tick"`
	Elapsed time.Duration `json:"elapsed"`
	Delta   time.Duration `json:"delta"`
}

// Advance moves the clock forward by one tick of length delta
func (c *Clock) Advance(delta time.Duration) {
	c.Tick++
	c.Delta = delta
	c.Elapsed += delta
}

// SimulationState is everything a tick reads and writes
type SimulationState struct {
	World      *World
	Gameplay   Gameplay
	Stats      Stats
	Events     *EventQueue
	Inputs     *InputQueue
	Clock      Clock
	Width      int
	Height     int
	Terminated bool
}

// NewSimulationState wraps a populated world of the given size
func NewSimulationState(world *World, width, height int) *SimulationState {
	return &SimulationState{
		World:  world,
		Events: &EventQueue{},
		Inputs: NewInputQueue(MaxPendingInputs),
		Width:  width,
		Height: height,
	}
}

// InBounds reports whether c lies on the grid
func (st *SimulationState) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < st.Width && c.Y < st.Height
}
