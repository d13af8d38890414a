package engine

import (
	"fmt"
	"sync"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsWon() bool
	IsTerminated() bool
	GetGameplay() Gameplay
	GetPlayerPosition() Cell

	// Ticks and input
	SubmitInput(dir Direction) error
	ResolveTick(delta time.Duration) *TickReport
	Move(dir Direction) *TickReport
	CanMove(dir Direction) bool
	GetPossibleMoves() []Direction

	// Level
	GetLevel() *LevelConfig
	SetLevel(level *LevelConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Presentation
	DrawList(elapsed time.Duration) []Sprite
	RenderBoard() []string
	DescribeCell(c Cell) []EntityState
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithFeedback routes sound triggers to f
func WithFeedback(f Feedback) Option {
	return func(e *GameEngine) {
		e.feedback = f
	}
}

// WithTickDelta sets the simulated duration of ticks run through Move
func WithTickDelta(d time.Duration) Option {
	return func(e *GameEngine) {
		e.tickDelta = d
	}
}

// GameEngine implements the Engine interface. Every method holds the engine
// lock for its whole duration, so a tick is never observed half done.
type GameEngine struct {
	mu sync.Mutex

	level      *LevelConfig
	sim        *SimulationState
	dispatcher *Dispatcher
	feedback   Feedback
	tickDelta  time.Duration

	message      string
	history      []MoveHistoryEntry
	currentMoves []MoveHistoryEntry
}

// NewEngine creates a new game engine for the provided level
func NewEngine(level *LevelConfig, opts ...Option) (*GameEngine, error) {
	e := &GameEngine{tickDelta: 16 * time.Millisecond}
	for _, opt := range opts {
		opt(e)
	}
	e.dispatcher = NewDispatcher(e.feedback)
	if err := e.load(level); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a new game engine running the classic level
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultLevel(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default level is invalid: %v", err))
	}
	return e
}

func (e *GameEngine) load(level *LevelConfig) error {
	sim, err := NewSimulationStateFromLevel(level)
	if err != nil {
		return err
	}
	e.level = level
	e.sim = sim
	e.message = level.Messages.Welcome
	return nil
}

// Simulation exposes the underlying state. Callers must not use it while
// other goroutines drive the engine.
func (e *GameEngine) Simulation() *SimulationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sim
}

// SetFeedback replaces the sound sink
func (e *GameEngine) SetFeedback(f Feedback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feedback = f
	e.dispatcher.SetFeedback(f)
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *GameEngine) snapshot() *GameState {
	placed, total := CountPlaced(e.sim.World)
	_, player, _ := e.sim.World.Player()

	history := make([]MoveHistoryEntry, len(e.history))
	copy(history, e.history)
	current := make([]MoveHistoryEntry, len(e.currentMoves))
	copy(current, e.currentMoves)

	return &GameState{
		Level:             e.level.Name,
		Width:             e.sim.Width,
		Height:            e.sim.Height,
		Board:             RenderBoard(e.sim),
		Legend:            BoardLegend,
		Player:            player.Cell(),
		Entities:          EntityStates(e.sim.World),
		Phase:             e.sim.Gameplay.Phase,
		Won:               e.sim.Gameplay.Phase == Won,
		Moves:             e.sim.Gameplay.Moves,
		Tick:              e.sim.Clock.Tick,
		Terminated:        e.sim.Terminated,
		BoxesOnTarget:     placed,
		TotalTargets:      total,
		Stats:             e.sim.Stats,
		Message:           e.message,
		MoveHistory:       history,
		TotalMoves:        len(history),
		CurrentMoves:      current,
		CurrentMovesCount: len(current),
	}
}

// SetState restores a snapshot taken from the same level (used for persistence loading).
// The world is rebuilt from the level and entity positions are applied by ID.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if state.Level != e.level.Name {
		return fmt.Errorf("%w: snapshot is for level %q, engine runs %q", ErrStateMismatch, state.Level, e.level.Name)
	}

	sim, err := NewSimulationStateFromLevel(e.level)
	if err != nil {
		return err
	}
	for _, es := range state.Entities {
		if !sim.World.Exists(es.ID) {
			return fmt.Errorf("%w: unknown entity %d", ErrStateMismatch, es.ID)
		}
		if kind := sim.World.Kind(es.ID); kind != es.Kind {
			return fmt.Errorf("%w: entity %d is a %s, snapshot says %s", ErrStateMismatch, es.ID, kind, es.Kind)
		}
		sim.World.Positions.Set(es.ID, Position{X: es.X, Y: es.Y, Z: es.Z})
	}
	sim.Gameplay = Gameplay{Phase: state.Phase, Moves: state.Moves}
	sim.Stats = state.Stats
	sim.Clock.Tick = state.Tick
	sim.Terminated = state.Terminated

	e.sim = sim
	e.message = state.Message
	e.history = append([]MoveHistoryEntry(nil), state.MoveHistory...)
	e.currentMoves = append([]MoveHistoryEntry(nil), state.CurrentMoves...)
	return nil
}

// Reset restarts the level
func (e *GameEngine) Reset() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	// The level was valid when loaded and is immutable since
	layout, err := ParseLayout(e.level.Layout)
	if err != nil {
		panic(fmt.Sprintf("reset: %v", err))
	}
	world := e.sim.World
	world.Reset()
	if err := layout.Populate(world); err != nil {
		panic(fmt.Sprintf("reset: %v", err))
	}

	// Preserve cumulative history; clear only the current segment
	e.sim = NewSimulationState(world, layout.Width, layout.Height)
	e.message = e.level.Messages.Welcome
	e.currentMoves = nil

	return e.snapshot()
}

// IsWon returns whether every spot holds a matching box
func (e *GameEngine) IsWon() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sim.Gameplay.Phase == Won
}

// IsTerminated returns whether the host was told to stop
func (e *GameEngine) IsTerminated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sim.Terminated
}

// GetGameplay returns the phase and move counter
func (e *GameEngine) GetGameplay() Gameplay {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sim.Gameplay
}

// GetPlayerPosition returns the cell the player stands on
func (e *GameEngine) GetPlayerPosition() Cell {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, pos, _ := e.sim.World.Player()
	return pos.Cell()
}

// SubmitInput queues a direction for a later ResolveTick
func (e *GameEngine) SubmitInput(dir Direction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sim.Inputs.Push(dir)
}

// ResolveTick runs one tick, consuming the oldest queued input if any
func (e *GameEngine) ResolveTick(delta time.Duration) *TickReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	var input *Direction
	if dir, ok := e.sim.Inputs.Pop(); ok {
		input = &dir
	}
	return e.tick(input, delta)
}

// Move runs one tick with dir as its input, bypassing the input queue
func (e *GameEngine) Move(dir Direction) *TickReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick(&dir, e.tickDelta)
}

func (e *GameEngine) tick(input *Direction, delta time.Duration) *TickReport {
	wasTerminated := e.sim.Terminated
	report := RunTick(e.sim, input, e.dispatcher, delta)
	if input == nil || wasTerminated {
		return report
	}

	e.recordMove(report)
	e.updateMessage(report)
	return report
}

func (e *GameEngine) recordMove(report *TickReport) {
	out := report.Outcome
	entry := MoveHistoryEntry{
		Action:     *report.Input,
		Tick:       report.Tick,
		Timestamp:  time.Now().Unix(),
		MoveNumber: len(e.history) + 1,
	}
	if out != nil {
		entry.From = out.From
		entry.To = out.To
		entry.Pushed = out.Pushed()
		entry.Success = out.Moved()
	}
	for _, ev := range report.Events {
		entry.Events = append(entry.Events, ev.String())
	}
	e.history = append(e.history, entry)
	e.currentMoves = append(e.currentMoves, entry)
}

func (e *GameEngine) updateMessage(report *TickReport) {
	msgs := e.level.Messages
	switch {
	case report.Gameplay.Phase == Won:
		e.message = orDefault(msgs.Won, "All boxes are on their spots. You won!")
	case report.Outcome != nil && report.Outcome.Blocked:
		e.message = orDefault(msgs.Blocked, "Blocked by a wall.")
	case report.Outcome != nil && report.Outcome.Boundary:
		e.message = "Can't move past the edge of the map."
	default:
		e.message = fmt.Sprintf("Moves: %d", report.Gameplay.Moves)
		for _, ev := range report.Events {
			if ev.Kind != EventBoxPlacedOnSpot {
				continue
			}
			if ev.Correct {
				e.message = orDefault(msgs.Correct, "Box placed on a matching spot.")
			} else {
				e.message = orDefault(msgs.Incorrect, "Box placed on a spot of another color.")
			}
		}
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// CanMove reports whether dir would move the player right now
func (e *GameEngine) CanMove(dir Direction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sim.Terminated {
		return false
	}
	return len(PlanMovement(e.sim, dir).Chain) > 0
}

// GetPossibleMoves returns all directions that would move the player
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetLevel returns the current level
func (e *GameEngine) GetLevel() *LevelConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// SetLevel switches to a new level and starts it from scratch
func (e *GameEngine) SetLevel(level *LevelConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load(level)
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]MoveHistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// DrawList returns the sprites to draw, lowest layer first
func (e *GameEngine) DrawList(elapsed time.Duration) []Sprite {
	e.mu.Lock()
	defer e.mu.Unlock()
	return DrawList(e.sim.World, elapsed)
}

// RenderBoard returns the board as text rows
func (e *GameEngine) RenderBoard() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return RenderBoard(e.sim)
}

// DescribeCell lists the entities on a cell
func (e *GameEngine) DescribeCell(c Cell) []EntityState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EntitiesAt(e.sim.World, c)
}

// BulkMove executes moves in sequence until the level is won
func (e *GameEngine) BulkMove(moves []Direction) []*TickReport {
	reports := make([]*TickReport, 0, len(moves))
	for _, dir := range moves {
		if e.IsTerminated() {
			break
		}
		reports = append(reports, e.Move(dir))
	}
	return reports
}
