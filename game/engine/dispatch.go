package engine

import "github.com/wricardo/boxpusher/game/ecs"

// Sound names raised by the feedback reactors
const (
	SoundWall      = "wall"
	SoundCorrect   = "correct"
	SoundIncorrect = "incorrect"
)

// Sounds lists every sound name the core can raise
var Sounds = []string{SoundCorrect, SoundIncorrect, SoundWall}

// Feedback receives named sound triggers. Implementations must not block.
type Feedback interface {
	PlaySound(name string)
}

// FeedbackFunc adapts a function to Feedback
type FeedbackFunc func(name string)

// PlaySound calls f(name)
func (f FeedbackFunc) PlaySound(name string) {
	f(name)
}

// Handler reacts to one dispatched event
type Handler func(ctx *DispatchContext, ev Event)

// DispatchContext is handed to handlers while a batch is processed
type DispatchContext struct {
	State *SimulationState

	next     []Event
	sounds   []string
	feedback Feedback
}

// Emit queues an event for the next pass. It is never seen by the current one.
func (c *DispatchContext) Emit(ev Event) {
	c.next = append(c.next, ev)
}

// PlaySound forwards a sound trigger to the host and records it
func (c *DispatchContext) PlaySound(name string) {
	c.sounds = append(c.sounds, name)
	if c.feedback != nil {
		c.feedback.PlaySound(name)
	}
}

// Terminate signals the host that the run loop should stop
func (c *DispatchContext) Terminate() {
	c.State.Terminated = true
}

// DispatchResult is what one Drain call processed
type DispatchResult struct {
	Events []Event  `json:"events"`
	Sounds []string `json:"sounds"`
	Passes int      `json:"passes"`
}

// Dispatcher routes queued events to the handlers registered for their kind
type Dispatcher struct {
	handlers  map[EventKind][]Handler
	feedback  Feedback
	maxPasses int
}

// NewDispatcher creates a dispatcher with the standard reactors registered
func NewDispatcher(feedback Feedback) *Dispatcher {
	d := NewEmptyDispatcher(feedback)
	RegisterReactors(d)
	return d
}

// NewEmptyDispatcher creates a dispatcher with no handlers
func NewEmptyDispatcher(feedback Feedback) *Dispatcher {
	return &Dispatcher{
		handlers:  make(map[EventKind][]Handler),
		feedback:  feedback,
		maxPasses: MaxDispatchPasses,
	}
}

// On registers a handler for an event kind. Handlers run in registration order.
func (d *Dispatcher) On(kind EventKind, h Handler) {
	d.handlers[kind] = append(d.handlers[kind], h)
}

// SetFeedback replaces the sound sink
func (d *Dispatcher) SetFeedback(feedback Feedback) {
	d.feedback = feedback
}

// Drain processes the queue in passes. Each pass takes a snapshot of the
// queue, hands every event to its handlers, then appends whatever the
// handlers emitted as the next batch. Passes repeat until the queue is empty
// or the pass limit is reached; anything left stays queued.
func (d *Dispatcher) Drain(st *SimulationState) DispatchResult {
	ctx := &DispatchContext{State: st, feedback: d.feedback}
	var result DispatchResult

	for result.Passes < d.maxPasses && st.Events.Len() > 0 {
		batch := st.Events.Drain()
		ctx.next = nil
		for _, ev := range batch {
			for _, h := range d.handlers[ev.Kind] {
				h(ctx, ev)
			}
			result.Events = append(result.Events, ev)
		}
		for _, ev := range ctx.next {
			st.Events.Push(ev)
		}
		result.Passes++
	}

	result.Sounds = ctx.sounds
	return result
}

// RegisterReactors installs obstacle feedback, box placement detection,
// placement feedback, scoring and termination.
func RegisterReactors(d *Dispatcher) {
	d.On(EventPlayerHitObstacle, obstacleFeedback)
	d.On(EventEntityMoved, detectPlacement)
	d.On(EventBoxPlacedOnSpot, placementFeedback)
	d.On(EventGameOver, terminateOnWin)

	d.On(EventPlayerHitObstacle, score)
	d.On(EventEntityMoved, score)
	d.On(EventBoxPlacedOnSpot, score)
}

func obstacleFeedback(ctx *DispatchContext, _ Event) {
	ctx.PlaySound(SoundWall)
}

// detectPlacement checks whether a moved box now stands on a spot
func detectPlacement(ctx *DispatchContext, ev Event) {
	w := ctx.State.World
	box, ok := w.Boxes.Get(ev.Entity)
	if !ok {
		return
	}
	pos, ok := w.Positions.Get(ev.Entity)
	if !ok {
		return
	}
	for _, spot := range ecs.Join2(w.Spots, w.Positions) {
		if spot.B.Cell() == pos.Cell() {
			ctx.Emit(BoxPlacedOnSpot(spot.A.Color == box.Color))
			return
		}
	}
}

func placementFeedback(ctx *DispatchContext, ev Event) {
	if ev.Correct {
		ctx.PlaySound(SoundCorrect)
	} else {
		ctx.PlaySound(SoundIncorrect)
	}
}

func terminateOnWin(ctx *DispatchContext, _ Event) {
	if ctx.State.Gameplay.Phase == Won {
		ctx.Terminate()
	}
}

func score(ctx *DispatchContext, ev Event) {
	stats := &ctx.State.Stats
	switch ev.Kind {
	case EventPlayerHitObstacle:
		stats.ObstacleHits++
	case EventEntityMoved:
		if ctx.State.World.Boxes.Has(ev.Entity) {
			stats.Pushes++
		}
	case EventBoxPlacedOnSpot:
		if ev.Correct {
			stats.CorrectPlacements++
		} else {
			stats.IncorrectPlacements++
		}
	}
}
