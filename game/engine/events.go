package engine

import (
	"fmt"

	"github.com/wricardo/boxpusher/game/ecs"
)

// EventKind tags an Event
type EventKind int

const (
	EventPlayerHitObstacle EventKind = iota
	EventEntityMoved
	EventBoxPlacedOnSpot
	EventGameOver
)

var eventKindNames = map[EventKind]string{
	EventPlayerHitObstacle: "player_hit_obstacle",
	EventEntityMoved:       "entity_moved",
	EventBoxPlacedOnSpot:   "box_placed_on_spot",
	EventGameOver:          "game_over",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// MarshalText encodes the kind by name
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *EventKind) UnmarshalText(text []byte) error {
	for kind, name := range eventKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Event records something that already happened during a tick
type Event struct {
	Kind    EventKind  `json:"kind"`
	Entity  ecs.Entity `json:"entity,omitempty"`
	Correct bool       `json:"correct,omitempty"`
}

// PlayerHitObstacle is raised when a push runs into an immovable entity
func PlayerHitObstacle() Event {
	return Event{Kind: EventPlayerHitObstacle}
}

// EntityMoved is raised once for every entity that changed cell
func EntityMoved(e ecs.Entity) Event {
	return Event{Kind: EventEntityMoved, Entity: e}
}

// BoxPlacedOnSpot is raised when a moved box ends on a spot
func BoxPlacedOnSpot(correct bool) Event {
	return Event{Kind: EventBoxPlacedOnSpot, Correct: correct}
}

// GameOver is raised by the win evaluator when every spot is satisfied
func GameOver() Event {
	return Event{Kind: EventGameOver}
}

func (e Event) String() string {
	switch e.Kind {
	case EventEntityMoved:
		return fmt.Sprintf("EntityMoved(%d)", e.Entity)
	case EventBoxPlacedOnSpot:
		return fmt.Sprintf("BoxPlacedOnSpot{correct=%t}", e.Correct)
	case EventPlayerHitObstacle:
		return "PlayerHitObstacle"
	case EventGameOver:
		return "GameOver"
	}
	return e.Kind.String()
}

// EventQueue buffers events between producers and the dispatcher
type EventQueue struct {
	events []Event
}

// Push appends an event
func (q *EventQueue) Push(ev Event) {
	q.events = append(q.events, ev)
}

// Drain removes and returns every queued event. Events pushed afterwards
// start a new batch.
func (q *EventQueue) Drain() []Event {
	batch := q.events
	q.events = nil
	return batch
}

// Pending returns a copy of the queued events without removing them
func (q *EventQueue) Pending() []Event {
	cp := make([]Event, len(q.events))
	copy(cp, q.events)
	return cp
}

// Len returns the number of queued events
func (q *EventQueue) Len() int {
	return len(q.events)
}
