package engine

import (
	"testing"

	"github.com/wricardo/boxpusher/game/ecs"
)

// newState builds a simulation state from layout rows without level validation
func newState(t *testing.T, rows ...string) *SimulationState {
	t.Helper()
	layout, err := ParseLayout(rows)
	if err != nil {
		t.Fatalf("Failed to parse layout: %v", err)
	}
	w := NewWorld()
	if err := layout.Populate(w); err != nil {
		t.Fatalf("Failed to populate world: %v", err)
	}
	return NewSimulationState(w, layout.Width, layout.Height)
}

func playerOf(t *testing.T, st *SimulationState) ecs.Entity {
	t.Helper()
	e, _, ok := st.World.Player()
	if !ok {
		t.Fatal("Expected a player entity")
	}
	return e
}

// boxAt returns the box standing on c
func boxAt(t *testing.T, st *SimulationState, c Cell) ecs.Entity {
	t.Helper()
	for _, row := range ecs.Join2(st.World.Boxes, st.World.Positions) {
		if row.B.Cell() == c {
			return row.Entity
		}
	}
	t.Fatalf("Expected a box at %v", c)
	return ecs.Nil
}

func cellOf(t *testing.T, st *SimulationState, e ecs.Entity) Cell {
	t.Helper()
	pos, ok := st.World.Positions.Get(e)
	if !ok {
		t.Fatalf("Entity %d has no position", e)
	}
	return pos.Cell()
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// classicSolution solves DefaultLevel
var classicSolution = []Direction{
	Up, Right, Right, Right, Down, Down, Down,
	Up, Up, Up, Up, Left, Up, Left, Down, Down, Down, Down,
}

type soundRecorder struct {
	sounds []string
}

func (r *soundRecorder) PlaySound(name string) {
	r.sounds = append(r.sounds, name)
}
