package engine

import "github.com/wricardo/boxpusher/game/ecs"

// EvaluateWin rescans every spot against the boxes standing on it.
// An empty spot sets the phase back to Playing. A box of the wrong color ends
// the scan and leaves the phase as it was. When every spot holds a box of its
// color the phase becomes Won and one GameOver is queued.
func EvaluateWin(st *SimulationState) Phase {
	w := st.World
	boxes := w.cellIndex(w.Boxes)

	for _, spot := range ecs.Join2(w.Spots, w.Positions) {
		boxEntity, ok := boxes[spot.B.Cell()]
		if !ok {
			st.Gameplay.Phase = Playing
			return st.Gameplay.Phase
		}
		box, _ := w.Boxes.Get(boxEntity)
		if box.Color != spot.A.Color {
			return st.Gameplay.Phase
		}
	}

	st.Gameplay.Phase = Won
	st.Events.Push(GameOver())
	return st.Gameplay.Phase
}

// CountPlaced returns how many spots hold a box of their color, and how many spots exist
func CountPlaced(w *World) (placed, total int) {
	boxes := w.cellIndex(w.Boxes)
	for _, spot := range ecs.Join2(w.Spots, w.Positions) {
		total++
		if e, ok := boxes[spot.B.Cell()]; ok {
			if box, _ := w.Boxes.Get(e); box.Color == spot.A.Color {
				placed++
			}
		}
	}
	return placed, total
}
