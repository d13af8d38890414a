// Package terminal plays a level locally on a tcell screen.
//
// Keys are queued with SubmitInput as they arrive and one input is resolved
// per tick at 60 Hz, so a burst of keys plays out over consecutive frames.
// Each frame draws the engine's draw list lowest layer first and a status
// block under the board:
//
//	classic  Playing  moves 12  pushes 3
//	Box placed on a matching spot.
//	arrows/hjkl/wasd move  r reset  esc quit
//
// Run returns once the level terminates, the player quits or the context is
// cancelled.
package terminal
