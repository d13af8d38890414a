// Package engine provides the core simulation of the box-pushing puzzle.
//
// The engine package implements:
//   - Entity/component data for walls, floors, boxes, spots and the player
//   - The movement resolver with chain pushes
//   - An event queue and dispatcher with sound, placement, scoring and
//     termination reactors
//   - The win-state evaluator
//   - Level parsing, validation and snapshots
//
// Core Types:
//
// SimulationState owns the world, the gameplay record, the event queue and
// the pending inputs. RunTick drives one tick against it in a fixed order:
// movement, win evaluation, clock, dispatch. GameEngine wraps a state behind
// a mutex and implements the Engine interface used by the service layer.
//
// Usage:
//
//	level, err := engine.LoadLevel("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	report := gameEngine.Move(engine.Right)
//	for _, ev := range report.Events {
//		fmt.Println(ev)
//	}
//
// Game Rules:
//
// The player walks on a grid and pushes any run of boxes in front of it,
// as long as the cell past the last box is free. Walls stop the whole run.
// The level is won when every spot holds a box of the same color; the
// engine then signals termination and ignores further input.
package engine
