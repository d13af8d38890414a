package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/solver"
)

// Strategy names
const (
	StrategyHint  = "hint"
	StrategySolve = "solve"
)

// ErrStuck is returned when a strategy cannot make progress
var ErrStuck = errors.New("no winning move available")

// Outcome summarizes a finished attempt
type Outcome struct {
	Won    bool
	Moves  int
	Pushes int
}

// Options tune a play run
type Options struct {
	Strategy  string
	MaxMoves  int
	MaxStates int
	Delay     time.Duration
	Verbose   bool
}

// Play drives the session to a win with the chosen strategy
func Play(ctx context.Context, c *Client, opts Options) (*Outcome, error) {
	switch opts.Strategy {
	case StrategyHint, "":
		return playHints(ctx, c, opts)
	case StrategySolve:
		return playSolution(ctx, c, opts)
	default:
		return nil, fmt.Errorf("unknown strategy %q (use %s or %s)", opts.Strategy, StrategyHint, StrategySolve)
	}
}

func outcomeOf(state *engine.GameState) *Outcome {
	return &Outcome{Won: state.Won, Moves: state.Moves, Pushes: state.Stats.Pushes}
}

// playHints asks the server for one move at a time
func playHints(ctx context.Context, c *Client, opts Options) (*Outcome, error) {
	state, err := c.GetState(ctx)
	if err != nil {
		return nil, err
	}

	for moves := 0; !state.Won; moves++ {
		if opts.MaxMoves > 0 && moves >= opts.MaxMoves {
			return outcomeOf(state), fmt.Errorf("gave up after %d moves", moves)
		}

		hint, err := c.Hint(ctx)
		if err != nil {
			return outcomeOf(state), err
		}
		if !hint.Solvable || hint.Direction == "" {
			return outcomeOf(state), fmt.Errorf("%w: %s", ErrStuck, hint.Message)
		}

		result, err := c.Move(ctx, hint.Direction)
		if err != nil {
			return outcomeOf(state), err
		}
		state = result.GameState
		if opts.Verbose {
			log.Printf("%s -> (%d,%d) %s", hint.Direction, state.Player.X, state.Player.Y, result.Message)
		}

		if err := pause(ctx, opts.Delay); err != nil {
			return outcomeOf(state), err
		}
	}
	return outcomeOf(state), nil
}

// playSolution solves the current state locally and sends it in bulk
func playSolution(ctx context.Context, c *Client, opts Options) (*Outcome, error) {
	state, err := c.GetState(ctx)
	if err != nil {
		return nil, err
	}
	if state.Won {
		return outcomeOf(state), nil
	}

	puzzle, err := solver.FromState(state)
	if err != nil {
		return nil, err
	}
	sol, err := solver.Solve(ctx, puzzle, solver.Options{MaxStates: opts.MaxStates})
	if err != nil {
		return outcomeOf(state), fmt.Errorf("%w: %v", ErrStuck, err)
	}
	log.Printf("Solved locally: %d moves, %d pushes (%d positions explored)",
		len(sol.Solution), sol.Pushes, sol.Explored)

	if opts.MaxMoves > 0 && len(sol.Solution) > opts.MaxMoves {
		return outcomeOf(state), fmt.Errorf("solution needs %d moves, limit is %d", len(sol.Solution), opts.MaxMoves)
	}

	remaining := sol.Solution
	for len(remaining) > 0 {
		batch := remaining[:min(len(remaining), engine.MaxBulkMoves)]
		result, err := c.BulkMove(ctx, batch)
		if err != nil {
			return outcomeOf(state), err
		}
		state = result.GameState
		if opts.Verbose {
			log.Printf("Executed %d/%d moves, now at (%d,%d)",
				result.MovesExecuted, result.RequestedMoves, result.EndPos.X, result.EndPos.Y)
		}
		if result.MovesExecuted < len(batch) && !result.Won {
			return outcomeOf(state), fmt.Errorf("stopped on move %d: %s", result.StoppedOnMove, result.StoppedReason)
		}
		remaining = remaining[len(batch):]
	}
	return outcomeOf(state), nil
}
