package solver

import (
	"context"
	"errors"

	"github.com/wricardo/boxpusher/game/engine"
)

const (
	// DefaultMaxStates bounds a search when Options.MaxStates is zero
	DefaultMaxStates = 200000

	ctxCheckInterval = 1024
)

var (
	// ErrNoSolution is returned when every reachable arrangement was explored
	ErrNoSolution = errors.New("no solution")
	// ErrBudgetExceeded is returned when the search hit MaxStates first
	ErrBudgetExceeded = errors.New("search budget exceeded")
)

// Options tune a search
type Options struct {
	MaxStates int
}

// Result is a shortest sequence of moves that wins the puzzle
type Result struct {
	Solution []engine.Direction `json:"solution"`
	Pushes   int                `json:"pushes"`
	Explored int                `json:"explored"`
}

// First returns the first move of the solution, or "" when already solved
func (r *Result) First() engine.Direction {
	if len(r.Solution) == 0 {
		return ""
	}
	return r.Solution[0]
}

type queueItem struct {
	state  node
	path   []engine.Direction
	pushes int
}

// Solve runs a breadth-first search over player moves and returns the
// shortest winning sequence. Arrangements with a box stuck in a corner away
// from its spot are never expanded.
func Solve(ctx context.Context, p *Puzzle, opts Options) (*Result, error) {
	maxStates := opts.MaxStates
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := p.start()
	if p.solved(start) {
		return &Result{Solution: []engine.Direction{}, Explored: 1}, nil
	}
	surplus := p.surplus()

	queue := []queueItem{{state: start, path: []engine.Direction{}}}
	visited := make(map[string]bool)
	visited[start.key()] = true
	explored := 0

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		explored++

		if explored%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if len(visited) > maxStates {
			return nil, ErrBudgetExceeded
		}

		for _, dir := range engine.Directions {
			next, pushed, ok := p.step(current.state, dir)
			if !ok {
				continue
			}
			k := next.key()
			if visited[k] {
				continue
			}
			visited[k] = true

			path := append(make([]engine.Direction, 0, len(current.path)+1), current.path...)
			path = append(path, dir)
			pushes := current.pushes + pushed

			if pushed > 0 && p.solved(next) {
				return &Result{Solution: path, Pushes: pushes, Explored: explored}, nil
			}
			if pushed > 0 && p.dead(next, surplus) {
				continue
			}
			queue = append(queue, queueItem{state: next, path: path, pushes: pushes})
		}
	}

	return nil, ErrNoSolution
}

// SolveLevel searches from the starting layout of level
func SolveLevel(ctx context.Context, level *engine.LevelConfig, opts Options) (*Result, error) {
	p, err := FromLevel(level)
	if err != nil {
		return nil, err
	}
	return Solve(ctx, p, opts)
}
