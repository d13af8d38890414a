package solver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/solver"
)

func corridorLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "corridor",
		Description: "One box, one spot",
		Layout: []string{
			"W W W W W W",
			"W P . . . W",
			"W . BB . . W",
			"W . . . BS W",
			"W W W W W W",
		},
	}
}

func TestSolveCorridor(t *testing.T) {
	result, err := solver.SolveLevel(context.Background(), corridorLevel(), solver.Options{})
	require.NoError(t, err)

	assert.Len(t, result.Solution, 6)
	assert.Equal(t, 3, result.Pushes)
	assert.Equal(t, engine.Down, result.First())
	assert.Positive(t, result.Explored)
}

func TestSolveClassicReplaysThroughEngine(t *testing.T) {
	level := engine.DefaultLevel()
	result, err := solver.SolveLevel(context.Background(), level, solver.Options{})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Solution), 18)

	eng, err := engine.NewEngine(level)
	require.NoError(t, err)
	eng.BulkMove(result.Solution)

	assert.True(t, eng.IsWon())
	assert.True(t, eng.IsTerminated())
	assert.Equal(t, len(result.Solution), eng.GetGameplay().Moves)
}

func TestSolveChainPush(t *testing.T) {
	p := &solver.Puzzle{
		Width:  5,
		Height: 1,
		Walls:  map[engine.Cell]bool{},
		Spots: map[engine.Cell]engine.Color{
			{X: 2, Y: 0}: engine.Blue,
			{X: 3, Y: 0}: engine.Red,
		},
		Boxes: map[engine.Cell]engine.Color{
			{X: 1, Y: 0}: engine.Blue,
			{X: 2, Y: 0}: engine.Red,
		},
		Player: engine.Cell{X: 0, Y: 0},
	}

	result, err := solver.Solve(context.Background(), p, solver.Options{})
	require.NoError(t, err)
	assert.Equal(t, []engine.Direction{engine.Right}, result.Solution)
	assert.Equal(t, 2, result.Pushes)
}

func TestSolveAlreadySolved(t *testing.T) {
	p := &solver.Puzzle{
		Width:  3,
		Height: 1,
		Walls:  map[engine.Cell]bool{},
		Spots:  map[engine.Cell]engine.Color{{X: 1, Y: 0}: engine.Green},
		Boxes:  map[engine.Cell]engine.Color{{X: 1, Y: 0}: engine.Green},
		Player: engine.Cell{X: 0, Y: 0},
	}

	result, err := solver.Solve(context.Background(), p, solver.Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Solution)
	assert.Equal(t, engine.Direction(""), result.First())
}

func TestSolveSpareBoxInCorner(t *testing.T) {
	p := &solver.Puzzle{
		Width:  5,
		Height: 3,
		Walls:  map[engine.Cell]bool{},
		Spots:  map[engine.Cell]engine.Color{{X: 3, Y: 1}: engine.Blue},
		Boxes: map[engine.Cell]engine.Color{
			{X: 0, Y: 0}: engine.Blue,
			{X: 1, Y: 1}: engine.Blue,
		},
		Player: engine.Cell{X: 0, Y: 1},
	}

	result, err := solver.Solve(context.Background(), p, solver.Options{})
	require.NoError(t, err)
	assert.Equal(t, []engine.Direction{engine.Right, engine.Right}, result.Solution)
}

func TestSolveNoSolution(t *testing.T) {
	level := &engine.LevelConfig{
		Name:        "stuck",
		Description: "The only box starts in a corner",
		Layout: []string{
			"W W W W W",
			"W BB . P W",
			"W . . BS W",
			"W W W W W",
		},
	}

	_, err := solver.SolveLevel(context.Background(), level, solver.Options{})
	assert.True(t, errors.Is(err, solver.ErrNoSolution), "got %v", err)
}

func TestSolveBudgetExceeded(t *testing.T) {
	_, err := solver.SolveLevel(context.Background(), engine.DefaultLevel(), solver.Options{MaxStates: 1})
	assert.ErrorIs(t, err, solver.ErrBudgetExceeded)
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.SolveLevel(ctx, engine.DefaultLevel(), solver.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFromStateMatchesLevel(t *testing.T) {
	eng, err := engine.NewEngine(corridorLevel())
	require.NoError(t, err)
	eng.Move(engine.Down)

	p, err := solver.FromState(eng.GetState())
	require.NoError(t, err)

	assert.Equal(t, engine.Cell{X: 1, Y: 2}, p.Player)
	assert.Equal(t, engine.Blue, p.Boxes[engine.Cell{X: 2, Y: 2}])
	assert.Equal(t, engine.Blue, p.Spots[engine.Cell{X: 4, Y: 3}])
	assert.True(t, p.Walls[engine.Cell{X: 0, Y: 0}])

	result, err := solver.Solve(context.Background(), p, solver.Options{})
	require.NoError(t, err)
	assert.Len(t, result.Solution, 5)
}

func TestFromEntitiesRequiresPlayer(t *testing.T) {
	_, err := solver.FromEntities(3, 3, []engine.EntityState{{Kind: engine.KindWall}})
	assert.Error(t, err)
}
