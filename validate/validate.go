// Package validate checks level files before they are served. For each
// file it verifies:
//   - JSON structure and the level rules (one player, spots, box counts)
//   - Connectivity: every box and spot lies in the region the player can walk
//   - Solvability: the solver finds a solution within its state budget
package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/boxpusher/game/config"
	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/solver"
)

// Options tune the checks
type Options struct {
	// MaxStates bounds the solver; zero uses solver.DefaultMaxStates
	MaxStates int
	// SkipSolve disables the solvability check
	SkipSolve bool
}

// Result captures the outcome of validating a single file. If Valid is true,
// Errors is empty and Info describes the level.
type Result struct {
	File     string
	Valid    bool
	Errors   []string
	Info     []string
	Level    *engine.LevelConfig
	Solution *solver.Result
}

func (r *Result) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// File loads and validates a single level JSON file
func File(ctx context.Context, path string, opts Options) Result {
	result := Result{File: filepath.Base(path), Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var level engine.LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	checked := Level(ctx, &level, opts)
	checked.File = result.File
	return checked
}

// Level validates a level already in memory
func Level(ctx context.Context, level *engine.LevelConfig, opts Options) Result {
	result := Result{Valid: true, Level: level}

	if err := engine.ValidateLevel(level); err != nil {
		result.fail("%v", err)
		return result
	}

	layout, err := engine.ParseLayout(level.Layout)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	for _, msg := range checkConnectivity(layout) {
		result.fail("%s", msg)
	}
	if !result.Valid {
		return result
	}

	if !opts.SkipSolve {
		sol, err := solver.SolveLevel(ctx, level, solver.Options{MaxStates: opts.MaxStates})
		switch {
		case errors.Is(err, solver.ErrNoSolution):
			result.fail("Unsolvable: no sequence of pushes places every box")
		case errors.Is(err, solver.ErrBudgetExceeded):
			result.Info = append(result.Info, fmt.Sprintf("? Solvability unknown: %v", err))
		case err != nil:
			result.fail("Solver failed: %v", err)
		default:
			result.Solution = sol
		}
	}
	if !result.Valid {
		return result
	}

	info, err := config.Describe(level)
	if err != nil {
		result.fail("%v", err)
		return result
	}
	result.Info = append([]string{
		fmt.Sprintf("✓ Name: %s", info.Name),
		fmt.Sprintf("✓ Board: %dx%d", info.Width, info.Height),
		fmt.Sprintf("✓ Boxes: %d, Spots: %d", info.Boxes, info.Spots),
	}, result.Info...)
	if result.Solution != nil {
		result.Info = append(result.Info, fmt.Sprintf("✓ Solvable in %d moves (%d pushes)",
			len(result.Solution.Solution), result.Solution.Pushes))
	}
	return result
}

// checkConnectivity flood fills from the player over every non-wall cell and
// reports boxes and spots outside the reached region
func checkConnectivity(layout *engine.Layout) []string {
	var start engine.Cell
	for y, row := range layout.Tokens {
		for x, tok := range row {
			if tok == engine.TokenPlayer {
				start = engine.Cell{X: x, Y: y}
			}
		}
	}

	passable := func(c engine.Cell) bool {
		tok := layout.Token(c.X, c.Y)
		return tok != engine.TokenVoid && tok != engine.TokenWall
	}

	visited := map[engine.Cell]bool{start: true}
	queue := []engine.Cell{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dir := range engine.Directions {
			next := current.Step(dir)
			if !visited[next] && passable(next) {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var unreachable []string
	for y, row := range layout.Tokens {
		for x, tok := range row {
			c := engine.Cell{X: x, Y: y}
			if visited[c] || tok == engine.TokenVoid || tok == engine.TokenWall || tok == engine.TokenFloor {
				continue
			}
			unreachable = append(unreachable, fmt.Sprintf("Unreachable: %s at (%d,%d)", tok, x, y))
		}
	}
	if len(unreachable) > 0 {
		return append([]string{fmt.Sprintf("Connectivity failure: %d boxes or spots unreachable from the player", len(unreachable))}, unreachable...)
	}
	return nil
}

// Dir validates every *.json file in dir, sorted by name
func Dir(ctx context.Context, dir string, opts Options) ([]Result, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("finding level files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no level files in %s", dir)
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, File(ctx, file, opts))
	}
	return results, nil
}

// Report prints a concise report and returns whether every file was valid
func Report(w io.Writer, results []Result) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All levels are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some levels have errors")
	}
	return allValid
}
