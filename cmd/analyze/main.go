// Command analyze prints quick, human-readable heuristics about the level
// files in a directory (configs by default). It summarizes dimensions, box
// and spot counts per color, dead corners a box can never leave, a push
// lower bound from Manhattan distance, and the solver's optimum.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/wricardo/boxpusher/game/config"
	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/solver"
)

// Analysis is the summary of a single level
type Analysis struct {
	Name        string
	Width       int
	Height      int
	Boxes       map[engine.Color]int
	Spots       map[engine.Color]int
	DeadCorners []engine.Cell
	PushBound   int
	Solution    *solver.Result
	SolveErr    error
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	levels, err := config.NewManager(dir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	infos, err := levels.ListLevels()
	if err != nil {
		fmt.Printf("Error listing levels: %v\n", err)
		os.Exit(1)
	}

	for _, info := range infos {
		fmt.Printf("\n=== Analyzing %s ===\n", info.LevelID)
		level, err := levels.LoadLevel(info.LevelID)
		if err != nil {
			fmt.Printf("Error loading level: %v\n", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		a, err := analyzeLevel(ctx, level, solver.Options{})
		cancel()
		if err != nil {
			fmt.Printf("Error analyzing level: %v\n", err)
			continue
		}
		a.Print(os.Stdout)
	}
}

func analyzeLevel(ctx context.Context, level *engine.LevelConfig, opts solver.Options) (*Analysis, error) {
	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, err
	}
	state := eng.GetState()

	a := &Analysis{
		Name:   level.Name,
		Width:  state.Width,
		Height: state.Height,
		Boxes:  map[engine.Color]int{},
		Spots:  map[engine.Color]int{},
	}

	walls := map[engine.Cell]bool{}
	open := map[engine.Cell]bool{}
	spots := map[engine.Cell]bool{}
	var boxCells []engine.EntityState
	spotsByColor := map[engine.Color][]engine.Cell{}

	for _, e := range state.Entities {
		c := engine.Cell{X: e.X, Y: e.Y}
		switch e.Kind {
		case engine.KindWall:
			walls[c] = true
		case engine.KindFloor:
			open[c] = true
		case engine.KindBox:
			a.Boxes[e.Color]++
			boxCells = append(boxCells, e)
		case engine.KindSpot:
			a.Spots[e.Color]++
			spots[c] = true
			spotsByColor[e.Color] = append(spotsByColor[e.Color], c)
		}
	}

	solid := func(c engine.Cell) bool {
		return walls[c] || !open[c]
	}
	for c := range open {
		if walls[c] || spots[c] {
			continue
		}
		vertical := solid(c.Step(engine.Up)) || solid(c.Step(engine.Down))
		horizontal := solid(c.Step(engine.Left)) || solid(c.Step(engine.Right))
		if vertical && horizontal {
			a.DeadCorners = append(a.DeadCorners, c)
		}
	}
	sort.Slice(a.DeadCorners, func(i, j int) bool {
		if a.DeadCorners[i].Y != a.DeadCorners[j].Y {
			return a.DeadCorners[i].Y < a.DeadCorners[j].Y
		}
		return a.DeadCorners[i].X < a.DeadCorners[j].X
	})

	for _, box := range boxCells {
		best := -1
		for _, s := range spotsByColor[box.Color] {
			if d := abs(box.X-s.X) + abs(box.Y-s.Y); best < 0 || d < best {
				best = d
			}
		}
		if best > 0 {
			a.PushBound += best
		}
	}

	a.Solution, a.SolveErr = solver.SolveLevel(ctx, level, opts)
	return a, nil
}

// Print writes the analysis in the command's report format
func (a *Analysis) Print(w io.Writer) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", a.Width, a.Height)

	for _, color := range sortedColors(a.Boxes, a.Spots) {
		fmt.Fprintf(w, "%s: %d boxes, %d spots\n", color, a.Boxes[color], a.Spots[color])
		if a.Boxes[color] < a.Spots[color] {
			fmt.Fprintf(w, "⚠️  WARNING: not enough %s boxes to fill every %s spot\n", color, color)
		}
	}

	if len(a.DeadCorners) > 0 {
		fmt.Fprintf(w, "Dead corners: %d\n", len(a.DeadCorners))
		for i, c := range a.DeadCorners {
			if i < 5 { // Show first 5 corners
				fmt.Fprintf(w, "   Dead corner: (%d, %d)\n", c.X, c.Y)
			}
		}
		if len(a.DeadCorners) > 5 {
			fmt.Fprintf(w, "   ... and %d more\n", len(a.DeadCorners)-5)
		}
	} else {
		fmt.Fprintln(w, "Dead corners: none")
	}

	fmt.Fprintf(w, "Push lower bound: %d\n", a.PushBound)

	switch {
	case a.SolveErr == nil:
		fmt.Fprintf(w, "✅ Solvable in %d moves (%d pushes, %d positions explored)\n",
			len(a.Solution.Solution), a.Solution.Pushes, a.Solution.Explored)
	case errors.Is(a.SolveErr, solver.ErrNoSolution):
		fmt.Fprintln(w, "⚠️  CRITICAL: level cannot be solved")
	default:
		fmt.Fprintf(w, "⚠️  Solvability unknown: %v\n", a.SolveErr)
	}
}

func sortedColors(maps ...map[engine.Color]int) []engine.Color {
	seen := map[engine.Color]bool{}
	var colors []engine.Color
	for _, m := range maps {
		for c := range m {
			if !seen[c] {
				seen[c] = true
				colors = append(colors, c)
			}
		}
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i] < colors[j] })
	return colors
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
