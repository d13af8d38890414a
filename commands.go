package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/boxpusher/audio"
	"github.com/wricardo/boxpusher/game/config"
	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/service"
	"github.com/wricardo/boxpusher/game/solver"
	"github.com/wricardo/boxpusher/terminal"
	"github.com/wricardo/boxpusher/validate"
)

// loadLevel resolves ref as a .json path, a level id in the levels directory,
// or the default level when empty
func loadLevel(levelsDir, ref string) (*engine.LevelConfig, error) {
	if strings.HasSuffix(ref, ".json") {
		if _, err := os.Stat(ref); err == nil {
			return engine.LoadLevel(ref)
		}
	}

	levels, err := config.NewManager(levelsDir)
	if err != nil {
		if ref == "" {
			return engine.DefaultLevel(), nil
		}
		return nil, err
	}
	if ref == "" {
		_, level := levels.GetDefault()
		return level, nil
	}
	return levels.LoadLevel(ref)
}

// startAudio opens the sound player and falls back to silence when the
// speaker is unavailable
func startAudio(muted bool, open func(bool) (audio.Player, error)) audio.Player {
	player, err := open(muted)
	if err != nil {
		log.Printf("Warning: sound disabled: %v", err)
		return audio.Silent{}
	}
	return player
}

func maxStatesFlag() cli.Flag {
	return &cli.IntFlag{Name: "max-states", Value: solver.DefaultMaxStates, Usage: "arrangements the solver may explore"}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Play a level in the terminal",
		ArgsUsage: "[level id or file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "mute", Usage: "Disable sound", Sources: cli.EnvVars("MUTE")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level, err := loadLevel(cmd.String("levels"), cmd.Args().First())
			if err != nil {
				return err
			}

			player := startAudio(cmd.Bool("mute"), audio.New)
			defer player.Close()

			eng, err := engine.NewEngine(level, engine.WithFeedback(player))
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to init screen: %w", err)
			}

			result, err := terminal.NewHost(screen, eng).Run(ctx)
			screen.Fini()
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			out := cmd.Root().Writer
			switch {
			case result.Won:
				fmt.Fprintf(out, "%s solved in %d moves (%d pushes)\n", level.Name, result.Moves, result.Pushes)
			default:
				fmt.Fprintf(out, "%s left after %d moves (%d pushes)\n", level.Name, result.Moves, result.Pushes)
			}
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check every level file for rule, connectivity, and solvability errors",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			maxStatesFlag(),
			&cli.BoolFlag{Name: "skip-solve", Usage: "Skip the solvability check"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = cmd.String("levels")
			}

			results, err := validate.Dir(ctx, dir, validate.Options{
				MaxStates: int(cmd.Int("max-states")),
				SkipSolve: cmd.Bool("skip-solve"),
			})
			if err != nil {
				return err
			}
			if !validate.Report(cmd.Root().Writer, results) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func solveCommand() *cli.Command {
	return &cli.Command{
		Name:      "solve",
		Usage:     "Print the shortest solution of a level",
		ArgsUsage: "[level id or file]",
		Flags: []cli.Flag{
			maxStatesFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level, err := loadLevel(cmd.String("levels"), cmd.Args().First())
			if err != nil {
				return err
			}

			result, err := solver.SolveLevel(ctx, level, solver.Options{MaxStates: int(cmd.Int("max-states"))})
			if err != nil {
				return fmt.Errorf("%s: %w", level.Name, err)
			}

			out := cmd.Root().Writer
			if cmd.Bool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			moves := make([]string, len(result.Solution))
			for i, dir := range result.Solution {
				moves[i] = string(dir)
			}
			fmt.Fprintf(out, "%s: %d moves, %d pushes (%d positions explored)\n",
				level.Name, len(result.Solution), result.Pushes, result.Explored)
			fmt.Fprintln(out, strings.Join(moves, ","))
			return nil
		},
	}
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of a level file",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := json.MarshalIndent(service.LevelSchema(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, string(data))
			return nil
		},
	}
}
