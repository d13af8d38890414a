// Command autoplay plays a box pushing session against a running server,
// either following the server's hints one move at a time or solving the
// board locally and sending the solution as bulk moves.
package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/boxpusher/game/solver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "Win a session on a running box pusher server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL", Sources: cli.EnvVars("BOXPUSHER_URL")},
			&cli.StringFlag{Name: "level", Usage: "Level to play (server default when empty)"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.StringFlag{Name: "session-file", Value: ".session", Usage: "File remembering the last session ID"},
			&cli.StringFlag{Name: "strategy", Value: StrategyHint, Usage: "hint (server hints) or solve (local solver)"},
			&cli.IntFlag{Name: "max-moves", Value: 3000, Usage: "Maximum moves before giving up"},
			&cli.IntFlag{Name: "max-states", Value: solver.DefaultMaxStates, Usage: "arrangements the local solver may explore"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between hinted moves"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	serverURL := cmd.String("url")
	log.Printf("Connecting to game server at %s", serverURL)
	client := NewClient(serverURL)

	if err := openSession(ctx, client, cmd.String("continue"), cmd.String("session-file"), cmd.String("level")); err != nil {
		return err
	}

	// Every run starts from the level's initial layout
	state, err := client.Reset(ctx)
	if err != nil {
		return err
	}
	log.Printf("Game reset - %s, position (%d,%d), boxes placed %d/%d",
		state.Level, state.Player.X, state.Player.Y, state.BoxesOnTarget, state.TotalTargets)

	outcome, err := Play(ctx, client, Options{
		Strategy:  cmd.String("strategy"),
		MaxMoves:  int(cmd.Int("max-moves")),
		MaxStates: int(cmd.Int("max-states")),
		Delay:     cmd.Duration("delay"),
		Verbose:   cmd.Bool("v"),
	})
	if err != nil {
		log.Printf("❌ Failed to win: %v", err)
		log.Printf("Session: %s", client.SessionID())
		return cli.Exit("", 1)
	}

	log.Printf("🎉 VICTORY! Level won with %d moves and %d pushes", outcome.Moves, outcome.Pushes)
	log.Printf("Session: %s", client.SessionID())
	return nil
}

// openSession resumes the explicit or remembered session, creating a new one
// when neither is usable
func openSession(ctx context.Context, client *Client, explicit, sessionFile, level string) error {
	sessionID := explicit
	if sessionID == "" && sessionFile != "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			sessionID = string(bytes.TrimSpace(data))
		}
	}

	if sessionID != "" {
		log.Printf("🔄 Resuming session: %s", sessionID)
		_, err := client.Resume(ctx, sessionID)
		if err == nil {
			return nil
		}
		log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
	}

	if _, err := client.CreateSession(ctx, level); err != nil {
		return err
	}
	log.Printf("✨ Session created: %s", client.SessionID())

	if sessionFile != "" {
		if err := os.WriteFile(sessionFile, []byte(client.SessionID()), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}
	return nil
}

// pause waits d or until ctx is done
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
