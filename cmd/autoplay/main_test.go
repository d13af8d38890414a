package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/boxpusher/api"
	"github.com/wricardo/boxpusher/game/config"
	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/service"
	"github.com/wricardo/boxpusher/game/session"
	"github.com/wricardo/boxpusher/transport/websocket"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	levels, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create level manager: %v", err)
	}

	corridor := &engine.LevelConfig{
		Name:        "corridor",
		Description: "Three pushes to the spot",
		Layout: []string{
			"W W W W W W",
			"W P . . . W",
			"W . BB . . W",
			"W . . . BS W",
			"W W W W W W",
		},
	}
	cornered := &engine.LevelConfig{
		Name:        "cornered",
		Description: "The box starts in a corner",
		Layout:      []string{"W W W W W W", "W BB . P . W", "W . . . BS W", "W W W W W W"},
	}
	for id, level := range map[string]*engine.LevelConfig{"corridor": corridor, "cornered": cornered} {
		if err := levels.SaveLevel(id, level); err != nil {
			t.Fatalf("Failed to save %s: %v", id, err)
		}
	}

	svc := service.NewGameService(session.NewManager(), levels)
	ts := httptest.NewServer(api.NewServer(svc, websocket.NewHub()))
	t.Cleanup(ts.Close)
	return ts
}

func newSession(t *testing.T, ts *httptest.Server, level string) *Client {
	t.Helper()
	c := NewClient(ts.URL + "/")
	if _, err := c.CreateSession(context.Background(), level); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return c
}

func TestPlay_Strategies(t *testing.T) {
	ts := newTestServer(t)

	for _, strategy := range []string{StrategyHint, StrategySolve} {
		t.Run(strategy, func(t *testing.T) {
			c := newSession(t, ts, "corridor")

			outcome, err := Play(context.Background(), c, Options{Strategy: strategy})
			if err != nil {
				t.Fatalf("Play failed: %v", err)
			}
			if !outcome.Won || outcome.Moves != 6 || outcome.Pushes != 3 {
				t.Errorf("Expected a 6-move, 3-push win, got %+v", outcome)
			}

			state, err := c.GetState(context.Background())
			if err != nil {
				t.Fatalf("GetState failed: %v", err)
			}
			if !state.Won || state.BoxesOnTarget != 1 {
				t.Errorf("Expected server to report the win, got %+v", state)
			}
		})
	}
}

func TestPlay_Unsolvable(t *testing.T) {
	ts := newTestServer(t)

	for _, strategy := range []string{StrategyHint, StrategySolve} {
		t.Run(strategy, func(t *testing.T) {
			c := newSession(t, ts, "cornered")

			outcome, err := Play(context.Background(), c, Options{Strategy: strategy})
			if !errors.Is(err, ErrStuck) {
				t.Fatalf("Expected ErrStuck, got %v", err)
			}
			if outcome.Won || outcome.Moves != 0 {
				t.Errorf("Expected no progress, got %+v", outcome)
			}
		})
	}
}

func TestPlay_MaxMoves(t *testing.T) {
	ts := newTestServer(t)

	c := newSession(t, ts, "corridor")
	outcome, err := Play(context.Background(), c, Options{Strategy: StrategyHint, MaxMoves: 2})
	if err == nil || !strings.Contains(err.Error(), "gave up after 2 moves") {
		t.Fatalf("Expected move limit error, got %v", err)
	}
	if outcome.Moves != 2 {
		t.Errorf("Expected 2 moves, got %d", outcome.Moves)
	}

	c = newSession(t, ts, "corridor")
	if _, err := Play(context.Background(), c, Options{Strategy: StrategySolve, MaxMoves: 5}); err == nil {
		t.Error("Expected the solution to exceed the move limit")
	}
}

func TestPlay_UnknownStrategy(t *testing.T) {
	if _, err := Play(context.Background(), NewClient("http://127.0.0.1:0"), Options{Strategy: "random"}); err == nil {
		t.Error("Expected unknown strategy error")
	}
}

func TestClient_Errors(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	c := NewClient(ts.URL)
	if _, err := c.CreateSession(ctx, "missing"); err == nil {
		t.Error("Expected error for a missing level")
	}
	if _, err := c.Resume(ctx, "no-such-session"); err == nil {
		t.Error("Expected error for a missing session")
	}

	c = newSession(t, ts, "corridor")
	result, err := c.Move(ctx, engine.Up)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if result.Success {
		t.Error("Moving into the wall should fail")
	}

	if _, err := c.Move(ctx, engine.Down); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	state, err := c.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.Player != (engine.Cell{X: 1, Y: 1}) {
		t.Errorf("Expected player back at (1,1), got %v", state.Player)
	}
}

func TestOpenSession(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	sessionFile := filepath.Join(t.TempDir(), ".session")

	// Stale remembered session: a new one is created and remembered
	os.WriteFile(sessionFile, []byte("expired\n"), 0644)
	c := NewClient(ts.URL)
	if err := openSession(ctx, c, "", sessionFile, "corridor"); err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	first := c.SessionID()
	if first == "" || first == "expired" {
		t.Fatalf("Expected a new session, got %q", first)
	}
	data, _ := os.ReadFile(sessionFile)
	if string(data) != first {
		t.Errorf("Expected session file to hold %q, got %q", first, data)
	}

	// Remembered session is resumed
	c = NewClient(ts.URL)
	if err := openSession(ctx, c, "", sessionFile, "corridor"); err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	if c.SessionID() != first {
		t.Errorf("Expected to resume %q, got %q", first, c.SessionID())
	}

	// An explicit session wins over the file
	other := newSession(t, ts, "corridor")
	c = NewClient(ts.URL)
	if err := openSession(ctx, c, other.SessionID(), sessionFile, ""); err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	if c.SessionID() != other.SessionID() {
		t.Errorf("Expected %q, got %q", other.SessionID(), c.SessionID())
	}
}
