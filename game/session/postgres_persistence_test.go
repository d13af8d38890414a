package session

import (
	"errors"
	"os"
	"testing"

	"github.com/wricardo/boxpusher/game/engine"
)

// Runs only against a live database, e.g.
// BOXPUSHER_TEST_POSTGRES_DSN="postgres://localhost/boxpusher_test?sslmode=disable"
func TestPostgresPersistence(t *testing.T) {
	dsn := os.Getenv("BOXPUSHER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BOXPUSHER_TEST_POSTGRES_DSN not set")
	}

	persistence, err := NewPostgresPersistence(dsn, newLevelManager(t))
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer persistence.Close()

	session := newTestSession(t, "PgTest")
	defer persistence.Delete(session.ID)

	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
	if !persistence.Exists("pgtest") {
		t.Error("Expected session to exist under its lower-case ID")
	}

	session.Engine.Move(engine.Right)
	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to upsert session: %v", err)
	}

	loaded, err := persistence.Load("PgTest")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if loaded.Engine.GetPlayerPosition() != session.Engine.GetPlayerPosition() {
		t.Errorf("Expected player at %v, got %v", session.Engine.GetPlayerPosition(), loaded.Engine.GetPlayerPosition())
	}

	ids, err := persistence.ListAll()
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	found := false
	for _, id := range ids {
		found = found || id == "pgtest"
	}
	if !found {
		t.Errorf("Expected pgtest in %v", ids)
	}

	if err := persistence.Delete("pgtest"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := persistence.Load("pgtest"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}
