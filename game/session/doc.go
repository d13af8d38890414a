// Package session provides session management for the box pushing game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Optional persistence to JSON files or PostgreSQL
//
// Core Types:
//
// Manager is the main session manager. Each session owns its own
// GameEngine together with the level it was started on and the ID of that
// level, so a persisted session can be rebuilt after a restart.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs when the caller does not choose one. IDs
// are case-insensitive.
//
// Persistence:
//
// FilePersistence writes one JSON file per session. PostgresPersistence
// keeps the same data in a sessions table with the game state as JSONB.
// Both reload the level by ID through the level manager and restore the
// snapshot with GameEngine.SetState.
//
// Usage:
//
//	levels, _ := config.NewManager("configs")
//	store, _ := session.NewFilePersistence("sessions", levels)
//	manager := session.NewManagerWithPersistence(store)
//
//	id, level := levels.GetDefault()
//	sess, err := manager.Create("", id, level)
//	if err != nil {
//		log.Fatal(err)
//	}
package session
