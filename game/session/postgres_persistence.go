package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/wricardo/boxpusher/game/service"
)

// PostgresPersistence implements SessionPersistence on a PostgreSQL table
type PostgresPersistence struct {
	db     *sql.DB
	levels service.ConfigManager
}

// NewPostgresPersistence connects to PostgreSQL and creates the sessions table
func NewPostgresPersistence(dsn string, levels service.ConfigManager) (*PostgresPersistence, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pp := &PostgresPersistence{db: db, levels: levels}
	if err := pp.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return pp, nil
}

func (pp *PostgresPersistence) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		level_id TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		last_accessed_at TIMESTAMP WITH TIME ZONE NOT NULL,
		state JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := pp.db.Exec(schema)
	return err
}

// Close releases the database connection pool
func (pp *PostgresPersistence) Close() error {
	return pp.db.Close()
}

// Save upserts a session row
func (pp *PostgresPersistence) Save(session *service.Session) error {
	data, err := newPersistedSessionData(session)
	if err != nil {
		return err
	}

	stateJSON, err := json.Marshal(data.GameState)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	query := `
	INSERT INTO sessions (id, level_id, created_at, last_accessed_at, state)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id)
	DO UPDATE SET
		level_id = $2, last_accessed_at = $4, state = $5,
		updated_at = NOW()
	`

	_, err = pp.db.Exec(query, key(data.ID), data.LevelID, data.CreatedAt, data.LastAccessedAt, string(stateJSON))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Load reads a session row and rebuilds its engine
func (pp *PostgresPersistence) Load(id string) (*service.Session, error) {
	query := `SELECT id, level_id, created_at, last_accessed_at, state FROM sessions WHERE id = $1`

	var data PersistedSessionData
	var stateJSON []byte
	err := pp.db.QueryRow(query, key(id)).Scan(&data.ID, &data.LevelID, &data.CreatedAt, &data.LastAccessedAt, &stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := json.Unmarshal(stateJSON, &data.GameState); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	return restoreSession(&data, pp.levels)
}

// Delete removes a session row
func (pp *PostgresPersistence) Delete(id string) error {
	res, err := pp.db.Exec(`DELETE FROM sessions WHERE id = $1`, key(id))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// ListAll returns every stored session ID
func (pp *PostgresPersistence) ListAll() ([]string, error) {
	rows, err := pp.db.Query(`SELECT id FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists checks whether a session row exists
func (pp *PostgresPersistence) Exists(id string) bool {
	var exists bool
	err := pp.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1)`, key(id)).Scan(&exists)
	if err != nil {
		log.Printf("Warning: Failed to check session %s: %v", id, err)
		return false
	}
	return exists
}
