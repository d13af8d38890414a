package service

import (
	"context"
	"errors"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/wricardo/boxpusher/game/engine"
)

var (
	// ErrSessionNotFound is returned for an unknown session ID
	ErrSessionNotFound = errors.New("session not found")
	// ErrLevelNotFound is returned for an unknown level name
	ErrLevelNotFound = errors.New("level not found")
	// ErrInvalidLevel is returned for a level that fails validation
	ErrInvalidLevel = errors.New("invalid level")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	Hint(ctx context.Context, sessionID string) (*HintResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelID string) (*engine.LevelConfig, error)
	SaveLevel(ctx context.Context, levelID string, level *engine.LevelConfig) error
	LevelSchema(ctx context.Context) (*jsonschema.Schema, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, levelID string, level *engine.LevelConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, levelID string, level *engine.LevelConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles level loading
type ConfigManager interface {
	LoadLevel(name string) (*engine.LevelConfig, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() (string, *engine.LevelConfig)
	SaveLevel(name string, level *engine.LevelConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	LevelID        string
	Engine         *engine.GameEngine
	Level          *engine.LevelConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
