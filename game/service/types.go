package service

import (
	"time"

	"github.com/wricardo/boxpusher/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	LevelID        string              `json:"level_id"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	Level          *engine.LevelConfig `json:"level"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success     bool              `json:"success"`
	GameState   *engine.GameState `json:"game_state"`
	Message     string            `json:"message"`
	Events      []GameEvent       `json:"events,omitempty"`
	Sounds      []string          `json:"sounds,omitempty"`
	Step        *StepInfo         `json:"step,omitempty"`
	AttemptedTo *AttemptInfo      `json:"attempted_to,omitempty"`
}

// Stop reason codes reported by BulkMove
const (
	StopBlockedWall     = "blocked_wall"
	StopBlockedBoundary = "blocked_boundary"
	StopWon             = "won"
	StopInvalidMove     = "invalid_direction"
)

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	Sounds         []string          `json:"sounds,omitempty"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked_wall|blocked_boundary|invalid_direction|won
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos    engine.Cell `json:"start_pos"`
	EndPos      engine.Cell `json:"end_pos"`
	PushesDelta int         `json:"pushes_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Failure diagnostics
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	// Final status aids
	Won           bool               `json:"won"`
	BoxesOnTarget int                `json:"boxes_on_target"`
	TotalTargets  int                `json:"total_targets"`
	Message       string             `json:"message,omitempty"`
	PossibleMoves []engine.Direction `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx     int              `json:"idx"`
	Dir     engine.Direction `json:"dir"`
	From    engine.Cell      `json:"from"`
	To      engine.Cell      `json:"to"`
	Pushed  int              `json:"pushed"`
	Success bool             `json:"success"`
	Placed  bool             `json:"placed,omitempty"`
	Won     bool             `json:"won,omitempty"`
}

// AttemptInfo details the cell a blocked move tried to enter
type AttemptInfo struct {
	X        int          `json:"x"`
	Y        int          `json:"y"`
	Kind     string       `json:"kind"` // floor|box|wall|void|boundary
	Obstacle *engine.Cell `json:"obstacle,omitempty"`
}

// Game event types
const (
	EventReset     = "reset"
	EventMove      = "move"
	EventPush      = "push"
	EventObstacle  = "obstacle"
	EventBoxPlaced = "box_placed"
	EventWon       = "won"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Tick      uint64       `json:"tick,omitempty"`
	Position  *engine.Cell `json:"position,omitempty"`
	Correct   *bool        `json:"correct,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// LevelInfo provides information about a level file
type LevelInfo struct {
	Filename    string `json:"filename"`
	LevelID     string `json:"level_id"` // The identifier to use for session creation
	Name        string `json:"name"`     // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Boxes       int    `json:"boxes"`
	Spots       int    `json:"spots"`
}

// HintResult suggests the next move toward a win
type HintResult struct {
	Direction      engine.Direction   `json:"direction,omitempty"`
	Solvable       bool               `json:"solvable"`
	RemainingMoves int                `json:"remaining_moves"`
	Solution       []engine.Direction `json:"solution,omitempty"`
	Explored       int                `json:"explored"`
	Message        string             `json:"message"`
}

// CellInfo lists what stands on one cell of a session's board
type CellInfo struct {
	X        int                  `json:"x"`
	Y        int                  `json:"y"`
	InBounds bool                 `json:"in_bounds"`
	Glyph    string               `json:"glyph,omitempty"`
	Entities []engine.EntityState `json:"entities"`
}
