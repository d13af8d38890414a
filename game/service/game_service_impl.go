package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"

	"github.com/wricardo/boxpusher/game/ecs"
	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/solver"
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithDebugLogging logs every resolved tick
func WithDebugLogging(enabled bool) Option {
	return func(s *gameServiceImpl) {
		s.debug = enabled
	}
}

// WithHintBudget bounds the number of arrangements a hint may explore
func WithHintBudget(maxStates int) Option {
	return func(s *gameServiceImpl) {
		s.hintBudget = maxStates
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions   SessionManager
	configs    ConfigManager
	mu         sync.RWMutex
	debug      bool
	hintBudget int
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions:   sessions,
		configs:    configs,
		hintBudget: solver.DefaultMaxStates,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newSessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelID:        sess.LevelID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		Level:          sess.Level,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var level *engine.LevelConfig
	var err error
	if levelID != "" {
		level, err = s.configs.LoadLevel(levelID)
		if err != nil {
			if errors.Is(err, ErrLevelNotFound) {
				// Provide helpful error message with available options
				available, listErr := s.configs.ListLevels()
				if listErr == nil && len(available) > 0 {
					ids := make([]string, 0, len(available))
					for _, info := range available {
						ids = append(ids, info.LevelID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available levels: %v", ErrLevelNotFound, levelID, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/levels to list available levels", ErrLevelNotFound, levelID)
			}
			return nil, fmt.Errorf("failed to load level %s: %w", levelID, err)
		}
	} else {
		levelID, level = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", levelID, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return newSessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.touch(sessionID)

	return newSessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, newSessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.touch(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	report := sess.Engine.Move(dir)
	state := sess.Engine.GetState()
	s.logTick(sessionID, report)

	result := &MoveResult{
		Success:   report.Moved(),
		GameState: state,
		Message:   state.Message,
		Events:    append(events, translateEvents(report, state)...),
		Sounds:    report.Sounds,
	}

	if report.Moved() {
		step := newStep(1, report)
		result.Step = &step
	} else if report.Outcome != nil {
		result.AttemptedTo = attemptFor(sess.Engine, state, report.Outcome)
	}

	// Auto-save session after move
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after move: %v", sessionID, err)
	}

	return result, nil
}

// BulkMove executes multiple moves in sequence, stopping at the first move
// that changes nothing or once the level is won
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.touch(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	start := sess.Engine.GetState()
	result.StartPos = start.Player

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, raw := range moves {
		if sess.Engine.IsTerminated() {
			result.StopReasonCode = StopWon
			result.StoppedReason = "level already won"
			result.StoppedOnMove = i + 1
			break
		}

		dir, err := engine.ParseDirection(raw)
		if err != nil {
			result.Success = false
			result.StopReasonCode = StopInvalidMove
			result.StoppedReason = fmt.Sprintf("move %d: %v", i+1, err)
			result.StoppedOnMove = i + 1
			break
		}

		report := sess.Engine.Move(dir)
		state := sess.Engine.GetState()
		s.logTick(sessionID, report)

		result.Events = append(result.Events, translateEvents(report, state)...)
		result.Sounds = append(result.Sounds, report.Sounds...)

		if !report.Moved() {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, dir)
			result.StoppedOnMove = i + 1
			if report.Outcome != nil && report.Outcome.Boundary {
				result.StopReasonCode = StopBlockedBoundary
			} else {
				result.StopReasonCode = StopBlockedWall
			}
			if report.Outcome != nil {
				result.AttemptedTo = attemptFor(sess.Engine, state, report.Outcome)
			}
			break
		}

		result.MovesExecuted++
		result.Steps = append(result.Steps, newStep(i+1, report))
	}

	end := sess.Engine.GetState()
	result.GameState = end
	result.EndPos = end.Player
	result.PushesDelta = end.Stats.Pushes - start.Stats.Pushes
	result.Won = end.Won
	result.BoxesOnTarget = end.BoxesOnTarget
	result.TotalTargets = end.TotalTargets
	result.Message = end.Message
	if result.Won && result.StopReasonCode == "" {
		result.StopReasonCode = StopWon
	}
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	// Auto-save session after bulk moves
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after bulk moves: %v", sessionID, err)
	}

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.touch(sessionID)

	state := sess.Engine.Reset()

	// Auto-save session after reset
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after reset: %v", sessionID, err)
	}

	return state, nil
}

// Hint searches for the shortest win from the session's current position
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	s.touch(sessionID)
	state := sess.Engine.GetState()
	s.mu.RUnlock()

	if state.Won {
		return &HintResult{Solvable: true, Message: "Level already won."}, nil
	}

	puzzle, err := solver.FromState(state)
	if err != nil {
		return nil, fmt.Errorf("hint for session %s: %w", sessionID, err)
	}

	res, err := solver.Solve(ctx, puzzle, solver.Options{MaxStates: s.hintBudget})
	if errors.Is(err, solver.ErrNoSolution) {
		return &HintResult{
			Solvable: false,
			Message:  "No solution from this position. Reset the level to try again.",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hint for session %s: %w", sessionID, err)
	}

	return &HintResult{
		Direction:      res.First(),
		Solvable:       true,
		RemainingMoves: len(res.Solution),
		Solution:       res.Solution,
		Explored:       res.Explored,
		Message:        fmt.Sprintf("Move %s. %d moves to win.", res.First(), len(res.Solution)),
	}, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.touch(sessionID)

	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	return paginate(sess.Engine.GetMoveHistory(), opts), nil
}

func paginate(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := min((opts.Page-1)*opts.Limit, total)
	end := min(start+opts.Limit, total)

	moves := make([]engine.MoveHistoryEntry, 0, end-start)
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// DescribeCell lists the entities on one cell of the session's board
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	info := &CellInfo{
		X:        x,
		Y:        y,
		InBounds: x >= 0 && y >= 0 && x < state.Width && y < state.Height,
		Entities: sess.Engine.DescribeCell(engine.Cell{X: x, Y: y}),
	}
	if info.InBounds && y < len(state.Board) && x < len(state.Board[y]) {
		info.Glyph = string(state.Board[y][x])
	}
	if info.Entities == nil {
		info.Entities = []engine.EntityState{}
	}
	return info, nil
}

// ListLevels returns the available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.configs.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelID string) (*engine.LevelConfig, error) {
	return s.configs.LoadLevel(levelID)
}

// SaveLevel validates a level and writes it to the levels directory
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelID string, level *engine.LevelConfig) error {
	if err := engine.ValidateLevel(level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return s.configs.SaveLevel(levelID, level)
}

// LevelSchema describes the level file format as JSON schema
func (s *gameServiceImpl) LevelSchema(ctx context.Context) (*jsonschema.Schema, error) {
	return LevelSchema(), nil
}

// LevelSchema reflects the JSON schema of a level file
func LevelSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(&engine.LevelConfig{})
	schema.Title = "Level"
	schema.Description = "A box pushing level: every spot must end up holding a box of its color."
	return schema
}

func (s *gameServiceImpl) touch(sessionID string) {
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		log.Printf("Warning: Failed to update last access for session %s: %v", sessionID, err)
	}
}

func (s *gameServiceImpl) logTick(sessionID string, report *engine.TickReport) {
	if !s.debug {
		return
	}
	log.Printf("[TICK] session=%s tick=%d input=%v moved=%t events=%v sounds=%v phase=%s",
		sessionID, report.Tick, inputName(report.Input), report.Moved(), report.Events, report.Sounds, report.Gameplay.PhaseString())
}

func inputName(dir *engine.Direction) string {
	if dir == nil {
		return "none"
	}
	return string(*dir)
}

func resetEvent() GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		Type:      EventReset,
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

// translateEvents turns the events dispatched during one tick into
// client-facing game events, resolving entity positions from state
func translateEvents(report *engine.TickReport, state *engine.GameState) []GameEvent {
	byID := make(map[ecs.Entity]engine.EntityState, len(state.Entities))
	for _, es := range state.Entities {
		byID[es.ID] = es
	}

	now := time.Now()
	events := make([]GameEvent, 0, len(report.Events))
	for _, ev := range report.Events {
		ge := GameEvent{
			ID:        uuid.NewString(),
			Timestamp: now,
			Tick:      report.Tick,
		}
		switch ev.Kind {
		case engine.EventEntityMoved:
			es, ok := byID[ev.Entity]
			if !ok {
				continue
			}
			cell := engine.Cell{X: es.X, Y: es.Y}
			ge.Position = &cell
			if es.Kind == engine.KindBox {
				ge.Type = EventPush
				ge.Message = fmt.Sprintf("Pushed %s box to %s", es.Color, cell)
			} else {
				ge.Type = EventMove
				ge.Message = fmt.Sprintf("Moved %s to %s", inputName(report.Input), cell)
			}
		case engine.EventPlayerHitObstacle:
			ge.Type = EventObstacle
			ge.Message = fmt.Sprintf("Blocked moving %s", inputName(report.Input))
		case engine.EventBoxPlacedOnSpot:
			correct := ev.Correct
			ge.Type = EventBoxPlaced
			ge.Correct = &correct
			if correct {
				ge.Message = "Box placed on a spot of its color"
			} else {
				ge.Message = "Box placed on a spot of another color"
			}
		case engine.EventGameOver:
			ge.Type = EventWon
			ge.Message = "Every spot holds a box of its color"
		default:
			continue
		}
		events = append(events, ge)
	}
	return events
}

func newStep(idx int, report *engine.TickReport) StepInfo {
	out := report.Outcome
	step := StepInfo{
		Idx:     idx,
		Dir:     out.Direction,
		From:    out.From,
		To:      out.To,
		Pushed:  out.Pushed(),
		Success: out.Moved(),
		Won:     report.Gameplay.Phase == engine.Won,
	}
	for _, ev := range report.Events {
		if ev.Kind == engine.EventBoxPlacedOnSpot && ev.Correct {
			step.Placed = true
		}
	}
	return step
}

// attemptFor describes the cell a move that changed nothing tried to enter
func attemptFor(eng *engine.GameEngine, state *engine.GameState, out *engine.MoveOutcome) *AttemptInfo {
	target := out.From.Step(out.Direction)
	info := &AttemptInfo{X: target.X, Y: target.Y}

	if target.X < 0 || target.Y < 0 || target.X >= state.Width || target.Y >= state.Height {
		info.Kind = "boundary"
		return info
	}

	info.Kind = "void"
	for _, es := range eng.DescribeCell(target) {
		// Highest layer wins; entities come lowest first
		info.Kind = string(es.Kind)
	}
	if out.Blocked {
		for _, es := range state.Entities {
			if es.ID == out.Obstacle {
				c := engine.Cell{X: es.X, Y: es.Y}
				info.Obstacle = &c
				break
			}
		}
	}
	return info
}
