package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, levelID string, level *engine.LevelConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		LevelID:        levelID,
		Engine:         eng,
		Level:          level,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, id)
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id, levelID string, level *engine.LevelConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, levelID, level)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return fmt.Errorf("%w: %s", service.ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	levels map[string]*engine.LevelConfig
}

func corridorLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "corridor",
		Description: "One box, one spot",
		Layout: []string{
			"W W W W W W",
			"W P . . . W",
			"W . BB . . W",
			"W . . . BS W",
			"W W W W W W",
		},
	}
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		levels: map[string]*engine.LevelConfig{
			"corridor": corridorLevel(),
			"open": {
				Name:        "open",
				Description: "No walls, the grid edge stops the player",
				Layout: []string{
					". . . .",
					"P BB . BS",
					". . . .",
				},
			},
			"stuck": {
				Name:        "stuck",
				Description: "The only box starts in a corner",
				Layout: []string{
					"W W W W W",
					"W BB . P W",
					"W . . BS W",
					"W W W W W",
				},
			},
		},
	}
}

func (m *MockConfigManager) LoadLevel(name string) (*engine.LevelConfig, error) {
	level, exists := m.levels[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", service.ErrLevelNotFound, name)
	}
	return level, nil
}

func (m *MockConfigManager) ListLevels() ([]*service.LevelInfo, error) {
	result := make([]*service.LevelInfo, 0, len(m.levels))
	for name, level := range m.levels {
		result = append(result, &service.LevelInfo{
			Filename:    name + ".json",
			LevelID:     name,
			Name:        level.Name,
			Description: level.Description,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() (string, *engine.LevelConfig) {
	return "corridor", m.levels["corridor"]
}

func (m *MockConfigManager) SaveLevel(name string, level *engine.LevelConfig) error {
	m.levels[name] = level
	return nil
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager, *MockConfigManager) {
	t.Helper()
	sessions := NewMockSessionManager()
	configs := NewMockConfigManager()
	return service.NewGameService(sessions, configs), sessions, configs
}

func newSession(t *testing.T, svc service.GameService, levelID string) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), levelID)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return info.ID
}

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	tests := []struct {
		name      string
		levelID   string
		wantLevel string
		wantErr   error
	}{
		{
			name:      "create with default level",
			levelID:   "",
			wantLevel: "corridor",
		},
		{
			name:      "create with specific level",
			levelID:   "open",
			wantLevel: "open",
		},
		{
			name:    "create with unknown level",
			levelID: "nonexistent",
			wantErr: service.ErrLevelNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.levelID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateSession() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() unexpected error: %v", err)
			}
			if session.LevelID != tt.wantLevel {
				t.Errorf("Expected level ID %q, got %q", tt.wantLevel, session.LevelID)
			}
			if session.GameState == nil || session.GameState.Level != tt.wantLevel {
				t.Errorf("Expected game state for level %q, got %+v", tt.wantLevel, session.GameState)
			}
		})
	}
}

func TestGameService_CreateSessionListsAvailableLevels(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateSession(context.Background(), "missing")
	if err == nil {
		t.Fatal("Expected error for unknown level")
	}
	if !strings.Contains(err.Error(), "Available levels") {
		t.Errorf("Expected available levels in error, got %q", err.Error())
	}
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService(t)
	id := newSession(t, svc, "corridor")

	res, err := svc.Move(ctx, id, "down", false)
	if err != nil {
		t.Fatalf("Move down failed: %v", err)
	}
	if !res.Success || res.Step == nil {
		t.Fatalf("Expected success with StepInfo, got success=%v step=%v", res.Success, res.Step)
	}
	if res.Step.From != (engine.Cell{X: 1, Y: 1}) || res.Step.To != (engine.Cell{X: 1, Y: 2}) {
		t.Errorf("Expected step (1,1)->(1,2), got %s->%s", res.Step.From, res.Step.To)
	}
	if len(res.Events) != 1 || res.Events[0].Type != service.EventMove {
		t.Errorf("Expected one move event, got %+v", res.Events)
	}

	// Push the box right
	res, err = svc.Move(ctx, id, "r", false)
	if err != nil {
		t.Fatalf("Move right failed: %v", err)
	}
	if res.Step == nil || res.Step.Pushed != 1 {
		t.Errorf("Expected one box pushed, got %+v", res.Step)
	}
	if len(res.Events) != 2 || res.Events[1].Type != service.EventPush {
		t.Errorf("Expected move then push events, got %+v", res.Events)
	}
	if res.Events[1].Position == nil || *res.Events[1].Position != (engine.Cell{X: 3, Y: 2}) {
		t.Errorf("Expected box at (3,2), got %+v", res.Events[1].Position)
	}
	if res.Events[0].ID == "" || res.Events[0].ID == res.Events[1].ID {
		t.Errorf("Expected distinct event IDs, got %q and %q", res.Events[0].ID, res.Events[1].ID)
	}

	if sessions.saves != 2 {
		t.Errorf("Expected session saved after each move, got %d saves", sessions.saves)
	}
}

func TestGameService_MoveBlocked(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	id := newSession(t, svc, "corridor")

	res, err := svc.Move(ctx, id, "up", false)
	if err != nil {
		t.Fatalf("Move up failed with error: %v", err)
	}
	if res.Success {
		t.Error("Expected failure moving into a wall")
	}
	if res.AttemptedTo == nil || res.AttemptedTo.Kind != "wall" {
		t.Fatalf("Expected AttemptedTo a wall, got %+v", res.AttemptedTo)
	}
	if res.AttemptedTo.Obstacle == nil || *res.AttemptedTo.Obstacle != (engine.Cell{X: 1, Y: 0}) {
		t.Errorf("Expected obstacle at (1,0), got %+v", res.AttemptedTo.Obstacle)
	}
	if len(res.Sounds) != 1 || res.Sounds[0] != engine.SoundWall {
		t.Errorf("Expected wall sound, got %v", res.Sounds)
	}
	if len(res.Events) != 1 || res.Events[0].Type != service.EventObstacle {
		t.Errorf("Expected one obstacle event, got %+v", res.Events)
	}
}

func TestGameService_MoveErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	id := newSession(t, svc, "corridor")

	if _, err := svc.Move(ctx, id, "diagonal", false); !errors.Is(err, engine.ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}
	if _, err := svc.Move(ctx, "nope", "up", false); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_MoveWithReset(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	id := newSession(t, svc, "corridor")

	if _, err := svc.Move(ctx, id, "down", false); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	res, err := svc.Move(ctx, id, "right", true)
	if err != nil {
		t.Fatalf("Move with reset failed: %v", err)
	}
	if res.Events[0].Type != service.EventReset {
		t.Errorf("Expected reset event first, got %+v", res.Events[0])
	}
	if res.GameState.Player != (engine.Cell{X: 2, Y: 1}) {
		t.Errorf("Expected player at (2,1) after reset and right, got %s", res.GameState.Player)
	}
	if res.GameState.Moves != 1 {
		t.Errorf("Expected 1 move since reset, got %d", res.GameState.Moves)
	}
}

func TestGameService_BulkMoveWins(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	id := newSession(t, svc, "corridor")

	result, err := svc.BulkMove(ctx, id, []string{"down", "right", "right", "up", "right", "down"}, false)
	if err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}

	if !result.Won || result.StopReasonCode != service.StopWon {
		t.Errorf("Expected win, got won=%v code=%q", result.Won, result.StopReasonCode)
	}
	if result.MovesExecuted != 6 || len(result.Steps) != 6 {
		t.Errorf("Expected 6 executed moves, got %d (%d steps)", result.MovesExecuted, len(result.Steps))
	}
	if result.PushesDelta != 3 {
		t.Errorf("Expected 3 pushes, got %d", result.PushesDelta)
	}
	if result.BoxesOnTarget != 1 || result.TotalTargets != 1 {
		t.Errorf("Expected 1/1 boxes on target, got %d/%d", result.BoxesOnTarget, result.TotalTargets)
	}
	if last := result.Steps[5]; !last.Placed || !last.Won {
		t.Errorf("Expected last step to place the box and win, got %+v", last)
	}

	seen := map[string]bool{}
	var types []string
	for _, ev := range result.Events {
		if seen[ev.ID] {
			t.Errorf("Duplicate event ID %s", ev.ID)
		}
		seen[ev.ID] = true
		types = append(types, ev.Type)
	}
	tail := strings.Join(types[len(types)-4:], ",")
	if tail != "move,push,won,box_placed" {
		t.Errorf("Expected last events move,push,won,box_placed, got %s", tail)
	}

	foundCorrect := false
	for _, s := range result.Sounds {
		if s == engine.SoundCorrect {
			foundCorrect = true
		}
	}
	if !foundCorrect {
		t.Errorf("Expected correct sound, got %v", result.Sounds)
	}
}

func TestGameService_BulkMoveStops(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		level        string
		moves        []string
		wantCode     string
		wantExecuted int
		wantStopOn   int
		wantSuccess  bool
		wantAttempt  string
	}{
		{
			name:         "blocked by wall",
			level:        "corridor",
			moves:        []string{"down", "left", "right"},
			wantCode:     service.StopBlockedWall,
			wantExecuted: 1,
			wantStopOn:   2,
			wantAttempt:  "wall",
		},
		{
			name:         "blocked by grid edge",
			level:        "open",
			moves:        []string{"left"},
			wantCode:     service.StopBlockedBoundary,
			wantExecuted: 0,
			wantStopOn:   1,
			wantAttempt:  "boundary",
		},
		{
			name:         "stops once won",
			level:        "open",
			moves:        []string{"right", "right", "up"},
			wantCode:     service.StopWon,
			wantExecuted: 2,
			wantStopOn:   3,
			wantSuccess:  true,
		},
		{
			name:         "invalid direction",
			level:        "corridor",
			moves:        []string{"down", "sideways"},
			wantCode:     service.StopInvalidMove,
			wantExecuted: 1,
			wantStopOn:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			id := newSession(t, svc, tt.level)

			result, err := svc.BulkMove(ctx, id, tt.moves, false)
			if err != nil {
				t.Fatalf("BulkMove failed: %v", err)
			}
			if result.StopReasonCode != tt.wantCode {
				t.Errorf("Expected stop code %q, got %q", tt.wantCode, result.StopReasonCode)
			}
			if result.MovesExecuted != tt.wantExecuted {
				t.Errorf("Expected %d executed moves, got %d", tt.wantExecuted, result.MovesExecuted)
			}
			if result.StoppedOnMove != tt.wantStopOn {
				t.Errorf("Expected stop on move %d, got %d", tt.wantStopOn, result.StoppedOnMove)
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("Expected success=%v, got %v", tt.wantSuccess, result.Success)
			}
			if tt.wantAttempt != "" {
				if result.AttemptedTo == nil || result.AttemptedTo.Kind != tt.wantAttempt {
					t.Errorf("Expected attempt kind %q, got %+v", tt.wantAttempt, result.AttemptedTo)
				}
			}
		})
	}
}

func TestGameService_BulkMoveTruncates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	id := newSession(t, svc, "corridor")

	moves := make([]string, 0, 150)
	for i := 0; i < 75; i++ {
		moves = append(moves, "down", "up")
	}

	result, err := svc.BulkMove(ctx, id, moves, false)
	if err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}
	if !result.Truncated || result.Limit != engine.MaxBulkMoves {
		t.Errorf("Expected truncation at %d, got truncated=%v limit=%d", engine.MaxBulkMoves, result.Truncated, result.Limit)
	}
	if result.RequestedMoves != 150 {
		t.Errorf("Expected 150 requested moves, got %d", result.RequestedMoves)
	}
	if result.MovesExecuted != engine.MaxBulkMoves {
		t.Errorf("Expected %d executed moves, got %d", engine.MaxBulkMoves, result.MovesExecuted)
	}
}

func TestGameService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	id := newSession(t, svc, "corridor")

	if _, err := svc.BulkMove(ctx, id, []string{"down", "right"}, false); err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}

	state, err := svc.Reset(ctx, id)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.Moves != 0 || state.Player != (engine.Cell{X: 1, Y: 1}) {
		t.Errorf("Expected fresh level, got moves=%d player=%s", state.Moves, state.Player)
	}
	if state.TotalMoves != 2 || state.CurrentMovesCount != 0 {
		t.Errorf("Expected cumulative history kept, got total=%d current=%d", state.TotalMoves, state.CurrentMovesCount)
	}

	if _, err := svc.Reset(ctx, "nope"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	id := newSession(t, svc, "corridor")

	if _, err := svc.BulkMove(ctx, id, []string{"down", "up", "down", "up", "down"}, false); err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantCount int
		wantFirst int
		wantNext  bool
		wantPrev  bool
		wantPages int
	}{
		{"defaults", service.HistoryOptions{}, 5, 5, false, false, 1},
		{"desc first page", service.HistoryOptions{Page: 1, Limit: 2}, 2, 5, true, false, 3},
		{"desc last page", service.HistoryOptions{Page: 3, Limit: 2}, 1, 1, false, true, 3},
		{"asc first page", service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"}, 2, 1, true, false, 3},
		{"past the end", service.HistoryOptions{Page: 9, Limit: 2}, 0, 0, false, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := svc.GetMoveHistory(ctx, id, tt.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory failed: %v", err)
			}
			if history.TotalMoves != 5 {
				t.Errorf("Expected 5 total moves, got %d", history.TotalMoves)
			}
			if len(history.Moves) != tt.wantCount {
				t.Fatalf("Expected %d moves, got %d", tt.wantCount, len(history.Moves))
			}
			if tt.wantCount > 0 && history.Moves[0].MoveNumber != tt.wantFirst {
				t.Errorf("Expected first move number %d, got %d", tt.wantFirst, history.Moves[0].MoveNumber)
			}
			if history.HasNext != tt.wantNext || history.HasPrevious != tt.wantPrev {
				t.Errorf("Expected next=%v prev=%v, got next=%v prev=%v", tt.wantNext, tt.wantPrev, history.HasNext, history.HasPrevious)
			}
			if history.TotalPages != tt.wantPages {
				t.Errorf("Expected %d pages, got %d", tt.wantPages, history.TotalPages)
			}
		})
	}
}

func TestGameService_Hint(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	id := newSession(t, svc, "corridor")
	hint, err := svc.Hint(ctx, id)
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if !hint.Solvable || hint.Direction != engine.Down || hint.RemainingMoves != 6 {
		t.Errorf("Expected solvable hint down with 6 moves, got %+v", hint)
	}

	// Following the hint wins the level
	if _, err := svc.BulkMove(ctx, id, directionsToStrings(hint.Solution), false); err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}
	hint, err = svc.Hint(ctx, id)
	if err != nil {
		t.Fatalf("Hint after win failed: %v", err)
	}
	if !hint.Solvable || hint.Direction != "" {
		t.Errorf("Expected empty hint after win, got %+v", hint)
	}

	stuck := newSession(t, svc, "stuck")
	hint, err = svc.Hint(ctx, stuck)
	if err != nil {
		t.Fatalf("Hint on stuck level failed: %v", err)
	}
	if hint.Solvable {
		t.Errorf("Expected unsolvable hint, got %+v", hint)
	}
}

func TestGameService_HintBudget(t *testing.T) {
	sessions := NewMockSessionManager()
	configs := NewMockConfigManager()
	svc := service.NewGameService(sessions, configs, service.WithHintBudget(1))

	id := newSession(t, svc, "corridor")
	if _, err := svc.Hint(context.Background(), id); err == nil {
		t.Error("Expected budget error from a one-state search")
	}
}

func directionsToStrings(dirs []engine.Direction) []string {
	out := make([]string, len(dirs))
	for i, d := range dirs {
		out[i] = string(d)
	}
	return out
}

func TestGameService_DescribeCell(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	id := newSession(t, svc, "corridor")

	tests := []struct {
		name      string
		x, y      int
		inBounds  bool
		glyph     string
		wantKinds []engine.EntityKind
	}{
		{"box on floor", 2, 2, true, "B", []engine.EntityKind{engine.KindFloor, engine.KindBox}},
		{"spot", 4, 3, true, "b", []engine.EntityKind{engine.KindFloor, engine.KindSpot}},
		{"wall", 0, 0, true, "#", []engine.EntityKind{engine.KindFloor, engine.KindWall}},
		{"outside", -1, 0, false, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.DescribeCell(ctx, id, tt.x, tt.y)
			if err != nil {
				t.Fatalf("DescribeCell failed: %v", err)
			}
			if info.InBounds != tt.inBounds || info.Glyph != tt.glyph {
				t.Errorf("Expected inBounds=%v glyph=%q, got %v %q", tt.inBounds, tt.glyph, info.InBounds, info.Glyph)
			}
			if len(info.Entities) != len(tt.wantKinds) {
				t.Fatalf("Expected %d entities, got %+v", len(tt.wantKinds), info.Entities)
			}
			for i, kind := range tt.wantKinds {
				if info.Entities[i].Kind != kind {
					t.Errorf("Entity %d: expected %s, got %s", i, kind, info.Entities[i].Kind)
				}
			}
		})
	}
}

func TestGameService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	first := newSession(t, svc, "corridor")
	newSession(t, svc, "open")

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(list))
	}

	info, err := svc.GetSession(ctx, first)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if info.Level == nil || info.Level.Name != "corridor" {
		t.Errorf("Expected corridor level, got %+v", info.Level)
	}

	if err := svc.DeleteSession(ctx, first); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, first); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestGameService_SaveLevel(t *testing.T) {
	ctx := context.Background()
	svc, _, configs := newTestService(t)

	bad := &engine.LevelConfig{Name: "bad", Description: "no player", Layout: []string{"W W W", "W BS W", "W W W"}}
	if err := svc.SaveLevel(ctx, "bad", bad); !errors.Is(err, service.ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel, got %v", err)
	}
	if _, exists := configs.levels["bad"]; exists {
		t.Error("Invalid level should not be stored")
	}

	good := corridorLevel()
	good.Name = "copy"
	if err := svc.SaveLevel(ctx, "copy", good); err != nil {
		t.Fatalf("SaveLevel failed: %v", err)
	}
	if _, err := svc.LoadLevel(ctx, "copy"); err != nil {
		t.Errorf("Expected saved level to load, got %v", err)
	}
}

func TestGameService_LevelSchema(t *testing.T) {
	svc, _, _ := newTestService(t)

	schema, err := svc.LevelSchema(context.Background())
	if err != nil {
		t.Fatalf("LevelSchema failed: %v", err)
	}
	for _, prop := range []string{"name", "description", "layout", "messages"} {
		if _, ok := schema.Properties.Get(prop); !ok {
			t.Errorf("Expected schema property %q", prop)
		}
	}
	required := strings.Join(schema.Required, ",")
	if !strings.Contains(required, "layout") {
		t.Errorf("Expected layout to be required, got %q", required)
	}
}
