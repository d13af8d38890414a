package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/boxpusher/api"
	"github.com/wricardo/boxpusher/game/config"
	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/service"
	"github.com/wricardo/boxpusher/game/session"
	"github.com/wricardo/boxpusher/transport/websocket"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"echo": body["direction"]})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]string
	err := client.apiCall(context.Background(), "POST", "/api", map[string]string{"direction": "up"}, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["echo"] != "up" {
		t.Errorf("Expected echo up, got %v", response)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"plain body", "Internal Server Error", "API error: 500"},
		{"json error", `{"error":"session not found: ab12"}`, "session not found: ab12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Expected error %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["level_id"] != "corridor" {
			t.Errorf("Expected level_id corridor, got %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:        "ab12",
			LevelID:   "corridor",
			GameState: &engine.GameState{Level: "corridor", Board: []string{"#####"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{"level_id": "corridor"}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Created session: ab12", "Level: corridor", "#####"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_MissingSessionID(t *testing.T) {
	client := NewClient("http://localhost:1")

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"get_session":  client.handleGetSession,
		"game_state":   client.handleGameState,
		"move":         client.handleMove,
		"bulk_move":    client.handleBulkMove,
		"reset_game":   client.handleReset,
		"move_history": client.handleMoveHistory,
		"hint":         client.handleHint,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), callTool(name, nil))
			if err != nil {
				t.Fatalf("Handler returned error: %v", err)
			}
			if !result.IsError {
				t.Error("Expected a tool error result")
			}
			if text := resultText(t, result); !strings.Contains(text, "session_id is required") {
				t.Errorf("Expected session_id error, got: %s", text)
			}
		})
	}
}

func TestClient_describeCellPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(service.CellInfo{X: 3, Y: 2, InBounds: true, Glyph: "B"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleDescribeCell(context.Background(), callTool("describe_cell", map[string]interface{}{
		"session_id": "ab12",
		"x":          float64(3),
		"y":          float64(2),
	}))
	if err != nil {
		t.Fatalf("describeCell failed: %v", err)
	}
	if gotPath != "/api/sessions/ab12/cells/3/2" {
		t.Errorf("Expected cell path, got %s", gotPath)
	}
	if text := resultText(t, result); !strings.Contains(text, "(3, 2)") {
		t.Errorf("Expected coordinates in result, got: %s", text)
	}

	result, _ = client.handleDescribeCell(context.Background(), callTool("describe_cell", map[string]interface{}{"session_id": "ab12"}))
	if !result.IsError {
		t.Error("Expected error without coordinates")
	}
}

func TestFormatGameState(t *testing.T) {
	state := &engine.GameState{
		Level:         "corridor",
		Width:         6,
		Board:         []string{"######", "#@...#"},
		Player:        engine.Cell{X: 1, Y: 1},
		BoxesOnTarget: 0,
		TotalTargets:  1,
		Moves:         4,
		Stats:         engine.Stats{Pushes: 2},
		Message:       "Push the box onto the spot",
	}

	result := formatGameState(state)

	for _, field := range []string{
		"Level: corridor",
		"Position: (1,1)",
		"Boxes placed: 0/1",
		"Moves: 4",
		"Pushes: 2",
		"   012345",
		" 1 #@...#",
		"Push the box onto the spot",
	} {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
	if strings.Contains(result, "LEVEL COMPLETE") {
		t.Error("Unwon level should not be reported complete")
	}
}

func TestFormatGameState_Won(t *testing.T) {
	result := formatGameState(&engine.GameState{Won: true, BoxesOnTarget: 1, TotalTargets: 1})
	if !strings.Contains(result, "LEVEL COMPLETE!") {
		t.Errorf("Expected 'LEVEL COMPLETE!' in result, got: %s", result)
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatMoveResult(t *testing.T) {
	result := formatMoveResult(&service.MoveResult{
		Success: true,
		Step: &service.StepInfo{
			Idx: 1, Dir: engine.Right,
			From: engine.Cell{X: 2, Y: 2}, To: engine.Cell{X: 3, Y: 2},
			Pushed: 1, Success: true,
		},
		Events:    []service.GameEvent{{Type: service.EventPush, Message: "Pushed box"}},
		GameState: &engine.GameState{Player: engine.Cell{X: 3, Y: 2}},
	})

	for _, field := range []string{
		"✓ Move successful",
		"right (2,2)→(3,2) ✓ pushed=1",
		"- push: Pushed box",
		"Position: (3,2)",
	} {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatMoveResult_Failed(t *testing.T) {
	result := formatMoveResult(&service.MoveResult{
		Success:     false,
		AttemptedTo: &service.AttemptInfo{X: 0, Y: 1, Kind: "wall"},
		GameState:   &engine.GameState{Player: engine.Cell{X: 1, Y: 1}},
	})

	if !strings.Contains(result, "✗ Move failed") {
		t.Errorf("Expected '✗ Move failed' in result, got: %s", result)
	}
	if !strings.Contains(result, "Blocked: attempted (0,1) wall") {
		t.Errorf("Expected blocked diagnostic in result, got: %s", result)
	}
}

func TestFormatBulkMoveResult(t *testing.T) {
	result := formatBulkMoveResult("ab12", &service.BulkMoveResult{
		MovesExecuted:  2,
		RequestedMoves: 5,
		StoppedReason:  "Box blocked",
		StopReasonCode: service.StopBlockedWall,
		StoppedOnMove:  3,
		StartPos:       engine.Cell{X: 1, Y: 1},
		EndPos:         engine.Cell{X: 1, Y: 3},
		Steps: []service.StepInfo{
			{Idx: 1, Dir: engine.Down, Success: true},
			{Idx: 2, Dir: engine.Down, Success: true},
		},
		PossibleMoves: []engine.Direction{engine.Up, engine.Right},
		GameState:     &engine.GameState{Level: "corridor"},
	})

	for _, field := range []string{
		"Session: ab12 • Level: corridor",
		"Executed 2/5 moves",
		"(1,1) → (1,3)",
		"Stopped on move 3: Box blocked [blocked_wall]",
		"Possible moves: up,right",
	} {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatHint(t *testing.T) {
	solved := formatHint(&service.HintResult{
		Direction:      engine.Down,
		Solvable:       true,
		RemainingMoves: 2,
		Solution:       []engine.Direction{engine.Down, engine.Right},
		Explored:       10,
	})
	if !strings.Contains(solved, "Next move: down") || !strings.Contains(solved, "Solution: down,right") {
		t.Errorf("Unexpected hint output: %s", solved)
	}

	stuck := formatHint(&service.HintResult{Solvable: false, Explored: 42})
	if !strings.Contains(stuck, "No solution found (42 positions explored)") {
		t.Errorf("Unexpected hint output: %s", stuck)
	}
}

func TestFormatCellInfo(t *testing.T) {
	tests := []struct {
		name string
		cell service.CellInfo
		want string
	}{
		{
			name: "outside",
			cell: service.CellInfo{X: -1, Y: 0},
			want: "Outside the board",
		},
		{
			name: "wall",
			cell: service.CellInfo{InBounds: true, Glyph: "#", Entities: []engine.EntityState{{Kind: engine.KindWall}}},
			want: "IMPASSABLE",
		},
		{
			name: "box over spot",
			cell: service.CellInfo{InBounds: true, Glyph: "*", Entities: []engine.EntityState{
				{Kind: engine.KindBox, Color: engine.Blue, Z: 2},
				{Kind: engine.KindSpot, Color: engine.Blue, Z: 1},
			}},
			want: "- spot #0 (blue)\n- box #0 (blue)",
		},
		{
			name: "empty spot",
			cell: service.CellInfo{InBounds: true, Glyph: "r", Entities: []engine.EntityState{{Kind: engine.KindSpot, Color: engine.Red}}},
			want: "push a red box here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCellInfo(&tt.cell); !strings.Contains(got, tt.want) {
				t.Errorf("Expected %q in output, got: %s", tt.want, got)
			}
		})
	}
}

func TestFormatCurrentSegment(t *testing.T) {
	state := &engine.GameState{CurrentMoves: []engine.MoveHistoryEntry{
		{Action: engine.Down, Success: true},
		{Action: engine.Left, Success: false},
		{Action: engine.Right, Success: true},
	}}
	if got := formatCurrentSegment(state); got != "Current attempt (2 moves): down,right\n" {
		t.Errorf("Unexpected segment: %q", got)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{
		"Box Pusher - Complete Instructions",
		"GAME OBJECTIVE:",
		"BOARD LEGEND:",
		"RULES:",
		"COORDINATES:",
		"STRATEGY TIPS:",
	} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}

func TestClient_Integration(t *testing.T) {
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
	if err := levels.SaveLevel("corridor", corridor); err != nil {
		t.Fatalf("Failed to save level: %v", err)
	}

	gameService := service.NewGameService(session.NewManager(), levels)
	httpServer := httptest.NewServer(api.NewServer(gameService, websocket.NewHub()))
	defer httpServer.Close()

	client := NewClient(httpServer.URL)
	ctx := context.Background()

	info, err := gameService.CreateSession(ctx, "corridor")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	result, err := client.handleMove(ctx, callTool("move", map[string]interface{}{
		"session_id": info.ID,
		"direction":  "up",
		"intent":     "check the wall",
	}))
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "✗ Move failed") {
		t.Errorf("Expected blocked move, got: %s", text)
	}

	result, err = client.handleBulkMove(ctx, callTool("bulk_move", map[string]interface{}{
		"session_id": info.ID,
		"moves":      []interface{}{"down", "right", "right", "up", "right", "down"},
	}))
	if err != nil {
		t.Fatalf("bulk_move failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "LEVEL COMPLETE!") {
		t.Errorf("Expected the level to be won, got: %s", text)
	}

	result, err = client.handleMoveHistory(ctx, callTool("move_history", map[string]interface{}{
		"session_id": info.ID,
		"limit":      float64(3),
		"order":      "asc",
	}))
	if err != nil {
		t.Fatalf("move_history failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "#1 up") {
		t.Errorf("Expected the blocked first move at the top, got: %s", text)
	}

	result, err = client.handleGameState(ctx, callTool("game_state", map[string]interface{}{"session_id": "missing"}))
	if err != nil {
		t.Fatalf("game_state failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected an error for an unknown session")
	}
}
