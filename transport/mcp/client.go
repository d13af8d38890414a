package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Box Pusher",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Box Pusher - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Push every box onto a spot of the same color. The player (@) walks on floor,
cannot pass walls (#) and pushes one box at a time. Boxes cannot be pulled.

AVAILABLE TOOLS:
- create_session: Create a new session on a level
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get the current board
- move: Single move (up/down/left/right) - requires intent explanation
- bulk_move: Multiple moves at once - requires intent explanation
- reset_game: Restart the level
- move_history: View past moves
- list_levels: List available levels
- hint: Ask the solver for the next move
- describe_cell: List the entities stacked on one cell
- game_instructions: Full rules and board legend

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally on a specific level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Level to play (see list_levels). Uses the default level when omitted",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board and progress",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell, pushing a box if one is in the way",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Restart the level before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute multiple moves in sequence. Stops at the first blocked move or when the level is won",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Restart the level before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Restart the level from its initial layout",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Newest first (desc, default) or oldest first (asc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Solve the level from the current position and return the next move",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "List every entity stacked on a cell of the board. Useful to tell a box on a spot (*) from a plain box",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// argsOf returns the tool arguments, empty when the client sent none
func argsOf(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	levelID, _ := argsOf(request)["level_id"].(string)

	body := map[string]string{}
	if levelID != "" {
		body["level_id"] = levelID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %s\n\n%s",
		session.ID, session.LevelID, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "playing"
		if s.GameState != nil && s.GameState.Won {
			status = "won"
		}
		fmt.Fprintf(&b, "- %s (Level: %s, %s, Created: %s)\n",
			s.ID, s.LevelID, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(argsOf(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(argsOf(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(request)
	path, err := sessionPath(args, "/move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, _ := args["direction"].(string)
	reset, _ := args["reset"].(bool)

	// intent is only for the caller's benefit

	body := map[string]interface{}{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, http.MethodPost, path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(request)
	path, err := sessionPath(args, "/bulk-move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	reset, _ := args["reset"].(bool)

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, http.MethodPost, path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(argsOf(request), "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, http.MethodPost, path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		query.Set("order", order)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)

	// Also fetch the moves since the last reset from the live state
	statePath, _ := sessionPath(args, "/state")
	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodGet, statePath, nil, &state); err == nil {
		result += "\n" + formatCurrentSegment(&state)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Levels:\n\n")
	for _, level := range levels {
		fmt.Fprintf(&b, "• %s (level_id: %s)\n  %s\n  Board: %dx%d, Boxes: %d, Spots: %d\n\n",
			level.Name, level.LevelID, level.Description, level.Width, level.Height, level.Boxes, level.Spots)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(argsOf(request), "/hint")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var hint service.HintResult
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &hint); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHint(&hint)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Box Pusher - Complete Instructions

GAME OBJECTIVE:
Push every box onto a spot of the same color. The level is won on the move
that places the last box; after that the session accepts no more moves until
it is reset.

BOARD LEGEND:
• @ = You (the player)
• + = You, standing on a spot
• # = Wall - IMPASSABLE
• . = Floor
• B R G Y = Box (blue, red, green, yellow)
• b r g y = Empty spot of that color
• * = Box resting on a spot of its own color
• (space) = Void, outside the level

RULES:
• Each move takes the player one cell up, down, left or right
• Walking into a box pushes it one cell in the same direction
• A box only moves if the cell behind it is free: a wall or another box blocks the push
• You can push one box at a time and never pull
• Blocked moves do not count and leave the board unchanged
• A box on a spot of a different color does not count toward winning

COORDINATES:
• (0,0) is the top-left cell; x grows to the right and y grows downward
• "up" decreases y, "down" increases y

STRATEGY TIPS:
• Never push a box into a corner unless a matching spot is there: it can never leave
• A box against a wall can only slide along that wall
• Plan pushes so you can still walk around to the other side of each box
• Use 'hint' when stuck; it solves from your current position
• Use 'reset_game' if a box is stuck for good

AVAILABLE COMMANDS:
• game_state: See the current board
• move: Make a single move (up/down/left/right)
• bulk_move: Make several moves in one call
• reset_game: Restart the level
• move_history: Review previous moves
• describe_cell: Inspect what is stacked on a cell
• hint: Ask the solver for the next move
• list_levels: See available levels
• create_session: Start a new game on any level`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsOf(request)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}
	path, err := sessionPath(args, fmt.Sprintf("/cells/%d/%d", x, y))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cell service.CellInfo
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCellInfo(&cell)), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\n\n%s",
		session.ID, session.LevelID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Level: %s | Position: (%d,%d) | Boxes placed: %d/%d | Moves: %d | Pushes: %d\n\n",
		state.Level, state.Player.X, state.Player.Y,
		state.BoxesOnTarget, state.TotalTargets, state.Moves, state.Stats.Pushes)

	// Column ruler so coordinates can be read off the board
	if state.Width > 0 {
		b.WriteString("   ")
		for x := 0; x < state.Width; x++ {
			b.WriteString(fmt.Sprint(x % 10))
		}
		b.WriteString("\n")
	}
	for y, row := range state.Board {
		fmt.Fprintf(&b, "%2d %s\n", y, row)
	}

	if state.Won {
		b.WriteString("\nLEVEL COMPLETE!")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}

	if result.Step != nil {
		b.WriteString(formatStepLine(result.Step))
	}

	if result.AttemptedTo != nil {
		b.WriteString(formatAttempt(result.AttemptedTo))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	levelName := ""
	if result.GameState != nil {
		levelName = result.GameState.Level
	}
	fmt.Fprintf(&b, "Session: %s • Level: %s\n", sessionID, levelName)

	fmt.Fprintf(&b, "Executed %d/%d moves", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Position: (%d,%d) → (%d,%d), pushes: %d\n",
		result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y, result.PushesDelta)
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s [%s]\n", result.StoppedOnMove, result.StoppedReason, result.StopReasonCode)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			b.WriteString(formatStepLine(&s))
		}
	}

	if result.AttemptedTo != nil {
		b.WriteString(formatAttempt(result.AttemptedTo))
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	if len(result.PossibleMoves) > 0 {
		moves := make([]string, len(result.PossibleMoves))
		for i, d := range result.PossibleMoves {
			moves[i] = string(d)
		}
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(moves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatStepLine(s *service.StepInfo) string {
	status := "✗"
	if s.Success {
		status = "✓"
	}
	line := fmt.Sprintf("%d. %s (%d,%d)→(%d,%d) %s", s.Idx, s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, status)
	if s.Pushed > 0 {
		line += fmt.Sprintf(" pushed=%d", s.Pushed)
	}
	if s.Placed {
		line += " placed"
	}
	if s.Won {
		line += " won"
	}
	return line + "\n"
}

func formatAttempt(a *service.AttemptInfo) string {
	line := fmt.Sprintf("Blocked: attempted (%d,%d) %s", a.X, a.Y, a.Kind)
	if a.Obstacle != nil {
		line += fmt.Sprintf(", box cannot move into (%d,%d)", a.Obstacle.X, a.Obstacle.Y)
	}
	return line + "\n"
}

func formatHint(hint *service.HintResult) string {
	var b strings.Builder
	if hint.Message != "" {
		b.WriteString(hint.Message + "\n")
	}
	if !hint.Solvable {
		fmt.Fprintf(&b, "No solution found (%d positions explored). Consider reset_game.\n", hint.Explored)
		return b.String()
	}
	if hint.Direction != "" {
		fmt.Fprintf(&b, "Next move: %s\n", hint.Direction)
	}
	fmt.Fprintf(&b, "Moves to finish: %d (%d positions explored)\n", hint.RemainingMoves, hint.Explored)
	if len(hint.Solution) > 0 {
		moves := make([]string, len(hint.Solution))
		for i, d := range hint.Solution {
			moves[i] = string(d)
		}
		fmt.Fprintf(&b, "Solution: %s\n", strings.Join(moves, ","))
	}
	return b.String()
}

func formatCellInfo(cell *service.CellInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell at position (%d, %d):\n━━━━━━━━━━━━━━━━━━━━━━━━\n", cell.X, cell.Y)
	if !cell.InBounds {
		b.WriteString("Outside the board\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Glyph: %q\n", cell.Glyph)
	if len(cell.Entities) == 0 {
		b.WriteString("Entities: none (void)\n")
		return b.String()
	}

	entities := append([]engine.EntityState(nil), cell.Entities...)
	sort.SliceStable(entities, func(i, j int) bool { return entities[i].Z < entities[j].Z })
	b.WriteString("Entities (bottom to top):\n")
	for _, e := range entities {
		if e.Color != "" {
			fmt.Fprintf(&b, "- %s #%d (%s)\n", e.Kind, e.ID, e.Color)
		} else {
			fmt.Fprintf(&b, "- %s #%d\n", e.Kind, e.ID)
		}
	}
	b.WriteString(cellReminder(entities))
	return b.String()
}

// cellReminder explains what a move into the cell would do
func cellReminder(entities []engine.EntityState) string {
	for _, e := range entities {
		switch e.Kind {
		case engine.KindWall:
			return "This is a WALL and is IMPASSABLE.\n"
		case engine.KindBox:
			return "A box is here: walking into it pushes it if the cell behind is free.\n"
		case engine.KindPlayer:
			return "This is where you currently are.\n"
		}
	}
	for _, e := range entities {
		if e.Kind == engine.KindSpot {
			return fmt.Sprintf("An empty %s spot: push a %s box here.\n", e.Color, e.Color)
		}
	}
	return "Open floor.\n"
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d)\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%s #%d %s (%d,%d)→(%d,%d)",
			status, move.MoveNumber, move.Action, move.From.X, move.From.Y, move.To.X, move.To.Y)
		if move.Pushed > 0 {
			fmt.Fprintf(&b, " pushed=%d", move.Pushed)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// formatCurrentSegment lists the moves since the last reset as a compact path
func formatCurrentSegment(state *engine.GameState) string {
	if state == nil || len(state.CurrentMoves) == 0 {
		return "Current attempt: no moves since last reset\n"
	}

	moves := make([]string, 0, len(state.CurrentMoves))
	for _, m := range state.CurrentMoves {
		if m.Success {
			moves = append(moves, string(m.Action))
		}
	}
	return fmt.Sprintf("Current attempt (%d moves): %s\n", len(moves), strings.Join(moves, ","))
}
