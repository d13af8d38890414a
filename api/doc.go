// Package api provides HTTP REST API handlers for the box pushing game.
//
// The api package implements:
//   - Session management endpoints
//   - Moves, bulk moves, resets and hints against a session
//   - Level listing, retrieval and authoring
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"level_id": "classic"}, default level when empty)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - One move ({"direction": "up", "reset": false})
//   - POST /api/sessions/{id}/bulk-move - Several moves ({"moves": ["up", "left"]})
//   - POST /api/sessions/{id}/reset - Restart the level
//   - GET /api/sessions/{id}/history - Move history (?page=1&limit=20&order=desc)
//   - GET /api/sessions/{id}/hint - Next move of a shortest solution
//   - GET /api/sessions/{id}/cells/{x}/{y} - Entities standing on one cell
//
// Levels:
//   - GET /api/levels - List valid levels
//   - POST /api/levels - Create a level, ID derived from its name
//   - GET /api/levels/schema - JSON schema of a level file
//   - GET /api/levels/{name} - Get a level
//   - PUT /api/levels/{name} - Create or replace a level
//
// WebSocket:
//   - GET /ws?session={id} - State pushes for a session; clients may send
//     {"type": "input", "direction": "up"} to move
//
// Errors are returned as JSON with an HTTP status mapped from the error kind:
//
//	{"error": "session not found: abc"}
//
// Usage:
//
//	server := api.NewServer(gameService, websocket.NewHub())
//	http.ListenAndServe(":8080", server)
package api

//
// Enriched Responses (Move and Bulk Move)
//
// Move (POST /api/sessions/{id}/move)
//   Response:
//     - success, message, game_state
//     - step: { idx, dir, from{x,y}, to{x,y}, pushed, success, placed?, won? }
//     - attempted_to: { x, y, kind, obstacle? } // present when blocked
//     - events: [{ type: move|push|obstacle|box_placed|won, message, tick, position, correct? }]
//     - sounds: ["correct"|"incorrect"|"wall"]
//
// Bulk Move (POST /api/sessions/{id}/bulk-move)
//   Response:
//     - requested_moves, moves_executed
//     - stopped_reason (text), stop_reason_code (enum), stopped_on_move (1-based), truncated, limit
//     - steps: per executed move, as in Move
//     - attempted_to: failed target cell on first block
//     - start_pos, end_pos, pushes_delta
//     - won, boxes_on_target, total_targets, possible_moves
