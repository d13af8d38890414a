// Package mcp exposes the box pusher REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two HTTP
// requests against a running API server, and the JSON answer is rendered as
// plain text an agent can read (the board with a coordinate ruler, step
// lines, blocked-move diagnostics).
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state, move, bulk_move, reset_game, move_history
//   - list_levels, hint, describe_cell, game_instructions
//
// move and bulk_move accept an "intent" argument that is never sent to the
// server; it gives the agent a place to state its plan.
//
// Transport Modes:
//
// The same MCPServer serves both modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp on the game server, fed to HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
