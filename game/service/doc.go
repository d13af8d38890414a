// Package service provides the business logic layer for the box pushing game.
//
// The service package implements:
//   - Multi-session game management
//   - Level loading, listing, saving and schema reflection
//   - Move processing with per-event reporting
//   - Hints computed by the solver
//   - Move history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads and stores level files.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own GameEngine; every call that
// resolves a tick translates the dispatched engine events into GameEvent
// values carrying a UUID, so clients can de-duplicate what they receive over
// several transports.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "up", false)
package service
