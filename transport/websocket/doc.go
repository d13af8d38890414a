// Package websocket provides the live WebSocket transport for game sessions.
//
// A Hub keeps the connected clients of every session. Clients attach with
// the session ID in the URL (/ws?session=ab12) and receive:
//
//	{"id": "...", "type": "state", "session_id": "ab12", "game_state": {...}}
//	{"id": "...", "type": "tick",  "session_id": "ab12", "game_state": {...}, "events": [...], "sounds": ["correct"]}
//
// Clients may drive the session by sending
//
//	{"type": "input", "direction": "up"}
//
// which is passed to the InputHandler installed with SetInputHandler. The
// resulting state reaches every client of the session through the normal
// broadcast; failures are reported to the sender only as "error" messages.
//
// Clients that cannot keep up with their send buffer are disconnected.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	hub.SetInputHandler(func(ctx context.Context, id, dir string) error { ... })
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"), nil)
//	})
package websocket
