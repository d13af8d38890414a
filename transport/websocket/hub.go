package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outgoing messages buffered per client before it is dropped.
	sendBuffer = 256
)

// Message types
const (
	TypeState = "state"
	TypeTick  = "tick"
	TypeInput = "input"
	TypeError = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the JSON envelope sent to and received from clients
type Message struct {
	ID        string              `json:"id,omitempty"`
	Type      string              `json:"type"`
	SessionID string              `json:"session_id,omitempty"`
	GameState *engine.GameState   `json:"game_state,omitempty"`
	Events    []service.GameEvent `json:"events,omitempty"`
	Sounds    []string            `json:"sounds,omitempty"`
	Direction string              `json:"direction,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// InputHandler applies a direction received from a client to its session
type InputHandler func(ctx context.Context, sessionID, direction string) error

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients per session and fans out messages
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool
	mu       sync.RWMutex

	onInput InputHandler
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]map[*Client]bool),
	}
}

// SetInputHandler installs the callback for "input" messages
func (h *Hub) SetInputHandler(fn InputHandler) {
	h.mu.Lock()
	h.onInput = fn
	h.mu.Unlock()
}

// Run keeps the hub open until ctx is cancelled, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.Close()
}

// ServeWS upgrades the request and attaches the connection to sessionID.
// A non-nil initial state is sent to the new client only.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, initial *engine.GameState) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: strings.ToLower(sessionID),
	}

	h.registerClient(client)
	if initial != nil {
		client.reply(&Message{Type: TypeState, SessionID: sessionID, GameState: initial})
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastToSession sends a state snapshot to all clients of a session
func (h *Hub) BroadcastToSession(sessionID string, state *engine.GameState) {
	h.publish(&Message{
		Type:      TypeState,
		SessionID: sessionID,
		GameState: state,
	})
}

// BroadcastTick sends the events and sounds of one resolved tick
func (h *Hub) BroadcastTick(sessionID string, state *engine.GameState, events []service.GameEvent, sounds []string) {
	h.publish(&Message{
		Type:      TypeTick,
		SessionID: sessionID,
		GameState: state,
		Events:    events,
		Sounds:    sounds,
	})
}

// ClientCount returns the number of clients watching a session
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[strings.ToLower(sessionID)])
}

func (h *Hub) publish(message *Message) {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal WebSocket message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.sessions[strings.ToLower(message.SessionID)] {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, drop it
			h.removeLocked(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Printf("Client registered for session %s (total clients: %d)",
		client.sessionID, len(h.sessions[client.sessionID]))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok || !clients[client] {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	log.Printf("Client unregistered from session %s (remaining clients: %d)",
		client.sessionID, len(clients))
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.sessions {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// handleInput runs the input handler and reports failures to the sender only
func (c *Client) handleInput(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.reply(&Message{Type: TypeError, Error: "malformed message"})
		return
	}
	if msg.Type != TypeInput {
		c.reply(&Message{Type: TypeError, Error: "unsupported message type: " + msg.Type})
		return
	}

	c.hub.mu.RLock()
	handler := c.hub.onInput
	c.hub.mu.RUnlock()
	if handler == nil {
		c.reply(&Message{Type: TypeError, Error: "input is not accepted on this server"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	if err := handler(ctx, c.sessionID, msg.Direction); err != nil {
		c.reply(&Message{Type: TypeError, SessionID: c.sessionID, Direction: msg.Direction, Error: err.Error()})
	}
}

func (c *Client) reply(message *Message) {
	message.ID = uuid.NewString()
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.sessions[c.sessionID][c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump reads client messages until the connection drops
func (c *Client) readPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		c.handleInput(raw)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
