package http

import (
	"log"
	"sync"

	"github.com/dinariox/quiz-conquest-backend/internal/app"
	"github.com/dinariox/quiz-conquest-backend/internal/domain"
	"github.com/gorilla/websocket"
)

// outboundMessage is the envelope for every message sent to a client.
type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// client is one websocket connection with its own buffered write pump, so a
// slow client never blocks the game loop or the other connections.
type client struct {
	id   string
	conn *websocket.Conn
	send chan outboundMessage
	once sync.Once
}

func (c *client) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error (conn %s): %v", c.id, err)
			return
		}
	}
}

// close shuts the write pump and the underlying connection exactly once.
func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

// Hub tracks all live connections and implements the broadcast primitives the
// game loop needs (broadcast-to-all, send-to-one, forcibly-disconnect).
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

var _ app.Broadcaster = (*Hub)(nil)

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// remove drops and closes a connection. Closing under the write lock means no
// broadcast can race a send against the closed channel.
func (h *Hub) remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[connID]; ok {
		delete(h.clients, connID)
		c.close()
	}
}

// BroadcastState sends the full snapshot to every connection.
func (h *Hub) BroadcastState(state domain.GameState) {
	h.BroadcastEvent(app.EventGameState, state)
}

// BroadcastEvent sends a named event to every connection.
func (h *Hub) BroadcastEvent(event string, payload any) {
	msg := outboundMessage{Type: event, Payload: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		h.offer(c, msg)
	}
}

// SendEvent sends a named event to a single connection. Unknown connection
// ids are ignored; the client may have disconnected already.
func (h *Hub) SendEvent(connID, event string, payload any) {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.offer(c, outboundMessage{Type: event, Payload: payload})
}

// Disconnect forcibly terminates a connection (e.g. after eviction).
func (h *Hub) Disconnect(connID string) {
	h.remove(connID)
}

// offer enqueues without blocking; a full send buffer means the client is not
// keeping up and loses this update. It will catch up with the next snapshot.
func (h *Hub) offer(c *client, msg outboundMessage) {
	select {
	case c.send <- msg:
	default:
		log.Printf("dropping update for slow conn %s", c.id)
	}
}
