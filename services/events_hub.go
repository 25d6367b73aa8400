package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is pushed to a user's open dashboard sessions when their data
// changes, so charts refresh without polling.
type Event struct {
	Type    string `json:"type"` // e.g. "entry.created", "goal.updated", "yolo.declared"
	Payload any    `json:"payload,omitempty"`
}

const (
	pingInterval   = 25 * time.Second
	sendBufferSize = 16
)

// WSClient is one websocket session. All writes to the connection go through
// the send queue: gorilla/websocket allows a single concurrent writer, so
// WritePump is the only goroutine that touches Conn for output.
type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
	send   chan []byte
}

func NewWSClient(userID uint, conn *websocket.Conn) *WSClient {
	return &WSClient{UserID: userID, Conn: conn, send: make(chan []byte, sendBufferSize)}
}

// WritePump drains the send queue onto the connection and keeps it alive
// with pings. Returns when the queue is closed or a write fails; the
// connection is closed on the way out, which also ends the read loop.
func (c *WSClient) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// EventsHub fans events out to every websocket session a user has open.
type EventsHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewEventsHub() *EventsHub {
	return &EventsHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *EventsHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes the session and closes its send queue, which stops the
// write pump. Safe to call more than once for the same client.
func (h *EventsHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.send)
			if len(set) == 0 {
				delete(h.clients, c.UserID)
			}
		}
	}
	h.mu.Unlock()
	if c.Conn != nil {
		_ = c.Conn.Close()
	}
}

// Broadcast queues the event for every session of the user. A session whose
// queue is full is skipped rather than blocking the caller.
func (h *EventsHub) Broadcast(userID uint, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- msg:
		default:
		}
	}
}
