// Package modfeed pushes newly queued moderation items to connected
// moderation dashboards over websockets, so reviewers see flags as they
// happen instead of polling the queue.
package modfeed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"musehub/logger"
	"musehub/model"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	sendBufferSize = 16
)

// FeedMessage is the wire format of one feed event.
type FeedMessage struct {
	Type      string                `json:"type"` // "flagged"
	Item      *model.ModerationItem `json:"item"`
	Timestamp int64                 `json:"timestamp"`
}

// Hub fans moderation items out to all connected clients. Slow clients are
// dropped rather than allowed to block the feed.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Broadcast sends a flagged-item event to every connected client.
func (h *Hub) Broadcast(item model.ModerationItem) {
	msg := FeedMessage{
		Type:      "flagged",
		Item:      &item,
		Timestamp: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to marshal moderation feed message", logger.ErrorField(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client is not keeping up; disconnect it.
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Register attaches a websocket connection to the feed and services it
// until the peer goes away.
func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	logger.Info("moderation feed client connected", logger.Int("clients", count))

	go c.writePump(h)
	go c.readPump(h)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// readPump discards inbound messages; the feed is one-way. It exists to
// notice the peer closing the connection.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
