package handlers

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/AleutianAI/linkrace/services/game"
	"github.com/AleutianAI/linkrace/services/server/datatypes"
)

// wsClient wraps a connection with a write lock; gorilla allows only one
// concurrent writer per connection.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) send(env datatypes.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(env); err != nil {
		slog.Warn("websocket write failed", "error", err)
		return err
	}
	return nil
}

// Hub tracks open WebSocket connections by player identifier so room
// events can be fanned out. Delivery is best effort: a failed write is
// logged and skipped, never retried.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*wsClient)}
}

func (h *Hub) add(playerID string, conn *websocket.Conn) *wsClient {
	c := &wsClient{conn: conn}
	h.mu.Lock()
	h.clients[playerID] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(playerID string) {
	h.mu.Lock()
	delete(h.clients, playerID)
	h.mu.Unlock()
}

// SendTo delivers one envelope to a single player, if still connected.
func (h *Hub) SendTo(playerID string, env datatypes.Envelope) {
	h.mu.RLock()
	c := h.clients[playerID]
	h.mu.RUnlock()
	if c != nil {
		_ = c.send(env)
	}
}

// BroadcastRoom delivers one envelope to every player in the room except
// the excluded one. Pass an empty exclude to reach everyone.
func (h *Hub) BroadcastRoom(room game.RoomSnapshot, exclude string, env datatypes.Envelope) {
	h.mu.RLock()
	targets := make([]*wsClient, 0, len(room.Players))
	for _, p := range room.Players {
		if p.ID == exclude {
			continue
		}
		if c := h.clients[p.ID]; c != nil {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		_ = c.send(env)
	}
}
