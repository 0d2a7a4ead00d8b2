package services

import (
	"encoding/json"
	"sync"

	"github.com/walpass/health-tracker-app/models"

	"github.com/gorilla/websocket"
)

// RecordEvent is pushed to a user's open dashboard sockets whenever one of
// their health records changes, so charts refresh without polling.
type RecordEvent struct {
	Action   string               `json:"action"` // created, updated, deleted
	RecordID uint                 `json:"record_id"`
	Record   *models.HealthRecord `json:"record,omitempty"`
}

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// PublishRecordEvent fans an event out to every socket the owner has open.
// Write failures are ignored; the read loop of the broken socket will
// unregister it.
func (h *RealtimeHub) PublishRecordEvent(userID uint, ev RecordEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
