package live

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is the envelope pushed to websocket watchers. Room is the
// match identifier the event belongs to.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room_id,omitempty"`
}

const (
	// MsgSlotsUpdated notifies watchers that a match's occupancy changed.
	MsgSlotsUpdated = "SLOTS_UPDATED"
	// MsgMatchUpdated notifies watchers that match fields changed
	// (status, schedule).
	MsgMatchUpdated = "MATCH_UPDATED"
)

// SlotsPayload is the body of a MsgSlotsUpdated message.
type SlotsPayload struct {
	MatchIdentifier string `json:"match_identifier"`
	AvailableSlots  int    `json:"available_slots"`
}

// Hub fans messages out to clients grouped in per-match rooms.
// Broadcasts are best-effort: a client that cannot keep up is skipped.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run processes register/unregister events. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("live client joined", "room", client.room, "clients", len(h.rooms[client.room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.room]; ok {
				if _, registered := room[client]; registered {
					client.closeSend()
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, client.room)
					}
					h.logger.Debug("live client left", "room", client.room)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom sends one message to every client watching the room.
func (h *Hub) BroadcastToRoom(room string, msgType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Room: room})
	if err != nil {
		h.logger.Error("failed to marshal live message", "room", room, "error", err)
		return
	}

	for client := range clients {
		client.trySend(data)
	}
}
