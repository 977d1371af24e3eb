package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/pichanga-app/pichanga-backend/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The mobile client connects from app schemes; origin checks add
	// nothing for a read-only stream.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// WatchMatch handles GET /ws/matches/{identifier}: upgrades the
// connection and subscribes it to the match's room.
func (h *WebSocketHandler) WatchMatch(w http.ResponseWriter, r *http.Request) {
	identifier, err := matchIdentifierParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := live.NewClient(h.hub, conn, identifier.String())
	client.Start()
}
