package handlers

import (
	"net/http"

	"github.com/pichanga-app/pichanga-backend/live"
	"github.com/pichanga-app/pichanga-backend/middleware"
	"github.com/pichanga-app/pichanga-backend/services"
)

type MatchHandler struct {
	matchService *services.MatchService
	hub          *live.Hub
}

func NewMatchHandler(matchService *services.MatchService, hub *live.Hub) *MatchHandler {
	return &MatchHandler{matchService: matchService, hub: hub}
}

// Board handles GET /api/matches/board: the public board for everyone,
// plus the caller's own upcoming and past matches when authenticated.
func (h *MatchHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.matchService.Board(r.Context(), optionalUserID(r))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", board)
}

// Detail handles GET /api/matches/{identifier}. Anonymous callers get
// the match without personal enrollment/payment flags.
func (h *MatchHandler) Detail(w http.ResponseWriter, r *http.Request) {
	identifier, err := matchIdentifierParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.matchService.GetDetail(r.Context(), optionalUserID(r), identifier)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", detail)
}

// optionalUserID returns the authenticated user's id, or 0 when the
// request is anonymous.
func optionalUserID(r *http.Request) int {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		return 0
	}
	return user.ID
}

// Roster handles GET /api/matches/{identifier}/players.
func (h *MatchHandler) Roster(w http.ResponseWriter, r *http.Request) {
	identifier, err := matchIdentifierParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	players, err := h.matchService.Roster(r.Context(), identifier)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", players)
}

// Join handles POST /api/matches/{identifier}/join.
func (h *MatchHandler) Join(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	identifier, err := matchIdentifierParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, result, err := h.matchService.JoinByIdentifier(r.Context(), user.ID, identifier)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if result.Joined {
		h.hub.BroadcastToRoom(match.Identifier.String(), live.MsgSlotsUpdated, live.SlotsPayload{
			MatchIdentifier: match.Identifier.String(),
			AvailableSlots:  result.AvailableSlots,
		})
	}
	respondOK(w, "join processed", result)
}

// Leave handles POST /api/matches/{identifier}/leave.
func (h *MatchHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	identifier, err := matchIdentifierParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, result, err := h.matchService.LeaveByIdentifier(r.Context(), user.ID, identifier)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if result.Left {
		h.hub.BroadcastToRoom(match.Identifier.String(), live.MsgSlotsUpdated, live.SlotsPayload{
			MatchIdentifier: match.Identifier.String(),
			AvailableSlots:  result.AvailableSlots,
		})
	}
	respondOK(w, "leave processed", result)
}
