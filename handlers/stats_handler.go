package handlers

import (
	"net/http"

	"github.com/pichanga-app/pichanga-backend/middleware"
	"github.com/pichanga-app/pichanga-backend/services"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Summary handles GET /api/stats/summary: the caller's aggregate
// totals.
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	summary, err := h.statsService.Summary(r.Context(), user.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", summary)
}

// Matches handles GET /api/stats/matches: the caller's per-match
// history.
func (h *StatsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	matches, err := h.statsService.Matches(r.Context(), user.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", matches)
}

// RecordResult handles PUT /api/matches/{identifier}/result. Admin
// only: the body names the player whose outcome is written.
func (h *StatsHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	identifier, err := matchIdentifierParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var input services.ResultInput
	if err := readJSON(w, r, &input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.statsService.RecordResult(r.Context(), identifier, input); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "result recorded", nil)
}
