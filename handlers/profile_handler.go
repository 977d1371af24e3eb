package handlers

import (
	"net/http"

	"github.com/pichanga-app/pichanga-backend/middleware"
	"github.com/pichanga-app/pichanga-backend/services"
)

const maxPhotoUploadBytes = 5 << 20

type ProfileHandler struct {
	userService       *services.UserService
	membershipService *services.MembershipService
}

func NewProfileHandler(userService *services.UserService, membershipService *services.MembershipService) *ProfileHandler {
	return &ProfileHandler{userService: userService, membershipService: membershipService}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), user.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", profile)
}

// Update handles PATCH /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var patch services.ProfilePatch
	if err := readJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "profile updated", updated)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles POST /api/profile/password.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req changePasswordRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userService.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "password changed", nil)
}

// UploadPhoto handles POST /api/profile/photo (multipart form, field "photo").
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	updated, err := h.userService.UploadPhoto(r.Context(), user.ID, header.Filename, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "photo updated", updated)
}

// Deactivate handles POST /api/profile/deactivate.
func (h *ProfileHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	revoked, err := h.userService.Deactivate(r.Context(), user.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "account deactivated", map[string]int{"sessions_revoked": revoked})
}

type setTeamRequest struct {
	TeamID int `json:"team_id"`
}

// SetTeam handles PUT /api/profile/team.
func (h *ProfileHandler) SetTeam(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req setTeamRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	membership, err := h.membershipService.SetCurrentTeam(r.Context(), user.ID, req.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "team updated", membership)
}

// ClearTeam handles DELETE /api/profile/team.
func (h *ProfileHandler) ClearTeam(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	closed, err := h.membershipService.ClearCurrentTeam(r.Context(), user.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "team cleared", map[string]int{"memberships_closed": closed})
}

// TeamHistory handles GET /api/profile/team/history.
func (h *ProfileHandler) TeamHistory(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	history, err := h.membershipService.History(r.Context(), user.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", history)
}

// Teams handles GET /api/teams.
func (h *ProfileHandler) Teams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.membershipService.ListTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", teams)
}
