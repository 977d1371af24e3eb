package handlers

import (
	"net/http"
	"strings"

	"github.com/pichanga-app/pichanga-backend/middleware"
	"github.com/pichanga-app/pichanga-backend/services"
)

type AuthHandler struct {
	authService    *services.AuthService
	sessionService *services.SessionService
}

func NewAuthHandler(authService *services.AuthService, sessionService *services.SessionService) *AuthHandler {
	return &AuthHandler{authService: authService, sessionService: sessionService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondCreated(w, "account created", user)
}

type loginRequest struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	Password       string `json:"password"`
	DeviceID       string `json:"device_id"`
}

// Login handles POST /api/auth/login. One session per device; logging
// in again from the same device replaces its token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	client := services.ClientInfo{
		DeviceID:  req.DeviceID,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
	result, err := h.authService.LoginByDocument(r.Context(), req.DocumentType, req.DocumentNumber, req.Password, client)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "login successful", result)
}

// Logout handles POST /api/auth/logout: revokes the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	session, err := middleware.GetSessionFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	revoked, err := h.sessionService.Revoke(r.Context(), user.ID, session.Token)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "session closed", revoked)
}

// LogoutAll handles POST /api/auth/logout-all: signs out every device.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	revoked, err := h.sessionService.RevokeAll(r.Context(), user.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if len(revoked) == 0 {
		respondOK(w, "no active sessions", revoked)
		return
	}
	respondOK(w, "all sessions closed", revoked)
}

// Sessions handles GET /api/auth/sessions: lists the caller's devices.
func (h *AuthHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	sessions, err := h.sessionService.ListDevices(r.Context(), user.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", sessions)
}

// clientIP prefers the left-most X-Forwarded-For hop when present.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host
}
