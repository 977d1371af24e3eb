package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/services"
)

type contextKey string

const (
	userContextKey    contextKey = "authUser"
	sessionContextKey contextKey = "authSession"
)

var (
	ErrNoUserInContext = errors.New("no authenticated user in request context")
)

// Authenticator resolves a bearer token to a session and user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.SessionToken, *models.User, error)
}

// RequireAuth validates the opaque bearer token and stores the session
// and user in the request context. Missing or invalid tokens are
// rejected with 401.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "authorization token required")
				return
			}

			session, user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrSessionInvalid):
					unauthorized(w, "session closed or token invalid")
				case errors.Is(err, services.ErrUserInactive):
					unauthorized(w, "account is inactive")
				default:
					http.Error(w, `{"status":"error","message":"internal server error"}`, http.StatusInternalServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the bearer token when one is presented but
// lets anonymous requests through. A token that is present and invalid
// is still rejected so clients notice a dead session.
func OptionalAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrSessionInvalid):
					unauthorized(w, "session closed or token invalid")
				case errors.Is(err, services.ErrUserInactive):
					unauthorized(w, "account is inactive")
				default:
					http.Error(w, `{"status":"error","message":"internal server error"}`, http.StatusInternalServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated users whose role does not match.
// Must run after RequireAuth.
func RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := GetUserFromContext(r.Context())
			if err != nil {
				unauthorized(w, "authorization token required")
				return
			}
			if user.Role != role {
				forbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// "Token <token>" is accepted for older clients.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	switch strings.ToLower(parts[0]) {
	case "bearer", "token":
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"status":"error","message":"` + message + `"}`))
}

func forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"status":"error","message":"` + message + `"}`))
}

// GetUserFromContext returns the authenticated user stored by RequireAuth.
func GetUserFromContext(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}

// GetSessionFromContext returns the session stored by RequireAuth.
func GetSessionFromContext(ctx context.Context) (*models.SessionToken, error) {
	session, ok := ctx.Value(sessionContextKey).(*models.SessionToken)
	if !ok || session == nil {
		return nil, ErrNoUserInContext
	}
	return session, nil
}
