package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/repositories"
)

// sessionTokenBytes is the entropy of an opaque session token before
// base64url encoding (64 characters on the wire).
const sessionTokenBytes = 48

// ClientInfo is the request metadata stored alongside a session.
type ClientInfo struct {
	DeviceID  string
	IPAddress string
	UserAgent string
}

// SessionService issues and validates device-scoped opaque tokens.
// Tokens are random values stored server-side; revocation is a row
// delete, effective immediately.
type SessionService struct {
	sessionRepo repositories.SessionRepository
}

func NewSessionService(sessionRepo repositories.SessionRepository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

// IssueOrRefresh creates a session for (user, device), replacing any
// existing token for the same device. Returns the plaintext token,
// which is never retrievable again.
func (s *SessionService) IssueOrRefresh(ctx context.Context, userID int, client ClientInfo) (*models.SessionToken, string, error) {
	if client.DeviceID == "" {
		client.DeviceID = "default"
	}

	token, err := generateToken()
	if err != nil {
		return nil, "", err
	}

	session := &models.SessionToken{
		UserID:    userID,
		DeviceID:  client.DeviceID,
		Token:     token,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	}
	if err := s.sessionRepo.Upsert(ctx, nil, session); err != nil {
		return nil, "", err
	}
	return session, token, nil
}

// Authenticate resolves a bearer token to its session and user. The
// session's last_seen is refreshed as a side effect.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*models.SessionToken, *models.User, error) {
	if token == "" {
		return nil, nil, ErrSessionInvalid
	}

	session, user, err := s.sessionRepo.GetByToken(ctx, nil, token)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, nil, ErrSessionInvalid
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}

	if err := s.sessionRepo.TouchLastSeen(ctx, nil, session.ID); err != nil &&
		!errors.Is(err, repositories.ErrSessionNotFound) {
		return nil, nil, err
	}
	return session, user, nil
}

// Revoke deletes the session identified by the presented token and
// returns a snapshot of the revoked session.
func (s *SessionService) Revoke(ctx context.Context, userID int, token string) (*models.SessionToken, error) {
	session, err := s.sessionRepo.DeleteByUserAndToken(ctx, nil, userID, token)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	return session, nil
}

// RevokeAll deletes every session of the user and returns snapshots of
// the terminated sessions. An empty slice means nothing was active.
func (s *SessionService) RevokeAll(ctx context.Context, userID int) ([]*models.SessionToken, error) {
	return s.sessionRepo.DeleteAllByUser(ctx, nil, userID)
}

// ListDevices returns the user's sessions, token values excluded by
// the model's JSON mapping.
func (s *SessionService) ListDevices(ctx context.Context, userID int) ([]*models.SessionToken, error) {
	return s.sessionRepo.ListByUser(ctx, nil, userID)
}

func generateToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
