package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pichanga-app/pichanga-backend/models"
)

var ErrSessionNotFound = errors.New("session token not found")

type SessionRepository interface {
	// Upsert creates or replaces the session row for (user, device),
	// regenerating the token value and refreshing client metadata.
	Upsert(ctx context.Context, exec SQLExecutor, s *models.SessionToken) error
	// GetByToken returns the session and its owning user in one read.
	GetByToken(ctx context.Context, exec SQLExecutor, token string) (*models.SessionToken, *models.User, error)
	TouchLastSeen(ctx context.Context, exec SQLExecutor, id int) error
	// DeleteByUserAndToken removes exactly one session and returns the
	// deleted row as a snapshot for the revocation response.
	DeleteByUserAndToken(ctx context.Context, exec SQLExecutor, userID int, token string) (*models.SessionToken, error)
	ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.SessionToken, error)
	// DeleteAllByUser removes every session of the user and returns the
	// deleted rows as snapshots.
	DeleteAllByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.SessionToken, error)
}

type postgresSessionRepository struct {
	db *sql.DB
}

func NewPostgresSessionRepository(db *sql.DB) SessionRepository {
	return &postgresSessionRepository{db: db}
}

func (r *postgresSessionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSessionRepository) Upsert(ctx context.Context, exec SQLExecutor, s *models.SessionToken) error {
	query := `
		INSERT INTO session_tokens (user_id, device_id, token, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, device_id) DO UPDATE
		SET token = EXCLUDED.token,
		    ip_address = EXCLUDED.ip_address,
		    user_agent = EXCLUDED.user_agent,
		    last_seen = NOW()
		RETURNING id, created_at, last_seen`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		s.UserID,
		s.DeviceID,
		s.Token,
		s.IPAddress,
		s.UserAgent,
	).Scan(&s.ID, &s.CreatedAt, &s.LastSeen)

	if err != nil {
		return fmt.Errorf("failed to upsert session token: %w", err)
	}
	return nil
}

func (r *postgresSessionRepository) GetByToken(ctx context.Context, exec SQLExecutor, token string) (*models.SessionToken, *models.User, error) {
	query := `
		SELECT s.id, s.user_id, s.device_id, s.token, s.ip_address, s.user_agent, s.created_at, s.last_seen,
		       u.id, u.email, u.document_type, u.document_number, u.first_name, u.last_name,
		       u.phone, u.photo_url, u.team_id, u.is_active, u.role, u.password_hash, u.created_at
		FROM session_tokens s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = $1`

	s := &models.SessionToken{}
	u := &models.User{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, token).Scan(
		&s.ID, &s.UserID, &s.DeviceID, &s.Token, &s.IPAddress, &s.UserAgent, &s.CreatedAt, &s.LastSeen,
		&u.ID, &u.Email, &u.DocumentType, &u.DocumentNumber, &u.FirstName, &u.LastName,
		&u.Phone, &u.PhotoURL, &u.TeamID, &u.IsActive, &u.Role, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("failed to find session token: %w", err)
	}
	return s, u, nil
}

func (r *postgresSessionRepository) TouchLastSeen(ctx context.Context, exec SQLExecutor, id int) error {
	query := `UPDATE session_tokens SET last_seen = NOW() WHERE id = $1`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to refresh session last_seen: %w", err)
	}
	return checkAffectedRows(result, ErrSessionNotFound)
}

func (r *postgresSessionRepository) DeleteByUserAndToken(ctx context.Context, exec SQLExecutor, userID int, token string) (*models.SessionToken, error) {
	query := `
		DELETE FROM session_tokens
		WHERE user_id = $1 AND token = $2
		RETURNING id, user_id, device_id, token, ip_address, user_agent, created_at, last_seen`

	s := &models.SessionToken{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, userID, token).Scan(
		&s.ID, &s.UserID, &s.DeviceID, &s.Token, &s.IPAddress, &s.UserAgent, &s.CreatedAt, &s.LastSeen,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to delete session token: %w", err)
	}
	return s, nil
}

func (r *postgresSessionRepository) ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.SessionToken, error) {
	query := `
		SELECT id, user_id, device_id, token, ip_address, user_agent, created_at, last_seen
		FROM session_tokens
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session tokens: %w", err)
	}
	defer rows.Close()

	sessions := make([]*models.SessionToken, 0)
	for rows.Next() {
		s := &models.SessionToken{}
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.DeviceID, &s.Token, &s.IPAddress, &s.UserAgent, &s.CreatedAt, &s.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}

func (r *postgresSessionRepository) DeleteAllByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.SessionToken, error) {
	query := `
		DELETE FROM session_tokens
		WHERE user_id = $1
		RETURNING id, user_id, device_id, token, ip_address, user_agent, created_at, last_seen`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete session tokens: %w", err)
	}
	defer rows.Close()

	sessions := make([]*models.SessionToken, 0)
	for rows.Next() {
		s := &models.SessionToken{}
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.DeviceID, &s.Token, &s.IPAddress, &s.UserAgent, &s.CreatedAt, &s.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deleted session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deleted session rows: %w", err)
	}
	return sessions, nil
}
