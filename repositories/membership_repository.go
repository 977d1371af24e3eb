package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pichanga-app/pichanga-backend/models"
)

var (
	ErrMembershipNotFound = errors.New("team membership not found")
	// ErrMembershipOpenConflict maps the partial unique index that
	// allows at most one open (date_to IS NULL) row per user.
	ErrMembershipOpenConflict = errors.New("membership conflict: user already has an open membership")
)

type MembershipRepository interface {
	Create(ctx context.Context, exec SQLExecutor, m *models.TeamMembership) error
	FindOpenByUser(ctx context.Context, exec SQLExecutor, userID int) (*models.TeamMembership, error)
	// CloseOpenForUser stamps date_to on the user's open row, if any.
	// Returns the number of rows closed (0 or 1).
	CloseOpenForUser(ctx context.Context, exec SQLExecutor, userID int, dateTo time.Time) (int, error)
	ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.TeamMembership, error)
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMembershipRepository) Create(ctx context.Context, exec SQLExecutor, m *models.TeamMembership) error {
	query := `
		INSERT INTO team_memberships (user_id, team_id, date_from, date_to)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		m.UserID,
		m.TeamID,
		m.DateFrom,
		m.DateTo,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "uniq_user_active_membership" {
				return ErrMembershipOpenConflict
			}
		}
		return fmt.Errorf("failed to create team membership: %w", err)
	}
	return nil
}

func (r *postgresMembershipRepository) FindOpenByUser(ctx context.Context, exec SQLExecutor, userID int) (*models.TeamMembership, error) {
	query := `
		SELECT id, user_id, team_id, date_from, date_to, created_at
		FROM team_memberships
		WHERE user_id = $1 AND date_to IS NULL`

	m := &models.TeamMembership{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, userID).Scan(
		&m.ID,
		&m.UserID,
		&m.TeamID,
		&m.DateFrom,
		&m.DateTo,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find open membership: %w", err)
	}
	return m, nil
}

func (r *postgresMembershipRepository) CloseOpenForUser(ctx context.Context, exec SQLExecutor, userID int, dateTo time.Time) (int, error) {
	query := `
		UPDATE team_memberships
		SET date_to = $1
		WHERE user_id = $2 AND date_to IS NULL`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, dateTo, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to close open membership: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return int(rowsAffected), nil
}

func (r *postgresMembershipRepository) ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.TeamMembership, error) {
	query := `
		SELECT tm.id, tm.user_id, tm.team_id, tm.date_from, tm.date_to, tm.created_at,
		       t.id, t.name, t.badge_url, t.cover_url, t.is_active, t.created_at
		FROM team_memberships tm
		JOIN teams t ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY tm.date_from DESC, tm.id DESC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	memberships := make([]*models.TeamMembership, 0)
	for rows.Next() {
		m := &models.TeamMembership{}
		t := &models.Team{}
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.TeamID, &m.DateFrom, &m.DateTo, &m.CreatedAt,
			&t.ID, &t.Name, &t.BadgeURL, &t.CoverURL, &t.IsActive, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		m.Team = t
		memberships = append(memberships, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}
	return memberships, nil
}
