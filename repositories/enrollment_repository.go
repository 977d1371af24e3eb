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
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrEnrollmentConflict = errors.New("enrollment conflict: user already has a row for this match")
)

type EnrollmentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, e *models.Enrollment) error
	FindByMatchAndUser(ctx context.Context, exec SQLExecutor, matchID, userID int) (*models.Enrollment, error)
	ExistsActive(ctx context.Context, exec SQLExecutor, matchID, userID int) (bool, error)
	CountActiveByMatch(ctx context.Context, exec SQLExecutor, matchID int) (int, error)
	Activate(ctx context.Context, exec SQLExecutor, id int, joinedAt time.Time) error
	Deactivate(ctx context.Context, exec SQLExecutor, id int, cancelledAt time.Time) error
	// ListActivePlayers returns the users actively enrolled in a match,
	// in join order.
	ListActivePlayers(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.User, error)
}

type postgresEnrollmentRepository struct {
	db *sql.DB
}

func NewPostgresEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &postgresEnrollmentRepository{db: db}
}

func (r *postgresEnrollmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEnrollmentRepository) Create(ctx context.Context, exec SQLExecutor, e *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (match_id, user_id, is_active, joined_at, cancelled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		e.MatchID,
		e.UserID,
		e.IsActive,
		e.JoinedAt,
		e.CancelledAt,
	).Scan(&e.ID, &e.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "enrollments_match_id_user_id_key" {
				return ErrEnrollmentConflict
			}
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *postgresEnrollmentRepository) FindByMatchAndUser(ctx context.Context, exec SQLExecutor, matchID, userID int) (*models.Enrollment, error) {
	query := `
		SELECT id, match_id, user_id, is_active, joined_at, cancelled_at, created_at
		FROM enrollments
		WHERE match_id = $1 AND user_id = $2`

	e := &models.Enrollment{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, matchID, userID).Scan(
		&e.ID,
		&e.MatchID,
		&e.UserID,
		&e.IsActive,
		&e.JoinedAt,
		&e.CancelledAt,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	return e, nil
}

func (r *postgresEnrollmentRepository) ExistsActive(ctx context.Context, exec SQLExecutor, matchID, userID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM enrollments
			WHERE match_id = $1 AND user_id = $2 AND is_active = TRUE
		)`

	var exists bool
	err := r.getExecutor(exec).QueryRowContext(ctx, query, matchID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active enrollment: %w", err)
	}
	return exists, nil
}

func (r *postgresEnrollmentRepository) CountActiveByMatch(ctx context.Context, exec SQLExecutor, matchID int) (int, error) {
	query := `SELECT COUNT(*) FROM enrollments WHERE match_id = $1 AND is_active = TRUE`

	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx, query, matchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active enrollments: %w", err)
	}
	return count, nil
}

func (r *postgresEnrollmentRepository) Activate(ctx context.Context, exec SQLExecutor, id int, joinedAt time.Time) error {
	query := `
		UPDATE enrollments
		SET is_active = TRUE, joined_at = $1, cancelled_at = NULL
		WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, joinedAt, id)
	if err != nil {
		return fmt.Errorf("failed to activate enrollment: %w", err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}

func (r *postgresEnrollmentRepository) ListActivePlayers(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.User, error) {
	query := `
		SELECT u.id, u.email, u.document_type, u.document_number, u.first_name, u.last_name,
		       u.phone, u.photo_url, u.team_id, u.is_active, u.password_hash, u.created_at
		FROM enrollments e
		JOIN users u ON e.user_id = u.id
		WHERE e.match_id = $1 AND e.is_active = TRUE
		ORDER BY e.joined_at ASC, e.id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list match players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.User, 0)
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(
			&u.ID, &u.Email, &u.DocumentType, &u.DocumentNumber, &u.FirstName, &u.LastName,
			&u.Phone, &u.PhotoURL, &u.TeamID, &u.IsActive, &u.PasswordHash, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}

func (r *postgresEnrollmentRepository) Deactivate(ctx context.Context, exec SQLExecutor, id int, cancelledAt time.Time) error {
	query := `
		UPDATE enrollments
		SET is_active = FALSE, cancelled_at = $1
		WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, cancelledAt, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate enrollment: %w", err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}
