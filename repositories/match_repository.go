package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pichanga-app/pichanga-backend/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	GetByIdentifier(ctx context.Context, exec SQLExecutor, identifier uuid.UUID) (*models.Match, error)
	// LockByID reads the match row with SELECT ... FOR UPDATE. The lock
	// is held for the remainder of the transaction exec belongs to; it
	// is the mechanism that serializes capacity checks per match.
	LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListUpcomingPublished(ctx context.Context, exec SQLExecutor, now time.Time, excludeUserID *int) ([]*models.Match, error)
	ListEnrolledByUser(ctx context.Context, exec SQLExecutor, userID int, now time.Time, upcoming bool) ([]*models.Match, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	ListPublishedEndedBefore(ctx context.Context, exec SQLExecutor, cutoff time.Time) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	m.id, m.match_identifier, m.title, m.location_id, m.start_at, m.duration_minutes,
	m.capacity, m.price_amount, m.price_currency, m.status, m.created_at,
	l.district, l.address, l.maps_url, l.field_name`

const matchFromJoin = `
	FROM matches m
	LEFT JOIN locations l ON m.location_id = l.id`

func scanMatch(rowScanner interface {
	Scan(dest ...interface{}) error
}) (*models.Match, error) {
	m := &models.Match{}
	var district, address, mapsURL, fieldName sql.NullString
	err := rowScanner.Scan(
		&m.ID,
		&m.Identifier,
		&m.Title,
		&m.LocationID,
		&m.StartAt,
		&m.DurationMinutes,
		&m.Capacity,
		&m.PriceAmount,
		&m.PriceCurrency,
		&m.Status,
		&m.CreatedAt,
		&district,
		&address,
		&mapsURL,
		&fieldName,
	)
	if err != nil {
		return nil, err
	}
	if m.LocationID != nil {
		m.Location = &models.Location{
			ID:        *m.LocationID,
			District:  district.String,
			Address:   address.String,
			MapsURL:   mapsURL.String,
			FieldName: fieldName.String,
		}
	}
	return m, nil
}

func (r *postgresMatchRepository) findOne(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.Match, error) {
	row := r.getExecutor(exec).QueryRowContext(ctx, query, args...)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT` + matchColumns + matchFromJoin + ` WHERE m.id = $1`
	return r.findOne(ctx, exec, query, id)
}

func (r *postgresMatchRepository) GetByIdentifier(ctx context.Context, exec SQLExecutor, identifier uuid.UUID) (*models.Match, error) {
	query := `SELECT` + matchColumns + matchFromJoin + ` WHERE m.match_identifier = $1`
	return r.findOne(ctx, exec, query, identifier)
}

func (r *postgresMatchRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	// No join here: FOR UPDATE must target only the matches row.
	query := `
		SELECT id, match_identifier, title, location_id, start_at, duration_minutes,
		       capacity, price_amount, price_currency, status, created_at
		FROM matches
		WHERE id = $1
		FOR UPDATE`

	m := &models.Match{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.Identifier,
		&m.Title,
		&m.LocationID,
		&m.StartAt,
		&m.DurationMinutes,
		&m.Capacity,
		&m.PriceAmount,
		&m.PriceCurrency,
		&m.Status,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to lock match %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) listMatches(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListUpcomingPublished(ctx context.Context, exec SQLExecutor, now time.Time, excludeUserID *int) ([]*models.Match, error) {
	query := `SELECT` + matchColumns + matchFromJoin + `
		WHERE m.status = $1 AND m.start_at > $2`
	args := []interface{}{models.MatchStatusPublished, now}

	// A match the caller is already enrolled in is shown in the "my"
	// sections, not the public board.
	if excludeUserID != nil {
		query += `
		AND NOT EXISTS (
			SELECT 1 FROM enrollments e
			WHERE e.match_id = m.id AND e.user_id = $3 AND e.is_active = TRUE
		)`
		args = append(args, *excludeUserID)
	}
	query += ` ORDER BY m.start_at ASC`

	return r.listMatches(ctx, exec, query, args...)
}

func (r *postgresMatchRepository) ListEnrolledByUser(ctx context.Context, exec SQLExecutor, userID int, now time.Time, upcoming bool) ([]*models.Match, error) {
	query := `SELECT` + matchColumns + matchFromJoin + `
		JOIN enrollments e ON e.match_id = m.id
		WHERE e.user_id = $1 AND e.is_active = TRUE`
	if upcoming {
		query += ` AND m.start_at > $2 ORDER BY m.start_at ASC`
	} else {
		query += ` AND m.start_at <= $2 ORDER BY m.start_at DESC`
	}
	return r.listMatches(ctx, exec, query, userID, now)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	query := `UPDATE matches SET status = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) ListPublishedEndedBefore(ctx context.Context, exec SQLExecutor, cutoff time.Time) ([]*models.Match, error) {
	query := `SELECT` + matchColumns + matchFromJoin + `
		WHERE m.status = $1
		AND m.start_at + (m.duration_minutes * INTERVAL '1 minute') <= $2
		ORDER BY m.start_at ASC`
	return r.listMatches(ctx, exec, query, models.MatchStatusPublished, cutoff)
}
