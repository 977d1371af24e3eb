package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pichanga-app/pichanga-backend/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListActive(ctx context.Context, exec SQLExecutor) ([]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	query := `SELECT id, name, badge_url, cover_url, is_active, created_at FROM teams WHERE id = $1`

	t := &models.Team{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.BadgeURL,
		&t.CoverURL,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) ListActive(ctx context.Context, exec SQLExecutor) ([]*models.Team, error) {
	query := `
		SELECT id, name, badge_url, cover_url, is_active, created_at
		FROM teams
		WHERE is_active = TRUE
		ORDER BY name ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t := &models.Team{}
		if err := rows.Scan(&t.ID, &t.Name, &t.BadgeURL, &t.CoverURL, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}
