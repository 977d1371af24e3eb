package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pichanga-app/pichanga-backend/models"
)

type PromoRepository interface {
	ListActiveBanners(ctx context.Context, exec SQLExecutor) ([]*models.Banner, error)
	ListActiveSponsors(ctx context.Context, exec SQLExecutor) ([]*models.Sponsor, error)
}

type postgresPromoRepository struct {
	db *sql.DB
}

func NewPostgresPromoRepository(db *sql.DB) PromoRepository {
	return &postgresPromoRepository{db: db}
}

func (r *postgresPromoRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPromoRepository) ListActiveBanners(ctx context.Context, exec SQLExecutor) ([]*models.Banner, error) {
	query := `
		SELECT id, title, description, image_url, path, display_order, is_active, created_at
		FROM banners
		WHERE is_active = TRUE
		ORDER BY display_order ASC, id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer rows.Close()

	banners := make([]*models.Banner, 0)
	for rows.Next() {
		b := &models.Banner{}
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.ImageURL, &b.Path, &b.Order, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan banner row: %w", err)
		}
		banners = append(banners, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating banner rows: %w", err)
	}
	return banners, nil
}

func (r *postgresPromoRepository) ListActiveSponsors(ctx context.Context, exec SQLExecutor) ([]*models.Sponsor, error) {
	query := `
		SELECT id, title, image_url, display_order, is_active, created_at
		FROM sponsors
		WHERE is_active = TRUE
		ORDER BY display_order ASC, id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}
	defer rows.Close()

	sponsors := make([]*models.Sponsor, 0)
	for rows.Next() {
		s := &models.Sponsor{}
		if err := rows.Scan(&s.ID, &s.Title, &s.ImageURL, &s.Order, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor row: %w", err)
		}
		sponsors = append(sponsors, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sponsor rows: %w", err)
	}
	return sponsors, nil
}
