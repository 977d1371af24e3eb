package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pichanga-app/pichanga-backend/models"
)

var ErrStatNotFound = errors.New("player match stat not found")

type StatRepository interface {
	// EnsureExists creates the (user, match) row if it is missing.
	// Safe to call on the idempotent re-join path.
	EnsureExists(ctx context.Context, exec SQLExecutor, userID, matchID int) error
	DeleteByMatchAndUser(ctx context.Context, exec SQLExecutor, matchID, userID int) error
	UpdateResult(ctx context.Context, exec SQLExecutor, userID, matchID int, goals int, isWinner models.WinnerResult, isMVP bool, notes string) error
	ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.PlayerMatchStat, error)
	SummaryByUser(ctx context.Context, exec SQLExecutor, userID int) (*models.StatsSummary, error)
}

type postgresStatRepository struct {
	db *sql.DB
}

func NewPostgresStatRepository(db *sql.DB) StatRepository {
	return &postgresStatRepository{db: db}
}

func (r *postgresStatRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStatRepository) EnsureExists(ctx context.Context, exec SQLExecutor, userID, matchID int) error {
	query := `
		INSERT INTO player_match_stats (user_id, match_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, match_id) DO NOTHING`

	if _, err := r.getExecutor(exec).ExecContext(ctx, query, userID, matchID); err != nil {
		return fmt.Errorf("failed to ensure player match stat: %w", err)
	}
	return nil
}

func (r *postgresStatRepository) DeleteByMatchAndUser(ctx context.Context, exec SQLExecutor, matchID, userID int) error {
	query := `DELETE FROM player_match_stats WHERE match_id = $1 AND user_id = $2`
	if _, err := r.getExecutor(exec).ExecContext(ctx, query, matchID, userID); err != nil {
		return fmt.Errorf("failed to delete player match stat: %w", err)
	}
	return nil
}

func (r *postgresStatRepository) UpdateResult(ctx context.Context, exec SQLExecutor, userID, matchID int, goals int, isWinner models.WinnerResult, isMVP bool, notes string) error {
	query := `
		UPDATE player_match_stats
		SET goals = $1, is_winner = $2, is_mvp = $3, notes = $4, updated_at = NOW()
		WHERE user_id = $5 AND match_id = $6`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, goals, isWinner, isMVP, notes, userID, matchID)
	if err != nil {
		return fmt.Errorf("failed to update player match stat: %w", err)
	}
	return checkAffectedRows(result, ErrStatNotFound)
}

func (r *postgresStatRepository) ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.PlayerMatchStat, error) {
	query := `
		SELECT s.id, s.user_id, s.match_id, s.goals, s.is_winner, s.is_mvp, s.notes, s.created_at, s.updated_at,
		       m.id, m.match_identifier, m.title, m.start_at, m.status
		FROM player_match_stats s
		JOIN matches m ON s.match_id = m.id
		WHERE s.user_id = $1
		ORDER BY m.start_at DESC, s.id DESC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player match stats: %w", err)
	}
	defer rows.Close()

	stats := make([]*models.PlayerMatchStat, 0)
	for rows.Next() {
		s := &models.PlayerMatchStat{}
		m := &models.Match{}
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.MatchID, &s.Goals, &s.IsWinner, &s.IsMVP, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
			&m.ID, &m.Identifier, &m.Title, &m.StartAt, &m.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stat row: %w", err)
		}
		s.Match = m
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stat rows: %w", err)
	}
	return stats, nil
}

func (r *postgresStatRepository) SummaryByUser(ctx context.Context, exec SQLExecutor, userID int) (*models.StatsSummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(goals), 0),
		       COUNT(*) FILTER (WHERE is_winner = 'won'),
		       COUNT(*) FILTER (WHERE is_mvp)
		FROM player_match_stats
		WHERE user_id = $1`

	summary := &models.StatsSummary{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, userID).Scan(
		&summary.MatchesPlayed,
		&summary.TotalGoals,
		&summary.Wins,
		&summary.MVPCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats summary: %w", err)
	}
	return summary, nil
}
