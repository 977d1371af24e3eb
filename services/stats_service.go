package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/repositories"
)

// ResultInput is an administrator's recorded outcome for one player in
// one match. UserID names the player whose stat row is written.
type ResultInput struct {
	UserID   int                 `json:"user_id"`
	Goals    int                 `json:"goals"`
	IsWinner models.WinnerResult `json:"is_winner"`
	IsMVP    bool                `json:"is_mvp"`
	Notes    string              `json:"notes"`
}

type StatsService struct {
	statRepo  repositories.StatRepository
	matchRepo repositories.MatchRepository
}

func NewStatsService(statRepo repositories.StatRepository, matchRepo repositories.MatchRepository) *StatsService {
	return &StatsService{statRepo: statRepo, matchRepo: matchRepo}
}

// Summary returns the player's aggregate totals.
func (s *StatsService) Summary(ctx context.Context, userID int) (*models.StatsSummary, error) {
	return s.statRepo.SummaryByUser(ctx, nil, userID)
}

// Matches returns the player's per-match history rows.
func (s *StatsService) Matches(ctx context.Context, userID int) ([]*models.PlayerMatchStat, error) {
	return s.statRepo.ListByUser(ctx, nil, userID)
}

// RecordResult writes the outcome fields of an existing stat row. The
// row itself is created by enrollment, never here.
func (s *StatsService) RecordResult(ctx context.Context, matchIdentifier uuid.UUID, input ResultInput) error {
	if input.UserID <= 0 {
		return ErrValidationFailed
	}
	if !input.IsWinner.Valid() {
		return ErrInvalidWinnerResult
	}
	if input.Goals < 0 {
		return ErrValidationFailed
	}

	match, err := s.matchRepo.GetByIdentifier(ctx, nil, matchIdentifier)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}

	err = s.statRepo.UpdateResult(ctx, nil, input.UserID, match.ID, input.Goals, input.IsWinner, input.IsMVP, input.Notes)
	if err != nil {
		if errors.Is(err, repositories.ErrStatNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
