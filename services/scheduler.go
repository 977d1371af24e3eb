package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/repositories"
)

// MatchFinisher periodically sweeps published matches whose end time
// (start_at + duration) has passed and marks them finished. Stats stay
// editable after the transition; only enrollment closes.
type MatchFinisher struct {
	matchRepo repositories.MatchRepository
	logger    *slog.Logger
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewMatchFinisher(matchRepo repositories.MatchRepository, logger *slog.Logger, interval time.Duration) (*MatchFinisher, error) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &MatchFinisher{
		matchRepo: matchRepo,
		logger:    logger,
		interval:  interval,
		scheduler: scheduler,
	}, nil
}

// Start registers the sweep job and begins running it.
func (f *MatchFinisher) Start(ctx context.Context) error {
	_, err := f.scheduler.NewJob(
		gocron.DurationJob(f.interval),
		gocron.NewTask(func() {
			if n, err := f.Sweep(ctx); err != nil {
				f.logger.Error("match finish sweep failed", "error", err)
			} else if n > 0 {
				f.logger.Info("matches marked finished", "count", n)
			}
		}),
	)
	if err != nil {
		return err
	}
	f.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep.
func (f *MatchFinisher) Stop() error {
	return f.scheduler.Shutdown()
}

// Sweep runs one pass and returns how many matches were finished.
func (f *MatchFinisher) Sweep(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	matches, err := f.matchRepo.ListPublishedEndedBefore(ctx, nil, now)
	if err != nil {
		return 0, err
	}

	finished := 0
	for _, match := range matches {
		if err := f.matchRepo.UpdateStatus(ctx, nil, match.ID, models.MatchStatusFinished); err != nil {
			f.logger.Error("failed to finish match",
				"match_identifier", match.Identifier, "error", err)
			continue
		}
		finished++
	}
	return finished, nil
}
