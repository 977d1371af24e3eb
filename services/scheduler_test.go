package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pichanga-app/pichanga-backend/models"
)

func TestSweepFinishesEndedMatches(t *testing.T) {
	ended := publishedMatch(1, 10)
	ended.StartAt = time.Now().Add(-2 * time.Hour)
	ended.DurationMinutes = 60

	running := publishedMatch(2, 10)
	running.StartAt = time.Now().Add(-30 * time.Minute)
	running.DurationMinutes = 90

	upcoming := publishedMatch(3, 10)

	draft := publishedMatch(4, 10)
	draft.StartAt = time.Now().Add(-3 * time.Hour)
	draft.Status = models.MatchStatusDraft

	matchRepo := newFakeMatchRepo(ended, running, upcoming, draft)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	finisher, err := NewMatchFinisher(matchRepo, logger, time.Minute)
	if err != nil {
		t.Fatalf("NewMatchFinisher failed: %v", err)
	}

	n, err := finisher.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 finished match, got %d", n)
	}

	check := func(id int, want models.MatchStatus) {
		m, _ := matchRepo.GetByID(context.Background(), nil, id)
		if m.Status != want {
			t.Errorf("match %d: status %s, want %s", id, m.Status, want)
		}
	}
	check(1, models.MatchStatusFinished)
	check(2, models.MatchStatusPublished)
	check(3, models.MatchStatusPublished)
	check(4, models.MatchStatusDraft)
}
