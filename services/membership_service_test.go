package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pichanga-app/pichanga-backend/models"
)

func newMembershipFixture() (*MembershipService, *fakeMembershipRepo, *fakeUserRepo) {
	teams := newFakeTeamRepo(
		&models.Team{ID: 1, Name: "Los Tigres", IsActive: true},
		&models.Team{ID: 2, Name: "Alianza Barrio", IsActive: true},
		&models.Team{ID: 3, Name: "Extinto FC", IsActive: false},
	)
	membershipRepo := newFakeMembershipRepo()
	userRepo := newFakeUserRepo(activeUser(1))
	loc, _ := time.LoadLocation("America/Lima")
	svc := NewMembershipService(&fakeTxManager{}, membershipRepo, teams, userRepo, loc)
	return svc, membershipRepo, userRepo
}

func TestSetCurrentTeamOpensLedgerRow(t *testing.T) {
	svc, _, userRepo := newMembershipFixture()
	ctx := context.Background()

	m, err := svc.SetCurrentTeam(ctx, 1, 1)
	if err != nil {
		t.Fatalf("SetCurrentTeam failed: %v", err)
	}
	if m.DateTo != nil {
		t.Error("new membership must be open")
	}
	if m.Team == nil || m.Team.ID != 1 {
		t.Errorf("team not embedded: %+v", m.Team)
	}
	user, _ := userRepo.GetByID(ctx, nil, 1)
	if user.TeamID == nil || *user.TeamID != 1 {
		t.Errorf("users.team_id not synced: %v", user.TeamID)
	}
}

func TestSwitchTeamClosesPreviousRow(t *testing.T) {
	svc, membershipRepo, _ := newMembershipFixture()
	ctx := context.Background()

	if _, err := svc.SetCurrentTeam(ctx, 1, 1); err != nil {
		t.Fatalf("first set failed: %v", err)
	}
	if _, err := svc.SetCurrentTeam(ctx, 1, 2); err != nil {
		t.Fatalf("switch failed: %v", err)
	}

	history, _ := membershipRepo.ListByUser(ctx, nil, 1)
	if len(history) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(history))
	}
	open := 0
	for _, m := range history {
		if m.DateTo == nil {
			open++
			if m.TeamID != 2 {
				t.Errorf("open row points at team %d, want 2", m.TeamID)
			}
		}
	}
	if open != 1 {
		t.Errorf("expected exactly 1 open row, got %d", open)
	}
}

func TestSetSameTeamIsNoOp(t *testing.T) {
	svc, membershipRepo, _ := newMembershipFixture()
	ctx := context.Background()

	first, err := svc.SetCurrentTeam(ctx, 1, 1)
	if err != nil {
		t.Fatalf("first set failed: %v", err)
	}
	second, err := svc.SetCurrentTeam(ctx, 1, 1)
	if err != nil {
		t.Fatalf("repeat set failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("repeat set created a new row: %d != %d", first.ID, second.ID)
	}
	history, _ := membershipRepo.ListByUser(ctx, nil, 1)
	if len(history) != 1 {
		t.Errorf("expected 1 ledger row, got %d", len(history))
	}
}

func TestSetCurrentTeamRejectsInactiveOrUnknownTeam(t *testing.T) {
	svc, _, _ := newMembershipFixture()
	ctx := context.Background()

	if _, err := svc.SetCurrentTeam(ctx, 1, 3); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("inactive team: expected ErrTeamNotFound, got %v", err)
	}
	if _, err := svc.SetCurrentTeam(ctx, 1, 999); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("unknown team: expected ErrTeamNotFound, got %v", err)
	}
}

func TestClearCurrentTeam(t *testing.T) {
	svc, membershipRepo, userRepo := newMembershipFixture()
	ctx := context.Background()

	if _, err := svc.SetCurrentTeam(ctx, 1, 1); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	closed, err := svc.ClearCurrentTeam(ctx, 1)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if closed != 1 {
		t.Errorf("expected 1 closed row, got %d", closed)
	}

	if _, err := membershipRepo.FindOpenByUser(ctx, nil, 1); err == nil {
		t.Error("open row should be gone after clear")
	}
	user, _ := userRepo.GetByID(ctx, nil, 1)
	if user.TeamID != nil {
		t.Errorf("users.team_id not cleared: %v", user.TeamID)
	}

	// Clearing with no team is a no-op.
	closed, err = svc.ClearCurrentTeam(ctx, 1)
	if err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
	if closed != 0 {
		t.Errorf("expected 0 closed rows, got %d", closed)
	}
}
