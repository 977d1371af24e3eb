package services

import (
	"context"
	"testing"
)

func newMatchFixture(matchRepo *fakeMatchRepo) (*MatchService, *fakeEnrollmentRepo, *fakePaymentRepo) {
	enrollmentRepo := newFakeEnrollmentRepo()
	paymentRepo := newFakePaymentRepo()
	enrollments := NewEnrollmentService(&fakeTxManager{}, matchRepo, enrollmentRepo, newFakeStatRepo())
	svc := NewMatchService(matchRepo, enrollmentRepo, paymentRepo, enrollments)
	return svc, enrollmentRepo, paymentRepo
}

func TestBoardAnonymousServesPublicListOnly(t *testing.T) {
	matchRepo := newFakeMatchRepo(publishedMatch(1, 10), publishedMatch(2, 8))
	svc, _, _ := newMatchFixture(matchRepo)

	board, err := svc.Board(context.Background(), 0)
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if len(board.Available) != 2 {
		t.Errorf("expected 2 available matches, got %d", len(board.Available))
	}
	if len(board.Upcoming) != 0 || len(board.Past) != 0 {
		t.Error("anonymous board must have empty personal sections")
	}
	if matchRepo.lastExclude != nil {
		t.Error("anonymous board must not filter by enrollment")
	}
	if matchRepo.enrolledCalls != 0 {
		t.Errorf("anonymous board queried personal sections %d times", matchRepo.enrolledCalls)
	}
}

func TestBoardAuthenticatedFiltersOwnMatches(t *testing.T) {
	matchRepo := newFakeMatchRepo(publishedMatch(1, 10))
	svc, _, _ := newMatchFixture(matchRepo)

	board, err := svc.Board(context.Background(), 7)
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if board.Available == nil {
		t.Fatal("available list missing")
	}
	if matchRepo.lastExclude == nil || *matchRepo.lastExclude != 7 {
		t.Errorf("expected board to exclude caller's matches, got %v", matchRepo.lastExclude)
	}
	if matchRepo.enrolledCalls != 2 {
		t.Errorf("expected upcoming and past queries, got %d", matchRepo.enrolledCalls)
	}
}

func TestGetDetailAnonymousOmitsPersonalFlags(t *testing.T) {
	match := publishedMatch(1, 10)
	matchRepo := newFakeMatchRepo(match)
	svc, enrollmentRepo, _ := newMatchFixture(matchRepo)
	ctx := context.Background()

	// Someone else is enrolled; the anonymous caller is not.
	enrollments := NewEnrollmentService(&fakeTxManager{}, matchRepo, enrollmentRepo, newFakeStatRepo())
	if _, err := enrollments.Join(ctx, 9, match.ID); err != nil {
		t.Fatalf("setup join failed: %v", err)
	}

	detail, err := svc.GetDetail(ctx, 0, match.Identifier)
	if err != nil {
		t.Fatalf("GetDetail failed: %v", err)
	}
	if detail.EnrolledCount != 1 {
		t.Errorf("enrolled count = %d, want 1", detail.EnrolledCount)
	}
	if detail.AvailableSlots != 9 {
		t.Errorf("available slots = %d, want 9", detail.AvailableSlots)
	}
	if detail.IsEnrolled || detail.HasPaid {
		t.Error("anonymous detail must not carry personal flags")
	}
}
