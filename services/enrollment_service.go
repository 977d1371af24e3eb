package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/repositories"
)

// JoinResult reports the outcome of a join attempt. AvailableSlots is
// computed after the mutation, inside the same transaction.
type JoinResult struct {
	Joined         bool   `json:"joined"`
	Reason         string `json:"reason,omitempty"`
	AvailableSlots int    `json:"available_slots"`
}

type LeaveResult struct {
	Left           bool   `json:"left"`
	Reason         string `json:"reason,omitempty"`
	AvailableSlots int    `json:"available_slots"`
}

const (
	ReasonAlreadyEnrolled  = "already_enrolled"
	ReasonNotEnrolled      = "not_enrolled"
	ReasonAlreadyCancelled = "already_cancelled"
)

// EnrollmentService is the capacity-bounded join/leave state machine.
// Both operations take an exclusive lock on the match row for the
// duration of the transaction, so the capacity check and the write are
// atomic with respect to concurrent attempts.
type EnrollmentService struct {
	txm            repositories.TxManager
	matchRepo      repositories.MatchRepository
	enrollmentRepo repositories.EnrollmentRepository
	statRepo       repositories.StatRepository
}

func NewEnrollmentService(
	txm repositories.TxManager,
	matchRepo repositories.MatchRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	statRepo repositories.StatRepository,
) *EnrollmentService {
	return &EnrollmentService{
		txm:            txm,
		matchRepo:      matchRepo,
		enrollmentRepo: enrollmentRepo,
		statRepo:       statRepo,
	}
}

// Join enrolls the user in the match if there is room. Idempotent: a
// second join for the same (user, match) is a no-op reporting
// already_enrolled.
func (s *EnrollmentService) Join(ctx context.Context, userID, matchID int) (*JoinResult, error) {
	var result *JoinResult
	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var txErr error
		result, txErr = s.JoinWithinTx(ctx, exec, userID, matchID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// JoinWithinTx runs the join state machine on the caller's transaction.
// The payment webhook uses this variant so the enrollment happens in
// the same transaction that holds the payment row lock.
func (s *EnrollmentService) JoinWithinTx(ctx context.Context, exec repositories.SQLExecutor, userID, matchID int) (*JoinResult, error) {
	match, err := s.matchRepo.LockByID(ctx, exec, matchID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if match.Status != models.MatchStatusPublished {
		return nil, ErrMatchNotOpen
	}
	if !match.StartAt.After(now) {
		return nil, ErrMatchAlreadyStarted
	}

	enrollment, err := s.enrollmentRepo.FindByMatchAndUser(ctx, exec, matchID, userID)
	if err != nil && err != repositories.ErrEnrollmentNotFound {
		return nil, fmt.Errorf("failed to look up enrollment: %w", err)
	}

	if enrollment != nil && enrollment.IsActive {
		// Already enrolled: idempotent no-op, but make sure the stat
		// projection row exists.
		if err := s.statRepo.EnsureExists(ctx, exec, userID, matchID); err != nil {
			return nil, err
		}
		slots, err := s.availableSlots(ctx, exec, match)
		if err != nil {
			return nil, err
		}
		return &JoinResult{Joined: false, Reason: ReasonAlreadyEnrolled, AvailableSlots: slots}, nil
	}

	current, err := s.enrollmentRepo.CountActiveByMatch(ctx, exec, matchID)
	if err != nil {
		return nil, err
	}
	if current >= match.Capacity {
		return nil, ErrNoSlotsAvailable
	}

	if enrollment == nil {
		enrollment = &models.Enrollment{
			MatchID:  matchID,
			UserID:   userID,
			IsActive: true,
			JoinedAt: &now,
		}
		if err := s.enrollmentRepo.Create(ctx, exec, enrollment); err != nil {
			return nil, err
		}
	} else {
		// Previously cancelled: reactivate the same row.
		if err := s.enrollmentRepo.Activate(ctx, exec, enrollment.ID, now); err != nil {
			return nil, err
		}
	}

	if err := s.statRepo.EnsureExists(ctx, exec, userID, matchID); err != nil {
		return nil, err
	}

	slots, err := s.availableSlots(ctx, exec, match)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Joined: true, AvailableSlots: slots}, nil
}

// Leave cancels the user's enrollment. Idempotent for missing or
// already-cancelled rows.
func (s *EnrollmentService) Leave(ctx context.Context, userID, matchID int) (*LeaveResult, error) {
	var result *LeaveResult
	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var txErr error
		result, txErr = s.LeaveWithinTx(ctx, exec, userID, matchID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *EnrollmentService) LeaveWithinTx(ctx context.Context, exec repositories.SQLExecutor, userID, matchID int) (*LeaveResult, error) {
	match, err := s.matchRepo.LockByID(ctx, exec, matchID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.FindByMatchAndUser(ctx, exec, matchID, userID)
	if err != nil {
		if err == repositories.ErrEnrollmentNotFound {
			slots, slotsErr := s.availableSlots(ctx, exec, match)
			if slotsErr != nil {
				return nil, slotsErr
			}
			return &LeaveResult{Left: false, Reason: ReasonNotEnrolled, AvailableSlots: slots}, nil
		}
		return nil, fmt.Errorf("failed to look up enrollment: %w", err)
	}

	if !enrollment.IsActive {
		slots, err := s.availableSlots(ctx, exec, match)
		if err != nil {
			return nil, err
		}
		return &LeaveResult{Left: false, Reason: ReasonAlreadyCancelled, AvailableSlots: slots}, nil
	}

	now := time.Now().UTC()
	if err := s.enrollmentRepo.Deactivate(ctx, exec, enrollment.ID, now); err != nil {
		return nil, err
	}
	// Stat projection is lifecycle-bound to the enrollment, same tx.
	if err := s.statRepo.DeleteByMatchAndUser(ctx, exec, matchID, userID); err != nil {
		return nil, err
	}

	slots, err := s.availableSlots(ctx, exec, match)
	if err != nil {
		return nil, err
	}
	return &LeaveResult{Left: true, AvailableSlots: slots}, nil
}

func (s *EnrollmentService) availableSlots(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (int, error) {
	count, err := s.enrollmentRepo.CountActiveByMatch(ctx, exec, match.ID)
	if err != nil {
		return 0, err
	}
	slots := match.Capacity - count
	if slots < 0 {
		slots = 0
	}
	return slots, nil
}
