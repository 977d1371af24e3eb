package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/repositories"
)

// MatchBoard is the home-screen payload: the public board of joinable
// matches plus the caller's own upcoming and past matches.
type MatchBoard struct {
	Available []*models.Match `json:"available"`
	Upcoming  []*models.Match `json:"upcoming"`
	Past      []*models.Match `json:"past"`
}

// MatchDetail decorates a match with occupancy and the caller's own
// standing toward it.
type MatchDetail struct {
	Match          *models.Match `json:"match"`
	EnrolledCount  int           `json:"enrolled_count"`
	AvailableSlots int           `json:"available_slots"`
	IsEnrolled     bool          `json:"is_enrolled"`
	HasPaid        bool          `json:"has_paid"`
}

// MatchService is the read side of the match catalog plus the
// identifier-based join/leave entry points used by the HTTP layer.
type MatchService struct {
	matchRepo      repositories.MatchRepository
	enrollmentRepo repositories.EnrollmentRepository
	paymentRepo    repositories.PaymentRepository
	enrollments    *EnrollmentService
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	paymentRepo repositories.PaymentRepository,
	enrollments *EnrollmentService,
) *MatchService {
	return &MatchService{
		matchRepo:      matchRepo,
		enrollmentRepo: enrollmentRepo,
		paymentRepo:    paymentRepo,
		enrollments:    enrollments,
	}
}

// Board fetches the home-screen lists concurrently. userID 0 means an
// anonymous caller: the full public board, no personal sections.
func (s *MatchService) Board(ctx context.Context, userID int) (*MatchBoard, error) {
	now := time.Now().UTC()
	board := &MatchBoard{
		Upcoming: make([]*models.Match, 0),
		Past:     make([]*models.Match, 0),
	}

	if userID == 0 {
		matches, err := s.matchRepo.ListUpcomingPublished(ctx, nil, now, nil)
		if err != nil {
			return nil, err
		}
		board.Available = matches
		return board, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, err := s.matchRepo.ListUpcomingPublished(gctx, nil, now, &userID)
		board.Available = matches
		return err
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListEnrolledByUser(gctx, nil, userID, now, true)
		board.Upcoming = matches
		return err
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListEnrolledByUser(gctx, nil, userID, now, false)
		board.Past = matches
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return board, nil
}

// GetDetail resolves a match by its public identifier and annotates it
// with occupancy and the caller's enrollment/payment state. userID 0
// means anonymous: IsEnrolled and HasPaid stay false.
func (s *MatchService) GetDetail(ctx context.Context, userID int, identifier uuid.UUID) (*MatchDetail, error) {
	match, err := s.matchRepo.GetByIdentifier(ctx, nil, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	detail := &MatchDetail{Match: match}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.enrollmentRepo.CountActiveByMatch(gctx, nil, match.ID)
		detail.EnrolledCount = count
		return err
	})
	if userID != 0 {
		g.Go(func() error {
			enrolled, err := s.enrollmentRepo.ExistsActive(gctx, nil, match.ID, userID)
			detail.IsEnrolled = enrolled
			return err
		})
		g.Go(func() error {
			paid, err := s.paymentRepo.ExistsApproved(gctx, nil, userID, match.ID)
			detail.HasPaid = paid
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail.AvailableSlots = match.Capacity - detail.EnrolledCount
	if detail.AvailableSlots < 0 {
		detail.AvailableSlots = 0
	}
	return detail, nil
}

// Roster lists the active players of a match.
func (s *MatchService) Roster(ctx context.Context, identifier uuid.UUID) ([]*models.User, error) {
	match, err := s.matchRepo.GetByIdentifier(ctx, nil, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return s.enrollmentRepo.ListActivePlayers(ctx, nil, match.ID)
}

// JoinByIdentifier joins the caller into the match. Paid matches
// require an approved payment first; those joins normally happen in
// the webhook, so the direct path is the payment-already-approved
// retry case. Free matches join directly.
func (s *MatchService) JoinByIdentifier(ctx context.Context, userID int, identifier uuid.UUID) (*models.Match, *JoinResult, error) {
	match, err := s.matchRepo.GetByIdentifier(ctx, nil, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, err
	}

	if match.PriceAmount > 0 {
		paid, err := s.paymentRepo.ExistsApproved(ctx, nil, userID, match.ID)
		if err != nil {
			return nil, nil, err
		}
		if !paid {
			return nil, nil, ErrPaymentRequired
		}
	}

	result, err := s.enrollments.Join(ctx, userID, match.ID)
	if err != nil {
		return nil, nil, err
	}
	return match, result, nil
}

// LeaveByIdentifier cancels the caller's enrollment.
func (s *MatchService) LeaveByIdentifier(ctx context.Context, userID int, identifier uuid.UUID) (*models.Match, *LeaveResult, error) {
	match, err := s.matchRepo.GetByIdentifier(ctx, nil, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, err
	}

	result, err := s.enrollments.Leave(ctx, userID, match.ID)
	if err != nil {
		return nil, nil, err
	}
	return match, result, nil
}

// AvailableSlots recomputes current occupancy for a match, used when
// broadcasting slot updates to live watchers.
func (s *MatchService) AvailableSlots(ctx context.Context, matchID int) (int, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return 0, err
	}
	count, err := s.enrollmentRepo.CountActiveByMatch(ctx, nil, match.ID)
	if err != nil {
		return 0, err
	}
	slots := match.Capacity - count
	if slots < 0 {
		slots = 0
	}
	return slots, nil
}
