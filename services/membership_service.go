package services

import (
	"context"
	"errors"
	"time"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/repositories"
)

// MembershipService keeps the team ledger (team_memberships) and the
// users.team_id pointer in sync. At most one open ledger row per user,
// enforced by a partial unique index and closed-then-opened inside one
// transaction.
type MembershipService struct {
	txm            repositories.TxManager
	membershipRepo repositories.MembershipRepository
	teamRepo       repositories.TeamRepository
	userRepo       repositories.UserRepository
	// loc is the timezone for ledger dates; instants stay in UTC.
	loc *time.Location
}

func NewMembershipService(
	txm repositories.TxManager,
	membershipRepo repositories.MembershipRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	loc *time.Location,
) *MembershipService {
	if loc == nil {
		loc = time.UTC
	}
	return &MembershipService{
		txm:            txm,
		membershipRepo: membershipRepo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		loc:            loc,
	}
}

// SetCurrentTeam makes teamID the user's current team. Any open ledger
// row is closed with today's date and a new row opened; switching to
// the team the user is already on is a no-op returning the open row.
func (s *MembershipService) SetCurrentTeam(ctx context.Context, userID, teamID int) (*models.TeamMembership, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if !team.IsActive {
		return nil, ErrTeamNotFound
	}

	var membership *models.TeamMembership
	err = s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		open, err := s.membershipRepo.FindOpenByUser(ctx, exec, userID)
		if err != nil && !errors.Is(err, repositories.ErrMembershipNotFound) {
			return err
		}
		if open != nil && open.TeamID == teamID {
			open.Team = team
			membership = open
			return nil
		}

		today := s.today()
		if _, err := s.membershipRepo.CloseOpenForUser(ctx, exec, userID, today); err != nil {
			return err
		}

		membership = &models.TeamMembership{
			UserID:   userID,
			TeamID:   teamID,
			DateFrom: today,
		}
		if err := s.membershipRepo.Create(ctx, exec, membership); err != nil {
			if errors.Is(err, repositories.ErrMembershipOpenConflict) {
				return ErrMembershipOpenConflict
			}
			return err
		}
		membership.Team = team

		return s.userRepo.SetTeam(ctx, exec, userID, &teamID)
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// ClearCurrentTeam closes the open ledger row and clears users.team_id.
// Returns how many rows were closed (0 when the user had no team).
func (s *MembershipService) ClearCurrentTeam(ctx context.Context, userID int) (int, error) {
	var closed int
	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		closed, err = s.membershipRepo.CloseOpenForUser(ctx, exec, userID, s.today())
		if err != nil {
			return err
		}
		return s.userRepo.SetTeam(ctx, exec, userID, nil)
	})
	if err != nil {
		return 0, err
	}
	return closed, nil
}

// History returns the user's full ledger, newest first, teams embedded.
func (s *MembershipService) History(ctx context.Context, userID int) ([]*models.TeamMembership, error) {
	return s.membershipRepo.ListByUser(ctx, nil, userID)
}

// ListTeams returns the active teams a user can pick from.
func (s *MembershipService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return s.teamRepo.ListActive(ctx, nil)
}

func (s *MembershipService) today() time.Time {
	now := time.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
