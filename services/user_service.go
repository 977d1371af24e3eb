package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/repositories"
	"github.com/pichanga-app/pichanga-backend/storage"
)

// ProfilePatch carries optional profile fields; nil means "leave as is".
type ProfilePatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

type UserService struct {
	userRepo    repositories.UserRepository
	teamRepo    repositories.TeamRepository
	sessionRepo repositories.SessionRepository
	uploader    storage.FileUploader
}

func NewUserService(
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	sessionRepo repositories.SessionRepository,
	uploader storage.FileUploader,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		teamRepo:    teamRepo,
		sessionRepo: sessionRepo,
		uploader:    uploader,
	}
}

// GetProfile returns the user with the current team embedded.
func (s *UserService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.TeamID != nil {
		team, err := s.teamRepo.GetByID(ctx, nil, *user.TeamID)
		if err != nil && !errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, err
		}
		user.Team = team
	}
	return user, nil
}

// UpdateProfile applies a partial update to the user's editable fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, patch ProfilePatch) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if patch.FirstName != nil {
		name := strings.TrimSpace(*patch.FirstName)
		if name == "" {
			return nil, fmt.Errorf("%w: first name cannot be empty", ErrValidationFailed)
		}
		user.FirstName = name
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Phone != nil {
		user.Phone = strings.TrimSpace(*patch.Phone)
	}

	if err := s.userRepo.UpdateProfile(ctx, nil, user); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// ChangePassword verifies the current password before setting the new
// one. Other device sessions stay valid.
func (s *UserService) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, nil, userID, string(hash))
}

// UploadPhoto stores the avatar in object storage and points the
// profile at it. The previous object is removed best-effort.
func (s *UserService) UploadPhoto(ctx context.Context, userID int, filename, contentType string, reader io.Reader) (*models.User, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: photo storage is not configured", ErrValidationFailed)
	}

	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("users/%d/avatar-%s%s", userID, uuid.NewString(), ext)

	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	oldURL := user.PhotoURL
	if err := s.userRepo.UpdatePhoto(ctx, nil, userID, &result.Location); err != nil {
		return nil, err
	}
	if oldURL != nil {
		if oldKey := s.objectKeyFromURL(*oldURL); oldKey != "" {
			// Best effort: an orphaned object is not worth failing the
			// request over.
			_ = s.uploader.Delete(ctx, oldKey)
		}
	}
	return s.GetProfile(ctx, userID)
}

// Deactivate disables the account and signs out every device. Returns
// the number of revoked sessions.
func (s *UserService) Deactivate(ctx context.Context, userID int) (int, error) {
	if err := s.userRepo.SetActive(ctx, nil, userID, false); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	sessions, err := s.sessionRepo.DeleteAllByUser(ctx, nil, userID)
	if err != nil {
		return 0, err
	}
	return len(sessions), nil
}

// objectKeyFromURL recovers the storage key from a public photo URL.
// Keys are always stored as the URL path under the public base.
func (s *UserService) objectKeyFromURL(photoURL string) string {
	u, err := url.Parse(photoURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
