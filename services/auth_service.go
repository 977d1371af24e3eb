package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/repositories"
)

const minPasswordLength = 8

// RegisterInput is the payload for account creation. Identity is the
// national document, not the email: players log in with document type
// plus number.
type RegisterInput struct {
	Email          string `json:"email"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone"`
	Password       string `json:"password"`
}

// LoginResult bundles the authenticated user with the freshly issued
// session token. Token is the plaintext value for the client to store.
type LoginResult struct {
	User    *models.User         `json:"user"`
	Session *models.SessionToken `json:"session"`
	Token   string               `json:"token"`
}

type AuthService struct {
	userRepo repositories.UserRepository
	sessions *SessionService
}

func NewAuthService(userRepo repositories.UserRepository, sessions *SessionService) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions}
}

// Register creates a user account. Document type defaults to DNI when
// omitted.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.DocumentType = strings.ToUpper(strings.TrimSpace(input.DocumentType))
	input.DocumentNumber = strings.TrimSpace(input.DocumentNumber)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if input.DocumentType == "" {
		input.DocumentType = "DNI"
	}
	if input.DocumentNumber == "" {
		return nil, ErrInvalidDocumentNumber
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidationFailed)
	}
	if input.FirstName == "" {
		return nil, fmt.Errorf("%w: first name is required", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          input.Email,
		DocumentType:   input.DocumentType,
		DocumentNumber: input.DocumentNumber,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          strings.TrimSpace(input.Phone),
		Role:           models.RolePlayer,
		PasswordHash:   string(hash),
	}
	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		case errors.Is(err, repositories.ErrUserDocumentConflict):
			return nil, ErrUserDocumentConflict
		}
		return nil, err
	}
	return user, nil
}

// LoginByDocument verifies credentials and issues a session for the
// caller's device. Invalid document and wrong password produce the
// same error so login does not leak which accounts exist.
func (s *AuthService) LoginByDocument(ctx context.Context, documentType, documentNumber, password string, client ClientInfo) (*LoginResult, error) {
	documentType = strings.ToUpper(strings.TrimSpace(documentType))
	if documentType == "" {
		documentType = "DNI"
	}
	documentNumber = strings.TrimSpace(documentNumber)
	if documentNumber == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByDocument(ctx, nil, documentType, documentNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	session, token, err := s.sessions.IssueOrRefresh(ctx, user.ID, client)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Session: session, Token: token}, nil
}
