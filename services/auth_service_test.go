package services

import (
	"context"
	"errors"
	"testing"
)

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeSessionRepo) {
	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	sessions := NewSessionService(sessionRepo)
	return NewAuthService(userRepo, sessions), userRepo, sessionRepo
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Email:          "Juan@Example.com",
		DocumentNumber: "12345678",
		FirstName:      "Juan",
		LastName:       "Pérez",
		Password:       "secret-password",
	}
}

func TestRegisterDefaultsAndNormalizes(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.DocumentType != "DNI" {
		t.Errorf("expected default document type DNI, got %q", user.DocumentType)
	}
	if user.Email != "juan@example.com" {
		t.Errorf("email not lowercased: %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret-password" {
		t.Error("password must be stored hashed")
	}
	if !user.IsActive {
		t.Error("new account should be active")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		want   error
	}{
		{"missing document", func(in *RegisterInput) { in.DocumentNumber = "" }, ErrInvalidDocumentNumber},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, ErrPasswordTooShort},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, ErrValidationFailed},
		{"missing first name", func(in *RegisterInput) { in.FirstName = "  " }, ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegistration()
			tt.mutate(&input)
			if _, err := svc.Register(ctx, input); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	dupEmail := validRegistration()
	dupEmail.DocumentNumber = "99999999"
	if _, err := svc.Register(ctx, dupEmail); !errors.Is(err, ErrUserEmailConflict) {
		t.Errorf("expected ErrUserEmailConflict, got %v", err)
	}

	dupDoc := validRegistration()
	dupDoc.Email = "otro@example.com"
	if _, err := svc.Register(ctx, dupDoc); !errors.Is(err, ErrUserDocumentConflict) {
		t.Errorf("expected ErrUserDocumentConflict, got %v", err)
	}
}

func TestLoginByDocument(t *testing.T) {
	svc, userRepo, sessionRepo := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	// GetByToken resolves the user through the session repo's view.
	sessionRepo.users[registered.ID], _ = userRepo.GetByID(ctx, nil, registered.ID)

	result, err := svc.LoginByDocument(ctx, "dni", "12345678", "secret-password", ClientInfo{DeviceID: "phone"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Error("login must return a session token")
	}
	if result.User.ID != registered.ID {
		t.Errorf("login returned wrong user: %d", result.User.ID)
	}

	if _, err := svc.LoginByDocument(ctx, "DNI", "12345678", "wrong", ClientInfo{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.LoginByDocument(ctx, "DNI", "00000000", "secret-password", ClientInfo{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown document: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := userRepo.SetActive(ctx, nil, user.ID, false); err != nil {
		t.Fatalf("deactivation failed: %v", err)
	}

	if _, err := svc.LoginByDocument(ctx, "DNI", "12345678", "secret-password", ClientInfo{}); !errors.Is(err, ErrUserInactive) {
		t.Errorf("expected ErrUserInactive, got %v", err)
	}
}
