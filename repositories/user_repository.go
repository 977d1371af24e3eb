package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pichanga-app/pichanga-backend/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserDocumentConflict = errors.New("document is already registered")
)

type UserRepository interface {
	Create(ctx context.Context, exec SQLExecutor, u *models.User) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error)
	GetByDocument(ctx context.Context, exec SQLExecutor, documentType, documentNumber string) (*models.User, error)
	UpdateProfile(ctx context.Context, exec SQLExecutor, u *models.User) error
	UpdatePassword(ctx context.Context, exec SQLExecutor, id int, passwordHash string) error
	UpdatePhoto(ctx context.Context, exec SQLExecutor, id int, photoURL *string) error
	SetTeam(ctx context.Context, exec SQLExecutor, id int, teamID *int) error
	SetActive(ctx context.Context, exec SQLExecutor, id int, isActive bool) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const userColumns = `
	id, email, document_type, document_number, first_name, last_name,
	phone, photo_url, team_id, is_active, role, password_hash, created_at`

func scanUser(rowScanner interface {
	Scan(dest ...interface{}) error
}, u *models.User) error {
	return rowScanner.Scan(
		&u.ID,
		&u.Email,
		&u.DocumentType,
		&u.DocumentNumber,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.PhotoURL,
		&u.TeamID,
		&u.IsActive,
		&u.Role,
		&u.PasswordHash,
		&u.CreatedAt,
	)
}

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, u *models.User) error {
	query := `
		INSERT INTO users
			(email, document_type, document_number, first_name, last_name, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, role, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		u.Email,
		u.DocumentType,
		u.DocumentNumber,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.PasswordHash,
	).Scan(&u.ID, &u.IsActive, &u.Role, &u.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_email_key":
				return ErrUserEmailConflict
			case "uniq_user_doc_type_number":
				return ErrUserDocumentConflict
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) findOne(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.User, error) {
	u := &models.User{}
	row := r.getExecutor(exec).QueryRowContext(ctx, query, args...)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, exec, query, id)
}

func (r *postgresUserRepository) GetByDocument(ctx context.Context, exec SQLExecutor, documentType, documentNumber string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE document_type = $1 AND document_number = $2`
	return r.findOne(ctx, exec, query, documentType, documentNumber)
}

func (r *postgresUserRepository) UpdateProfile(ctx context.Context, exec SQLExecutor, u *models.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3
		WHERE id = $4`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, u.FirstName, u.LastName, u.Phone, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdatePassword(ctx context.Context, exec SQLExecutor, id int, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdatePhoto(ctx context.Context, exec SQLExecutor, id int, photoURL *string) error {
	query := `UPDATE users SET photo_url = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, photoURL, id)
	if err != nil {
		return fmt.Errorf("failed to update user photo: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetTeam(ctx context.Context, exec SQLExecutor, id int, teamID *int) error {
	query := `UPDATE users SET team_id = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, teamID, id)
	if err != nil {
		return fmt.Errorf("failed to set user team: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetActive(ctx context.Context, exec SQLExecutor, id int, isActive bool) error {
	query := `UPDATE users SET is_active = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, isActive, id)
	if err != nil {
		return fmt.Errorf("failed to set user active flag: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
