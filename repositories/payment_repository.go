package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pichanga-app/pichanga-backend/models"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentPendingConflict maps the partial unique index that
	// allows at most one pending payment per (user, match).
	ErrPaymentPendingConflict = errors.New("payment conflict: user already has a pending payment for this match")
)

type PaymentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Payment) error
	GetByPublicID(ctx context.Context, exec SQLExecutor, publicID uuid.UUID) (*models.Payment, error)
	FindPendingByUserAndMatch(ctx context.Context, exec SQLExecutor, userID, matchID int) (*models.Payment, error)
	// LockByExternalReference reads the payment row with
	// SELECT ... FOR UPDATE so concurrent webhook deliveries for the
	// same payment serialize on it.
	LockByExternalReference(ctx context.Context, exec SQLExecutor, externalReference string) (*models.Payment, error)
	ExistsApproved(ctx context.Context, exec SQLExecutor, userID, matchID int) (bool, error)
	UpdatePreference(ctx context.Context, exec SQLExecutor, id int, preferenceID, initPoint, sandboxInitPoint string) error
	UpdateProviderFields(ctx context.Context, exec SQLExecutor, id int, mpPaymentID, mpStatus string) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PaymentStatus, mpPaymentID, mpStatus string) error
}

type postgresPaymentRepository struct {
	db *sql.DB
}

func NewPostgresPaymentRepository(db *sql.DB) PaymentRepository {
	return &postgresPaymentRepository{db: db}
}

func (r *postgresPaymentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const paymentColumns = `
	id, public_id, user_id, match_id, amount, currency,
	preference_id, init_point, sandbox_init_point,
	mp_payment_id, mp_status, external_reference, status,
	created_at, updated_at`

func scanPayment(rowScanner interface {
	Scan(dest ...interface{}) error
}, p *models.Payment) error {
	return rowScanner.Scan(
		&p.ID,
		&p.PublicID,
		&p.UserID,
		&p.MatchID,
		&p.Amount,
		&p.Currency,
		&p.PreferenceID,
		&p.InitPoint,
		&p.SandboxInitPoint,
		&p.MPPaymentID,
		&p.MPStatus,
		&p.ExternalReference,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *postgresPaymentRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Payment) error {
	query := `
		INSERT INTO payments
			(public_id, user_id, match_id, amount, currency, external_reference, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		p.PublicID,
		p.UserID,
		p.MatchID,
		p.Amount,
		p.Currency,
		p.ExternalReference,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "uniq_pending_payment_per_user_match" {
				return ErrPaymentPendingConflict
			}
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *postgresPaymentRepository) findOne(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.Payment, error) {
	p := &models.Payment{}
	row := r.getExecutor(exec).QueryRowContext(ctx, query, args...)
	if err := scanPayment(row, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return p, nil
}

func (r *postgresPaymentRepository) GetByPublicID(ctx context.Context, exec SQLExecutor, publicID uuid.UUID) (*models.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE public_id = $1`
	return r.findOne(ctx, exec, query, publicID)
}

func (r *postgresPaymentRepository) FindPendingByUserAndMatch(ctx context.Context, exec SQLExecutor, userID, matchID int) (*models.Payment, error) {
	query := `SELECT` + paymentColumns + `
		FROM payments
		WHERE user_id = $1 AND match_id = $2 AND status = $3
		ORDER BY created_at DESC
		LIMIT 1`
	return r.findOne(ctx, exec, query, userID, matchID, models.PaymentStatusPending)
}

func (r *postgresPaymentRepository) LockByExternalReference(ctx context.Context, exec SQLExecutor, externalReference string) (*models.Payment, error) {
	query := `SELECT` + paymentColumns + `
		FROM payments
		WHERE external_reference = $1
		FOR UPDATE`
	return r.findOne(ctx, exec, query, externalReference)
}

func (r *postgresPaymentRepository) ExistsApproved(ctx context.Context, exec SQLExecutor, userID, matchID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE user_id = $1 AND match_id = $2 AND status = $3
		)`

	var exists bool
	err := r.getExecutor(exec).QueryRowContext(ctx, query, userID, matchID, models.PaymentStatusApproved).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check approved payment: %w", err)
	}
	return exists, nil
}

func (r *postgresPaymentRepository) UpdatePreference(ctx context.Context, exec SQLExecutor, id int, preferenceID, initPoint, sandboxInitPoint string) error {
	query := `
		UPDATE payments
		SET preference_id = $1, init_point = $2, sandbox_init_point = $3, updated_at = NOW()
		WHERE id = $4`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, preferenceID, initPoint, sandboxInitPoint, id)
	if err != nil {
		return fmt.Errorf("failed to update payment preference: %w", err)
	}
	return checkAffectedRows(result, ErrPaymentNotFound)
}

func (r *postgresPaymentRepository) UpdateProviderFields(ctx context.Context, exec SQLExecutor, id int, mpPaymentID, mpStatus string) error {
	query := `
		UPDATE payments
		SET mp_payment_id = $1, mp_status = $2, updated_at = NOW()
		WHERE id = $3`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, mpPaymentID, mpStatus, id)
	if err != nil {
		return fmt.Errorf("failed to update payment provider fields: %w", err)
	}
	return checkAffectedRows(result, ErrPaymentNotFound)
}

func (r *postgresPaymentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PaymentStatus, mpPaymentID, mpStatus string) error {
	query := `
		UPDATE payments
		SET status = $1, mp_payment_id = $2, mp_status = $3, updated_at = NOW()
		WHERE id = $4`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, mpPaymentID, mpStatus, id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return checkAffectedRows(result, ErrPaymentNotFound)
}
