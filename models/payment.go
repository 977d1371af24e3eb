package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the local reconciliation state of a checkout attempt.
type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusApproved       PaymentStatus = "approved"
	PaymentStatusRejected       PaymentStatus = "rejected"
	PaymentStatusFailedCapacity PaymentStatus = "failed_capacity"
)

// Terminal reports whether the payment reached a final state. Terminal
// payments are never transitioned again by webhook replays.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusApproved, PaymentStatusRejected, PaymentStatusFailedCapacity:
		return true
	}
	return false
}

// Payment records one checkout attempt against MercadoPago.
// ExternalReference always equals PublicID and is echoed back by the
// provider in callbacks to correlate them to this row.
type Payment struct {
	ID       int       `json:"-" db:"id"`
	PublicID uuid.UUID `json:"public_id" db:"public_id"`
	UserID   int       `json:"user_id" db:"user_id"`
	MatchID  int       `json:"match_id" db:"match_id"`

	Amount   float64 `json:"amount" db:"amount"`
	Currency string  `json:"currency" db:"currency"`

	// Checkout Pro preference
	PreferenceID     string `json:"preference_id,omitempty" db:"preference_id"`
	InitPoint        string `json:"init_point,omitempty" db:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point,omitempty" db:"sandbox_init_point"`

	// Provider payment result
	MPPaymentID       string `json:"mp_payment_id,omitempty" db:"mp_payment_id"`
	MPStatus          string `json:"mp_status,omitempty" db:"mp_status"`
	ExternalReference string `json:"external_reference" db:"external_reference"`

	Status PaymentStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
