package provider

import "context"

// PreferenceRequest describes the hosted-checkout session to create for
// one payment attempt. ExternalReference correlates the provider's
// callbacks back to the local payment row.
type PreferenceRequest struct {
	Title             string
	Amount            float64
	Currency          string
	PayerEmail        string
	PayerName         string
	PayerSurname      string
	ExternalReference string
	BackURL           string
	NotificationURL   string
}

// Preference is the created hosted-checkout session.
type Preference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

// PaymentInfo is the authoritative payment state fetched from the
// provider by its payment id. Status carries the provider's raw value
// (approved, accredited, rejected, cancelled, pending, in_process, ...).
type PaymentInfo struct {
	ID                string
	Status            string
	ExternalReference string
}

// PaymentProvider is the narrow surface the reconciliation core needs
// from the external payment service: create a checkout session, and
// fetch a payment's authoritative status. Implementations must not
// retry on their own; retry policy belongs to the caller (or to the
// provider's webhook redelivery).
type PaymentProvider interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}
