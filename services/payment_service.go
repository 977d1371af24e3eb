package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pichanga-app/pichanga-backend/models"
	"github.com/pichanga-app/pichanga-backend/provider"
	"github.com/pichanga-app/pichanga-backend/repositories"
)

// CheckoutResult carries the payment row plus whether it was freshly
// created or an existing pending payment was reused.
type CheckoutResult struct {
	Payment *models.Payment
	Reused  bool
}

// WebhookResult is the reconciliation outcome reported back to the
// provider callback endpoint. MatchIdentifier and AvailableSlots are
// set when the delivery changed the match occupancy, so the caller can
// notify live watchers.
type WebhookResult struct {
	Status          string `json:"status"`
	Note            string `json:"note,omitempty"`
	MatchIdentifier string `json:"match_identifier,omitempty"`
	AvailableSlots  *int   `json:"available_slots,omitempty"`
}

const (
	WebhookIgnored          = "ignored"
	WebhookUnknownReference = "unknown_reference"
)

// PaymentURLs configures the URLs embedded in checkout preferences.
type PaymentURLs struct {
	// PublicBaseURL is this API's public base, used for the webhook URL.
	PublicBaseURL string
	// FrontBaseURL/FrontMatchRoute build the post-checkout redirect:
	// {FrontBaseURL}/{FrontMatchRoute}/{match_identifier}.
	FrontBaseURL    string
	FrontMatchRoute string
}

// PaymentService owns checkout creation and the reconciliation of
// asynchronous provider callbacks into local enrollment state. It is
// the only place where payment money-state and match occupancy-state
// meet: a payment is never marked approved without either confirming
// an existing enrollment or executing the join.
type PaymentService struct {
	txm            repositories.TxManager
	paymentRepo    repositories.PaymentRepository
	matchRepo      repositories.MatchRepository
	enrollmentRepo repositories.EnrollmentRepository
	userRepo       repositories.UserRepository
	enrollments    *EnrollmentService
	provider       provider.PaymentProvider
	urls           PaymentURLs
}

func NewPaymentService(
	txm repositories.TxManager,
	paymentRepo repositories.PaymentRepository,
	matchRepo repositories.MatchRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	userRepo repositories.UserRepository,
	enrollments *EnrollmentService,
	paymentProvider provider.PaymentProvider,
	urls PaymentURLs,
) *PaymentService {
	return &PaymentService{
		txm:            txm,
		paymentRepo:    paymentRepo,
		matchRepo:      matchRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		enrollments:    enrollments,
		provider:       paymentProvider,
		urls:           urls,
	}
}

// CreateCheckout creates a pending payment for (user, match) and a
// hosted-checkout preference at the provider. If a pending payment
// already exists it is returned instead of creating a duplicate.
func (s *PaymentService) CreateCheckout(ctx context.Context, userID int, matchIdentifier uuid.UUID) (*CheckoutResult, error) {
	match, err := s.matchRepo.GetByIdentifier(ctx, nil, matchIdentifier)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if match.Status != models.MatchStatusPublished {
		return nil, ErrMatchNotPayable
	}

	// Capacity pre-check. Not authoritative: the enrollment engine
	// re-checks under the match row lock at confirmation time.
	current, err := s.enrollmentRepo.CountActiveByMatch(ctx, nil, match.ID)
	if err != nil {
		return nil, err
	}
	if current >= match.Capacity {
		return nil, ErrNoSlotsAvailable
	}

	enrolled, err := s.enrollmentRepo.ExistsActive(ctx, nil, match.ID, userID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	existing, err := s.paymentRepo.FindPendingByUserAndMatch(ctx, nil, userID, match.ID)
	if err != nil && !errors.Is(err, repositories.ErrPaymentNotFound) {
		return nil, err
	}
	if existing != nil {
		return &CheckoutResult{Payment: existing, Reused: true}, nil
	}

	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	publicID := uuid.New()
	payment := &models.Payment{
		PublicID:          publicID,
		UserID:            userID,
		MatchID:           match.ID,
		Amount:            match.PriceAmount,
		Currency:          match.PriceCurrency,
		ExternalReference: publicID.String(),
		Status:            models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, nil, payment); err != nil {
		if errors.Is(err, repositories.ErrPaymentPendingConflict) {
			// Lost the race against a concurrent checkout: reuse the
			// pending payment that won.
			pending, findErr := s.paymentRepo.FindPendingByUserAndMatch(ctx, nil, userID, match.ID)
			if findErr != nil {
				return nil, findErr
			}
			return &CheckoutResult{Payment: pending, Reused: true}, nil
		}
		return nil, err
	}

	title := match.Title
	if title == "" {
		title = fmt.Sprintf("Partido %s", match.Identifier)
	}

	pref, err := s.provider.CreatePreference(ctx, provider.PreferenceRequest{
		Title:             title,
		Amount:            payment.Amount,
		Currency:          payment.Currency,
		PayerEmail:        user.Email,
		PayerName:         user.FirstName,
		PayerSurname:      user.LastName,
		ExternalReference: payment.ExternalReference,
		BackURL:           s.backURL(match),
		NotificationURL:   s.notificationURL(),
	})
	if err != nil {
		// The payment stays pending so the client can retry checkout
		// and reuse it instead of creating duplicates.
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	if err := s.paymentRepo.UpdatePreference(ctx, nil, payment.ID, pref.ID, pref.InitPoint, pref.SandboxInitPoint); err != nil {
		return nil, err
	}
	payment.PreferenceID = pref.ID
	payment.InitPoint = pref.InitPoint
	payment.SandboxInitPoint = pref.SandboxInitPoint

	return &CheckoutResult{Payment: payment}, nil
}

// Status returns the caller's payment by its public id, for clients
// polling after returning from checkout.
func (s *PaymentService) Status(ctx context.Context, userID int, publicID uuid.UUID) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByPublicID(ctx, nil, publicID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// HandleProviderCallback reconciles one webhook delivery. The provider
// may deliver the same event multiple times and out of order; the
// handler is safe to replay because terminal payments only refresh the
// raw provider fields. The callback body is never trusted for
// financial state: the authoritative status is fetched from the
// provider by payment id.
func (s *PaymentService) HandleProviderCallback(ctx context.Context, providerPaymentID string) (*WebhookResult, error) {
	if providerPaymentID == "" {
		return &WebhookResult{Status: WebhookIgnored}, nil
	}

	info, err := s.provider.GetPayment(ctx, providerPaymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	var result *WebhookResult
	err = s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		payment, err := s.paymentRepo.LockByExternalReference(ctx, exec, info.ExternalReference)
		if err != nil {
			if errors.Is(err, repositories.ErrPaymentNotFound) {
				// Row may have been deleted, or the event belongs to
				// another system. Acknowledge so the provider stops
				// retrying.
				result = &WebhookResult{Status: WebhookUnknownReference}
				return nil
			}
			return err
		}

		// Idempotency: once resolved, only sync provider fields.
		if payment.Status.Terminal() {
			if err := s.paymentRepo.UpdateProviderFields(ctx, exec, payment.ID, info.ID, info.Status); err != nil {
				return err
			}
			result = &WebhookResult{Status: string(payment.Status)}
			return nil
		}

		status, note, joined, err := s.reconcile(ctx, exec, payment, info)
		if err != nil {
			return err
		}
		if err := s.paymentRepo.UpdateStatus(ctx, exec, payment.ID, status, info.ID, info.Status); err != nil {
			return err
		}
		result = &WebhookResult{Status: string(status), Note: note}
		if joined != nil && joined.Joined {
			match, err := s.matchRepo.GetByID(ctx, exec, payment.MatchID)
			if err != nil {
				return err
			}
			slots := joined.AvailableSlots
			result.MatchIdentifier = match.Identifier.String()
			result.AvailableSlots = &slots
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PaymentService) reconcile(ctx context.Context, exec repositories.SQLExecutor, payment *models.Payment, info *provider.PaymentInfo) (models.PaymentStatus, string, *JoinResult, error) {
	switch info.Status {
	case "approved", "accredited":
		enrolled, err := s.enrollmentRepo.ExistsActive(ctx, exec, payment.MatchID, payment.UserID)
		if err != nil {
			return "", "", nil, err
		}
		if enrolled {
			// Already in: approve without re-joining.
			return models.PaymentStatusApproved, ReasonAlreadyEnrolled, nil, nil
		}

		joined, err := s.enrollments.JoinWithinTx(ctx, exec, payment.UserID, payment.MatchID)
		if err != nil {
			if isEnrollmentValidationError(err) {
				// Lost a capacity race with another payer, or the match
				// closed between checkout and confirmation.
				return models.PaymentStatusFailedCapacity, "", nil, nil
			}
			return "", "", nil, err
		}
		return models.PaymentStatusApproved, "", joined, nil

	case "rejected", "cancelled":
		return models.PaymentStatusRejected, "", nil, nil

	default:
		// pending / in_process / unrecognized: no business effect yet.
		return models.PaymentStatusPending, "", nil, nil
	}
}

// isEnrollmentValidationError separates "the join legitimately cannot
// happen" from infrastructure failures, which must roll the
// transaction back so the provider retries the delivery.
func isEnrollmentValidationError(err error) bool {
	return errors.Is(err, ErrNoSlotsAvailable) ||
		errors.Is(err, ErrMatchNotOpen) ||
		errors.Is(err, ErrMatchAlreadyStarted)
}

func (s *PaymentService) backURL(match *models.Match) string {
	if s.urls.FrontBaseURL == "" {
		return ""
	}
	base := strings.TrimRight(s.urls.FrontBaseURL, "/")
	route := strings.Trim(s.urls.FrontMatchRoute, "/")
	return fmt.Sprintf("%s/%s/%s", base, route, match.Identifier)
}

func (s *PaymentService) notificationURL() string {
	if s.urls.PublicBaseURL == "" {
		return ""
	}
	return strings.TrimRight(s.urls.PublicBaseURL, "/") + "/api/payments/mercadopago/webhook"
}
