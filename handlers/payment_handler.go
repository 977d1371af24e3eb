package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pichanga-app/pichanga-backend/live"
	"github.com/pichanga-app/pichanga-backend/middleware"
	"github.com/pichanga-app/pichanga-backend/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	hub            *live.Hub
	logger         *slog.Logger
}

func NewPaymentHandler(paymentService *services.PaymentService, hub *live.Hub, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, hub: hub, logger: logger}
}

type checkoutRequest struct {
	MatchIdentifier string `json:"match_identifier"`
}

// CreateCheckout handles POST /api/payments/checkout. The target match
// is named by its public identifier in the body.
func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req checkoutRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	identifier, err := uuid.Parse(req.MatchIdentifier)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid match identifier")
		return
	}

	result, err := h.paymentService.CreateCheckout(r.Context(), user.ID, identifier)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if result.Reused {
		respondOK(w, "pending payment reused", result)
		return
	}
	respondCreated(w, "checkout created", result)
}

// Status handles GET /api/payments/{publicID}.
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	publicID, err := uuid.Parse(chi.URLParam(r, "publicID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	payment, err := h.paymentService.Status(r.Context(), user.ID, publicID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", payment)
}

// webhookBody covers the JSON shapes MercadoPago posts: the modern
// {"type":"payment","data":{"id":"..."}} and the legacy topic form.
type webhookBody struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID json.Number `json:"id"`
	} `json:"data"`
	ID json.Number `json:"id"`
}

// Webhook handles POST /api/payments/mercadopago/webhook. The endpoint
// is unauthenticated; every event is verified against the provider API
// before it has any effect. Responds 200 even for unknown references
// so the provider stops redelivering.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	eventType, paymentID := parseWebhookRequest(r)

	if eventType != "" && eventType != "payment" {
		// merchant_order and other topics carry no payment state.
		respondOK(w, "event ignored", map[string]string{"type": eventType})
		return
	}
	if paymentID == "" {
		respondOK(w, "event ignored", nil)
		return
	}

	result, err := h.paymentService.HandleProviderCallback(r.Context(), paymentID)
	if err != nil {
		// Non-2xx makes the provider redeliver, which is what we want
		// for transient failures.
		h.logger.Error("webhook processing failed", "payment_id", paymentID, "error", err)
		respondError(w, http.StatusInternalServerError, "webhook processing failed")
		return
	}

	if result.MatchIdentifier != "" && result.AvailableSlots != nil {
		h.hub.BroadcastToRoom(result.MatchIdentifier, live.MsgSlotsUpdated, live.SlotsPayload{
			MatchIdentifier: result.MatchIdentifier,
			AvailableSlots:  *result.AvailableSlots,
		})
	}
	respondOK(w, "webhook processed", result)
}

// parseWebhookRequest extracts the event type and payment id from
// query parameters first, then the JSON body.
func parseWebhookRequest(r *http.Request) (eventType, paymentID string) {
	q := r.URL.Query()

	eventType = q.Get("type")
	if eventType == "" {
		eventType = q.Get("topic")
	}
	if id := q.Get("data.id"); id != "" {
		paymentID = id
	} else if id := q.Get("id"); id != "" {
		paymentID = id
	}
	if paymentID != "" {
		return eventType, paymentID
	}

	var body webhookBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return eventType, ""
	}
	if eventType == "" {
		eventType = body.Type
	}
	if body.Data.ID.String() != "" {
		return eventType, body.Data.ID.String()
	}
	return eventType, body.ID.String()
}
