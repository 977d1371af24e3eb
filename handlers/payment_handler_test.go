package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseWebhookRequest(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		wantType string
		wantID   string
	}{
		{
			name:     "query type and data.id",
			target:   "/api/payments/mercadopago/webhook?type=payment&data.id=12345",
			wantType: "payment",
			wantID:   "12345",
		},
		{
			name:     "legacy topic and id",
			target:   "/api/payments/mercadopago/webhook?topic=payment&id=98765",
			wantType: "payment",
			wantID:   "98765",
		},
		{
			name:     "merchant_order topic",
			target:   "/api/payments/mercadopago/webhook?topic=merchant_order&id=555",
			wantType: "merchant_order",
			wantID:   "555",
		},
		{
			name:     "json body with string id",
			target:   "/api/payments/mercadopago/webhook",
			body:     `{"type":"payment","action":"payment.updated","data":{"id":"424242"}}`,
			wantType: "payment",
			wantID:   "424242",
		},
		{
			name:     "json body with numeric id",
			target:   "/api/payments/mercadopago/webhook",
			body:     `{"type":"payment","data":{"id":424242}}`,
			wantType: "payment",
			wantID:   "424242",
		},
		{
			name:     "json body top-level id",
			target:   "/api/payments/mercadopago/webhook",
			body:     `{"id":777}`,
			wantType: "",
			wantID:   "777",
		},
		{
			name:     "empty request",
			target:   "/api/payments/mercadopago/webhook",
			body:     "",
			wantType: "",
			wantID:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", tt.target, strings.NewReader(tt.body))
			eventType, paymentID := parseWebhookRequest(r)
			if eventType != tt.wantType {
				t.Errorf("event type = %q, want %q", eventType, tt.wantType)
			}
			if paymentID != tt.wantID {
				t.Errorf("payment id = %q, want %q", paymentID, tt.wantID)
			}
		})
	}
}
