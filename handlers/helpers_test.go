package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pichanga-app/pichanga-backend/services"
)

func TestSuccessEnvelopeStatus(t *testing.T) {
	tests := []struct {
		name     string
		respond  func(w http.ResponseWriter)
		wantCode int
	}{
		{"ok", func(w http.ResponseWriter) { respondOK(w, "done", nil) }, http.StatusOK},
		{"created", func(w http.ResponseWriter) { respondCreated(w, "made", nil) }, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.respond(w)
			if w.Code != tt.wantCode {
				t.Errorf("status code %d, want %d", w.Code, tt.wantCode)
			}
			var body envelope
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body.Status != "success" {
				t.Errorf("envelope status %q, want success", body.Status)
			}
		})
	}
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrUserNotFound, http.StatusNotFound},
		{services.ErrSessionInvalid, http.StatusUnauthorized},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrUserInactive, http.StatusUnauthorized},
		{services.ErrPaymentRequired, http.StatusPaymentRequired},
		{services.ErrNoSlotsAvailable, http.StatusConflict},
		{services.ErrAlreadyEnrolled, http.StatusConflict},
		{services.ErrMembershipOpenConflict, http.StatusConflict},
		{services.ErrMatchNotOpen, http.StatusBadRequest},
		{services.ErrMatchAlreadyStarted, http.StatusBadRequest},
		{services.ErrPasswordTooShort, http.StatusBadRequest},
		{services.ErrWrongPassword, http.StatusBadRequest},
		{services.ErrProviderFailed, http.StatusBadGateway},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		mapServiceErrorToHTTP(w, tt.err)
		if w.Code != tt.want {
			t.Errorf("%v: status %d, want %d", tt.err, w.Code, tt.want)
		}

		var body envelope
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%v: invalid JSON body: %v", tt.err, err)
		}
		if body.Status != "error" {
			t.Errorf("%v: envelope status %q, want error", tt.err, body.Status)
		}
	}
}

func TestReadJSONRejectsMalformedBodies(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"bad syntax", `{"name":`},
		{"unknown field", `{"name":"x","extra":1}`},
		{"wrong type", `{"name":123}`},
		{"trailing value", `{"name":"x"}{"name":"y"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var dst payload
			if err := readJSON(w, r, &dst); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok"}`))
	var dst payload
	if err := readJSON(w, r, &dst); err != nil {
		t.Errorf("valid body rejected: %v", err)
	}
	if dst.Name != "ok" {
		t.Errorf("decoded %q, want ok", dst.Name)
	}
}
