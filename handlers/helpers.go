package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pichanga-app/pichanga-backend/services"
)

// envelope is the uniform response body: {"status","message","data"}.
// Status is "success" or "error".
type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondOK(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Status: "success", Message: message, Data: data})
}

func respondCreated(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, envelope{Status: "success", Message: message, Data: data})
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{Status: "error", Message: message})
}

// readJSON decodes a request body into dst, rejecting unknown fields
// and bodies over 1MB.
func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown field %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	if dec.More() {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// matchIdentifierParam parses the {identifier} URL parameter as a UUID.
func matchIdentifierParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "identifier")
	identifier, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid match identifier %q", raw)
	}
	return identifier, nil
}

// mapServiceErrorToHTTP translates service sentinel errors to status
// codes. Unrecognized errors are logged and reported as 500.
func mapServiceErrorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		respondError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrSessionInvalid),
		errors.Is(err, services.ErrUserInactive):
		respondError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, services.ErrPaymentRequired):
		respondError(w, http.StatusPaymentRequired, err.Error())

	case errors.Is(err, services.ErrAlreadyEnrolled),
		errors.Is(err, services.ErrNoSlotsAvailable),
		errors.Is(err, services.ErrUserEmailConflict),
		errors.Is(err, services.ErrUserDocumentConflict),
		errors.Is(err, services.ErrMembershipOpenConflict):
		respondError(w, http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrMatchNotOpen),
		errors.Is(err, services.ErrMatchAlreadyStarted),
		errors.Is(err, services.ErrMatchNotPayable),
		errors.Is(err, services.ErrInvalidWinnerResult),
		errors.Is(err, services.ErrInvalidDocumentNumber),
		errors.Is(err, services.ErrWrongPassword):
		respondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrProviderFailed):
		respondError(w, http.StatusBadGateway, "payment provider unavailable")

	default:
		slog.Error("unhandled service error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
