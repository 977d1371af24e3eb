package services

import "errors"

// Shared errors used across services and in HTTP mapping.
var (
	// Not found
	ErrNotFound        = errors.New("requested resource not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrMatchNotOpen          = errors.New("match is not open for enrollment")
	ErrMatchAlreadyStarted   = errors.New("match already started or finished")
	ErrNoSlotsAvailable      = errors.New("no slots available")
	ErrMatchNotPayable       = errors.New("match is not available for payment")
	ErrInvalidWinnerResult   = errors.New("invalid winner result value")
	ErrInvalidDocumentNumber = errors.New("document number is required")

	// Conflicts
	ErrAlreadyEnrolled        = errors.New("user is already enrolled in this match")
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrUserDocumentConflict   = errors.New("document is already registered")
	ErrMembershipOpenConflict = errors.New("user already has a current team")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid document or password")
	ErrSessionInvalid     = errors.New("session closed or token invalid")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")

	// Payments
	ErrPaymentRequired = errors.New("approved payment required to join this match")
	ErrProviderFailed  = errors.New("payment provider request failed")
)
