package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for unknown emails and password
	// mismatches alike, so login cannot be used to probe for accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDeactivated rejects any gate for an inactive account,
	// regardless of credential or token validity.
	ErrAccountDeactivated = errors.New("account deactivated")

	ErrMissingChallengeData = errors.New("missing verification data")
	ErrChallengeNotFound    = errors.New("invalid or expired session")
	ErrCodeExpired          = errors.New("code expired")
	ErrIncorrectCode        = errors.New("incorrect code")
	ErrResendThrottled      = errors.New("resend throttled")

	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrInvalidInput   = errors.New("invalid input")
	ErrEmailTaken     = errors.New("email is already taken")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrForbidden      = errors.New("forbidden")
	ErrDeliveryFailed = errors.New("email delivery failed")
)
