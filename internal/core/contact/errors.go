package contact

import "errors"

var (
	// ErrInvalidSubmission is returned when a contact form fails validation
	ErrInvalidSubmission = errors.New("invalid contact submission")

	// ErrRelayFailed is returned when either template send fails
	ErrRelayFailed = errors.New("failed to relay contact message")

	// ErrNotConfigured is returned when the email service credentials are missing
	ErrNotConfigured = errors.New("contact relay is not configured")
)

// IsValidationError checks if err is a submission validation failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidSubmission)
}
