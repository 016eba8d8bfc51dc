// Package common defines shared sentinel errors used across the server and
// CLI layers of Crusty-Crawler. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Auth errors. The HTTP surface collapses all of these into a single
	// generic rejection; the distinct values exist for internal flow control.
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid access token")

	// Credential-recovery errors.
	ErrNoSuchEmail          = errors.New("no user found with that email address")
	ErrNotifierUnconfigured = errors.New("email configuration not set up")
	ErrNotifierFailed       = errors.New("recovery notification failed")

	// Server-lifecycle errors.
	ErrAlreadyRunning = errors.New("server is already running")
	ErrNotRunning     = errors.New("server is not running")
)

// ValidationError reports user-correctable input problems during
// registration. The message is safe to show verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
