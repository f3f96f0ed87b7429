package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common failures of the password reset flow.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrAlreadySubmitted = errors.New("password reset already completed")
)

// ValidationError reports form input that was rejected before any request to
// the backend was made.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RemoteRejectionError means the backend answered but refused the change,
// e.g. an expired token or a password policy violation.
type RemoteRejectionError struct {
	StatusCode int
	// Message is the backend's own explanation, if it sent one.
	Message string
}

func (e *RemoteRejectionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend rejected password change: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend rejected password change: status %d", e.StatusCode)
}

// TransportError means the request never completed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("password change request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
