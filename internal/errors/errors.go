package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common error types for the portal client
var (
	// Session errors
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token errors
	ErrRefreshFailed       = errors.New("token refresh failed")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Flow errors
	ErrInvalidState = errors.New("invalid flow state")

	// A 2xx reply whose body does not carry what the operation needs
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// ValidationError is raised before any network call when user input is rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// BackendError is a non-2xx, non-401 response reported by the backend.
// Message holds the backend supplied text, array messages already joined with ", ".
type BackendError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// TransportError is a failure before any usable response was obtained
// (DNS, connection refused, timeout, unreadable body).
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("transport")
	if e.Op != "" {
		b.WriteString(" " + e.Op)
	}
	if e.URL != "" {
		b.WriteString(" " + e.URL)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

// AsBackend returns the BackendError in err's chain, if any.
func AsBackend(err error) (*BackendError, bool) {
	var b *BackendError
	if errors.As(err, &b) {
		return b, true
	}
	return nil, false
}
