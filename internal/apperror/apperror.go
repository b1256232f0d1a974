// Package apperror defines the typed errors returned by the service and
// repository layers. Handlers translate them into HTTP status codes with
// errors.Is; nothing in this package knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error produced by the application wraps exactly one
// of these, so callers can classify failures without string matching.
var (
	// ErrValidation marks malformed input (bad email, missing field).
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate marks a registration attempt with an email that is
	// already taken.
	ErrDuplicate = errors.New("duplicate")
	// ErrCredentials marks a login with an unknown email or wrong password.
	ErrCredentials = errors.New("invalid credentials")
	// ErrUnauthorized marks a missing, malformed, tampered or expired
	// bearer token, including a token whose subject is not numeric.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnknownUser marks a syntactically valid token (or a request
	// parameter) referencing a user id that was never registered. Kept
	// distinct from ErrUnauthorized so handlers can preserve the
	// two-tier 401/400 separation.
	ErrUnknownUser = errors.New("unknown user")
	// ErrNotFound marks an absent operation target (e.g. a task id).
	ErrNotFound = errors.New("not found")
)

// AppError attaches a human-readable message (and optionally the offending
// field) to one of the sentinels above.
type AppError struct {
	Err     error  // sentinel this error wraps
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed returns an AppError for malformed input on field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateEmail reports a registration conflict on email.
func DuplicateEmail(email string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: fmt.Sprintf("email %s is already registered", email),
		Field:   "email",
	}
}

// InvalidCredentials reports a failed login. The message is deliberately
// opaque: it does not reveal whether the email or the password was wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrCredentials,
		Message: "invalid email or password",
	}
}

// Unauthorized reports a rejected bearer token.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// UnknownUser reports a user id that is not present in the directory.
func UnknownUser(id uint32) *AppError {
	return &AppError{
		Err:     ErrUnknownUser,
		Message: fmt.Sprintf("user %d is not registered", id),
	}
}

// NotFound reports an absent resource, e.g. NotFound("task", 3).
func NotFound(resource string, id uint32) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}
