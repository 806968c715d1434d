package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrAlreadyExists        = errors.New("resource already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrBadRequest           = errors.New("bad request")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrValidationFailed     = errors.New("validation failed")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrAccountLocked        = errors.New("account locked")
	ErrAccountSuspended     = errors.New("account suspended")
	ErrTokenExpired         = errors.New("token expired")
	ErrInvalidToken         = errors.New("invalid token")
	ErrCredentialsStale     = errors.New("password changed after token was issued")
	ErrTwoFactorRequired    = errors.New("two-factor backup code required")
	ErrInvariantViolation   = errors.New("invariant violation")
)

// Error codes returned to API clients
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeAccountLocked        = "ACCOUNT_LOCKED"
	CodeAccountSuspended     = "ACCOUNT_SUSPENDED"
	CodeTokenExpired         = "TOKEN_EXPIRED"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeTwoFactorRequired    = "TWO_FACTOR_REQUIRED"
	CodeInvariantViolation   = "INVARIANT_VIOLATION"
	CodeInternalError        = "INTERNAL_ERROR"
)

// FieldError describes one violated field constraint
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field, not just the first
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// Add appends a field violation
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Merge appends every violation from other
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Fields = append(e.Fields, other.Fields...)
}

// OrNil returns nil when no violation was recorded
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError builds a single-field validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// AccountLockedError reports when a locked account becomes usable again
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.UTC().Format(time.RFC3339))
}

func (e *AccountLockedError) Unwrap() error { return ErrAccountLocked }

// RetryAfter returns the remaining lock time relative to now, never negative
func (e *AccountLockedError) RetryAfter(now time.Time) time.Duration {
	if d := e.Until.Sub(now); d > 0 {
		return d
	}
	return 0
}

// InvariantViolation wraps ErrInvariantViolation with a description
func InvariantViolation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// AppError represents application error with HTTP status
type AppError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// FromDomain maps a domain error onto its transport representation.
// Unrecognised errors become internal errors whose message never echoes the cause.
func FromDomain(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		e := NewAppError(http.StatusBadRequest, CodeValidationFailed, validationErr.Error(), err)
		e.Fields = validationErr.Fields
		return e
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, "resource not found", err)
	case errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, CodeConflict, err.Error(), err)
	case errors.Is(err, ErrAuthenticationFailed):
		return NewAppError(http.StatusUnauthorized, CodeAuthenticationFailed, ErrAuthenticationFailed.Error(), err)
	case errors.Is(err, ErrAccountLocked):
		return NewAppError(http.StatusLocked, CodeAccountLocked, err.Error(), err)
	case errors.Is(err, ErrAccountSuspended):
		return NewAppError(http.StatusForbidden, CodeAccountSuspended, ErrAccountSuspended.Error(), err)
	case errors.Is(err, ErrTokenExpired):
		return NewAppError(http.StatusBadRequest, CodeTokenExpired, "token is invalid or has expired", err)
	case errors.Is(err, ErrInvalidToken):
		return NewAppError(http.StatusBadRequest, CodeInvalidToken, "token is invalid or has expired", err)
	case errors.Is(err, ErrTwoFactorRequired):
		return NewAppError(http.StatusUnauthorized, CodeTwoFactorRequired, ErrTwoFactorRequired.Error(), err)
	case errors.Is(err, ErrCredentialsStale):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "please log in again", err)
	case errors.Is(err, ErrInvariantViolation):
		return NewAppError(http.StatusUnprocessableEntity, CodeInvariantViolation, err.Error(), err)
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "unauthorized", err)
	case errors.Is(err, ErrForbidden):
		return NewAppError(http.StatusForbidden, CodeForbidden, "forbidden", err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadRequest):
		return NewAppError(http.StatusBadRequest, CodeBadRequest, err.Error(), err)
	}
	return InternalError(err)
}
