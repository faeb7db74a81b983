// Package errors provides standardized error handling for the HTTP boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Roster errors
const (
	ErrCodeActivityNotFound  ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"
	ErrCodeActivityFull      ErrorCode = "ACTIVITY_FULL"
	ErrCodeNotRegistered     ErrorCode = "NOT_REGISTERED"
)

// Request and infrastructure errors
const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error. Message is safe
// to show to clients; Details is for logs only.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status the error maps to.
func (e *StandardError) Status() int {
	return HTTPStatus(e.Code)
}

// NewActivityNotFoundError creates the error for an unknown activity name.
func NewActivityNotFoundError(activity string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityNotFound,
		Message:   "Activity not found",
		Details:   fmt.Sprintf("activity: %s", activity),
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadyRegisteredError creates the error for a duplicate signup.
func NewAlreadyRegisteredError(activity, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadyRegistered,
		Message:   "Student is already signed up for this activity",
		Details:   fmt.Sprintf("activity: %s, email: %s", activity, email),
		Timestamp: time.Now().UTC(),
	}
}

// NewActivityFullError creates the error for a signup past capacity.
func NewActivityFullError(activity string, capacity int) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityFull,
		Message:   "Activity is full",
		Details:   fmt.Sprintf("activity: %s, max_participants: %d", activity, capacity),
		Timestamp: time.Now().UTC(),
	}
}

// NewNotRegisteredError creates the error for unregistering an absent student.
func NewNotRegisteredError(activity, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotRegistered,
		Message:   "Student is not registered for this activity",
		Details:   fmt.Sprintf("activity: %s, email: %s", activity, email),
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a request validation error. message is
// returned to the client as-is.
func NewValidationError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError hides err behind a generic message.
func NewInternalError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal server error",
		Details:   details,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// HTTPStatusMapping maps error codes to response statuses.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeActivityNotFound:  http.StatusNotFound,
	ErrCodeAlreadyRegistered: http.StatusBadRequest,
	ErrCodeActivityFull:      http.StatusBadRequest,
	ErrCodeNotRegistered:     http.StatusBadRequest,
	ErrCodeValidationFailed:  http.StatusUnprocessableEntity,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// HTTPStatus returns the status for code, 500 for unknown codes.
func HTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether code is caused by the caller's input.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatus(code)
	return status >= 400 && status < 500
}

// AsStandardError returns err as a *StandardError, wrapping anything else
// as an internal error.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}
