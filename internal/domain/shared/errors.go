package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies still satisfy errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "Authentication required")
	ErrNotFound     = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidState = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// InvalidInput returns an INVALID_INPUT error with a specific message
func InvalidInput(message string) *DomainError {
	return NewDomainError(ErrInvalidInput.Code, message)
}

// UnauthorizedError is returned when an operation requires an authenticated
// customer. Redirect carries the login URL (with the original destination
// preserved) when the caller should be sent to log in.
type UnauthorizedError struct {
	Message  string
	Redirect string
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return ErrUnauthorized.Message
	}
	return e.Message
}

// Is makes errors.Is(err, ErrUnauthorized) hold for every UnauthorizedError
func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// NewUnauthorized creates an UnauthorizedError without a redirect
func NewUnauthorized(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// UpstreamError wraps a failure reported by the backend API or the payment
// processor. Status is the HTTP status to propagate to the client.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates an UpstreamError. A status below 400 is replaced
// with 500 so a failure is never reported as success.
func NewUpstreamError(status int, message string) *UpstreamError {
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	return &UpstreamError{Status: status, Message: message}
}
