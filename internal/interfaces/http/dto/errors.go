package dto

import "net/http"

// Error codes carried in the "error" field of error bodies. They match the
// shared.DomainError codes so domain errors pass through unchanged.
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidState     = "INVALID_STATE"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeCancelled        = "REQUEST_CANCELLED"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// StatusClientClosedRequest is reported when the caller went away mid-request
const StatusClientClosedRequest = 499

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeInvalidState:     http.StatusConflict,
	ErrCodeUpstream:         http.StatusBadGateway,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeInvalidSignature: http.StatusBadRequest,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeCancelled:        StatusClientClosedRequest,
	ErrCodeTimeout:          http.StatusGatewayTimeout,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
