package dto

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	Redirect  string `json:"redirect,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		OK:      false,
		Message: message,
		Error:   code,
	}
}

// NewErrorResponseWithRequestID creates an error response tagged with the request id
func NewErrorResponseWithRequestID(code, message, requestID string) ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.RequestID = requestID
	return resp
}

// OKResponse acknowledges a request that returns no payload
type OKResponse struct {
	OK bool `json:"ok"`
}
