package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidState, http.StatusConflict},
		{ErrCodeUpstream, http.StatusBadGateway},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	data, err := json.Marshal(NewErrorResponse(ErrCodeUpstream, "timeout"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false,"message":"timeout","error":"UPSTREAM_ERROR"}`, string(data))

	data, err = json.Marshal(NewErrorResponseWithRequestID(ErrCodeUnauthorized, "login", "req-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false,"message":"login","error":"UNAUTHORIZED","request_id":"req-1"}`, string(data))
}
