package backend

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/encargos/storefront/internal/domain/shared"
)

// Fallback messages used when the backend gives no usable text
const (
	MsgResolveFailed = "No se pudo resolver el enlace"
	MsgCaptureFailed = "No se pudo guardar el encargo"
	MsgQuoteFailed   = "No se pudo calcular el envío"
	MsgMineFailed    = "No se pudieron cargar tus encargos"
	MsgOrderFailed   = "No se pudo crear la orden"
)

// maxRawMessage bounds how much of a non-JSON error body is surfaced
const maxRawMessage = 500

// upstreamError turns a failed backend response into a shared.UpstreamError.
// The message is the JSON "message", then the JSON "error", then the raw
// body text, then fallback. A status below 400 becomes 500.
func upstreamError(status int, body []byte, fallback string) *shared.UpstreamError {
	return shared.NewUpstreamError(status, errorMessage(body, fallback))
}

// malformedError reports a 2xx response whose body could not be decoded
func malformedError(body []byte, fallback string, cause error) *shared.UpstreamError {
	e := shared.NewUpstreamError(http.StatusBadGateway, errorMessage(body, fallback))
	e.Err = cause
	return e
}

// transportError reports a request that never produced a response
func transportError(fallback string, cause error) *shared.UpstreamError {
	e := shared.NewUpstreamError(http.StatusInternalServerError, fallback)
	e.Err = cause
	return e
}

func errorMessage(body []byte, fallback string) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return fallback
	}
	text := strings.TrimSpace(string(body))
	if text == "" || !utf8.ValidString(text) {
		return fallback
	}
	if len(text) > maxRawMessage {
		text = truncate(text, maxRawMessage)
	}
	return text
}

func truncate(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
