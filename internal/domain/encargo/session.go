package encargo

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// GuestScope is the cart scope of a session without a token. Such sessions
// never reach the cart store; checkout rejects them first.
const GuestScope = "guest"

// Session carries the caller's credentials into each pipeline call.
// It is built per request and never looked up from ambient state.
type Session struct {
	Token      string
	CustomerID string
}

// Authenticated reports whether the session holds a bearer token
func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.Token) != ""
}

// CartScope is the key that cart identifiers are stored under. Tokens that
// carry no customer claim are scoped by a digest of the token itself, so two
// opaque tokens never share a cart.
func (s Session) CartScope() string {
	if id := strings.TrimSpace(s.CustomerID); id != "" {
		return "customer:" + id
	}
	if token := strings.TrimSpace(s.Token); token != "" {
		sum := sha256.Sum256([]byte(token))
		return "token:" + hex.EncodeToString(sum[:])
	}
	return GuestScope
}

// ScopeDigest is a short fingerprint of CartScope, safe to hand to the
// payment processor as metadata and inside idempotency keys.
func (s Session) ScopeDigest() string {
	sum := sha256.Sum256([]byte(s.CartScope()))
	return hex.EncodeToString(sum[:8])
}
