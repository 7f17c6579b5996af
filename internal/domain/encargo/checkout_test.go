package encargo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.False(t, Session{Token: "  "}.Authenticated())
	assert.True(t, Session{Token: "tok"}.Authenticated())

	assert.Equal(t, GuestScope, Session{}.CartScope())
	assert.Equal(t, "customer:42", Session{Token: "tok", CustomerID: "42"}.CartScope())
	assert.Equal(t, "customer:42", Session{Token: "other", CustomerID: "42"}.CartScope())
}

func TestSession_OpaqueTokensGetSeparateScopes(t *testing.T) {
	alice := Session{Token: "opaque-token-alice"}
	bob := Session{Token: "opaque-token-bob"}

	assert.True(t, strings.HasPrefix(alice.CartScope(), "token:"))
	assert.NotContains(t, alice.CartScope(), "opaque-token-alice")
	assert.NotEqual(t, alice.CartScope(), bob.CartScope())
	assert.Equal(t, alice.CartScope(), Session{Token: "opaque-token-alice"}.CartScope())

	assert.Len(t, alice.ScopeDigest(), 16)
	assert.NotEqual(t, alice.ScopeDigest(), bob.ScopeDigest())
	assert.Equal(t, Session{Token: "a", CustomerID: "42"}.ScopeDigest(), Session{Token: "b", CustomerID: "42"}.ScopeDigest())
}

func TestLoginRedirect(t *testing.T) {
	tests := []struct {
		name     string
		loginURL string
		next     string
		want     string
	}{
		{"plain", "/login", "/checkout", "/login?next=%2Fcheckout"},
		{"keeps query", "https://shop.example/login?lang=es", "/encargos?step=2", "https://shop.example/login?lang=es&next=%2Fencargos%3Fstep%3D2"},
		{"empty next", "/login", "", "/login?next=%2F"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoginRedirect(tt.loginURL, tt.next))
		})
	}
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "/encargos/cancel?cart_id=c-1", WithQuery("/encargos/cancel", "cart_id", "c-1"))
	assert.Equal(t, "https://s.example/cancel?a=1&cart_id=c-1", WithQuery("https://s.example/cancel?a=1", "cart_id", "c-1"))
}

func TestPayment_Succeeded(t *testing.T) {
	assert.True(t, Payment{Status: PaymentSucceeded}.Succeeded())
	assert.False(t, Payment{Status: "requires_payment_method"}.Succeeded())
	assert.False(t, Payment{Status: "processing"}.Succeeded())
}

func TestIsLocalPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/encargos/checkout?step=2", true},
		{"/", true},
		{"", false},
		{"encargos", false},
		{"//evil.example.com", false},
		{"/\\evil.example.com", false},
		{"https://evil.example.com", false},
		{"/ok\nSet-Cookie: x", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLocalPath(tt.path))
		})
	}
}
