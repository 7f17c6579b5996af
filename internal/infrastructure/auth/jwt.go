package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/infrastructure/config"
)

// Common errors
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// identityClaims are checked in order for the customer id
var identityClaims = []string{"customer_id", "user_id", "sub"}

// SessionReader turns a bearer token into an encargo.Session.
//
// The backend is the authority on tokens. Without a secret the claims are
// read unverified and only used to scope the cart; with a secret the
// signature, expiry and (when set) issuer are verified and a failing token
// yields an anonymous session.
type SessionReader struct {
	secret []byte
	parser *jwt.Parser
}

// NewSessionReader creates a SessionReader from the JWT configuration
func NewSessionReader(cfg config.JWTConfig) *SessionReader {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if cfg.Issuer != "" && cfg.Secret != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &SessionReader{
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(opts...),
	}
}

// Verifies reports whether tokens are signature-checked
func (r *SessionReader) Verifies() bool {
	return len(r.secret) > 0
}

// FromAuthorizationHeader reads a "Bearer <token>" header value
func (r *SessionReader) FromAuthorizationHeader(header string) (encargo.Session, error) {
	token, ok := BearerToken(header)
	if !ok {
		return encargo.Session{}, ErrMissingToken
	}
	return r.FromToken(token)
}

// FromToken builds a session for token. An opaque (non-JWT) token is
// accepted as-is when verification is off; it simply carries no identity.
func (r *SessionReader) FromToken(token string) (encargo.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return encargo.Session{}, ErrMissingToken
	}

	claims := jwt.MapClaims{}
	if r.Verifies() {
		_, err := r.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return r.secret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return encargo.Session{}, ErrExpiredToken
			}
			return encargo.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else if _, _, err := r.parser.ParseUnverified(token, claims); err != nil {
		return encargo.Session{Token: token}, nil
	}

	return encargo.Session{Token: token, CustomerID: customerID(claims)}, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func customerID(claims jwt.MapClaims) string {
	for _, key := range identityClaims {
		switch v := claims[key].(type) {
		case string:
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
