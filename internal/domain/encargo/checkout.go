package encargo

import (
	"net/url"
	"strings"
)

// CheckoutRequest starts a checkout for the given lines and address
type CheckoutRequest struct {
	Items        []CartLine      `json:"items"`
	Address      ShippingAddress `json:"shipping_address"`
	ForceNewCart bool            `json:"force_new_cart"`
	ReturnPath   string          `json:"return_path,omitempty"`
}

// Quote projects the checkout onto a quote request
func (r CheckoutRequest) Quote() QuoteRequest {
	return QuoteRequest{Items: r.Items, Address: r.Address}
}

// CheckoutState is what the card widget needs to collect payment
type CheckoutState struct {
	CartID          string `json:"cart_id"`
	Quote           Quote  `json:"quote"`
	SubtotalCents   int64  `json:"subtotal_cents"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	PublishableKey  string `json:"publishable_key"`
}

// PaymentStatus mirrors the processor's intent status
type PaymentStatus string

const PaymentSucceeded PaymentStatus = "succeeded"

// Payment is the processor's view of a payment intent
type Payment struct {
	ID          string
	Status      PaymentStatus
	AmountCents int64
	Currency    string
	CartID      string
	CustomerID  string
	// CartScope is the ScopeDigest of the session that opened the payment
	CartScope string
}

// Succeeded reports whether funds were captured
func (p Payment) Succeeded() bool {
	return p.Status == PaymentSucceeded
}

// OrderRequest asks the backend to persist a paid cart
type OrderRequest struct {
	CartID          string `json:"cart_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
}

// OrderResult is the backend's answer to an order creation
type OrderResult struct {
	OK      bool   `json:"ok"`
	OrderID string `json:"order_id"`
}

// ConfirmResult tells the caller where to send the customer next
type ConfirmResult struct {
	Succeeded       bool   `json:"succeeded"`
	Status          string `json:"status"`
	CartID          string `json:"cart_id,omitempty"`
	OrderID         string `json:"order_id,omitempty"`
	PaymentIntentID string `json:"payment_intent_id"`
	Redirect        string `json:"redirect"`
}

// LoginRedirect builds {loginURL}?next={path}, keeping any query already on loginURL
func LoginRedirect(loginURL, next string) string {
	if strings.TrimSpace(next) == "" {
		next = "/"
	}
	u, err := url.Parse(loginURL)
	if err != nil {
		return loginURL + "?next=" + url.QueryEscape(next)
	}
	q := u.Query()
	q.Set("next", next)
	u.RawQuery = q.Encode()
	return u.String()
}

// IsLocalPath reports whether p is a same-origin path that is safe as a
// post-login destination. Browsers read "/\host" like "//host", so a
// backslash right after the leading slash is rejected too.
func IsLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	if strings.ContainsAny(p, "\r\n\t") {
		return false
	}
	u, err := url.Parse(p)
	return err == nil && u.Scheme == "" && u.Host == ""
}

// WithQuery appends key=value to target, keeping any existing query
func WithQuery(target, key, value string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
