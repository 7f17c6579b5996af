// Package encargo orchestrates the encargos pipelines: capture, quote and
// checkout. Services take an explicit encargo.Session on every call and hold
// no per-customer state.
package encargo

import (
	"context"
	"encoding/json"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/infrastructure/billing"
)

// Backend is the encargos backend API
type Backend interface {
	Resolve(ctx context.Context, rawURL string) (map[string]json.RawMessage, error)
	Capture(ctx context.Context, token string, req encargo.CaptureRequest) (encargo.CaptureResult, error)
	Quote(ctx context.Context, token string, req encargo.QuoteRequest) (encargo.Quote, error)
	ListMine(ctx context.Context, token string) ([]encargo.Encargo, error)
	CreateOrder(ctx context.Context, token string, req encargo.OrderRequest) (encargo.OrderResult, error)
}

// PaymentProcessor creates and inspects card payments
type PaymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, input billing.CreatePaymentIntentInput) (*billing.PaymentIntentOutput, error)
	GetPayment(ctx context.Context, paymentIntentID string) (encargo.Payment, error)
	PublishableKey() string
	Currency() string
}
