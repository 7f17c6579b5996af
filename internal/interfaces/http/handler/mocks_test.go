package handler

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/infrastructure/billing"
)

// MockBackend is a mock implementation of the encargos backend port
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Resolve(ctx context.Context, rawURL string) (map[string]json.RawMessage, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]json.RawMessage), args.Error(1)
}

func (m *MockBackend) Capture(ctx context.Context, token string, req encargo.CaptureRequest) (encargo.CaptureResult, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(encargo.CaptureResult), args.Error(1)
}

func (m *MockBackend) Quote(ctx context.Context, token string, req encargo.QuoteRequest) (encargo.Quote, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(encargo.Quote), args.Error(1)
}

func (m *MockBackend) ListMine(ctx context.Context, token string) ([]encargo.Encargo, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]encargo.Encargo), args.Error(1)
}

func (m *MockBackend) CreateOrder(ctx context.Context, token string, req encargo.OrderRequest) (encargo.OrderResult, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(encargo.OrderResult), args.Error(1)
}

// MockPaymentProcessor is a mock implementation of the payment port
type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) CreatePaymentIntent(ctx context.Context, input billing.CreatePaymentIntentInput) (*billing.PaymentIntentOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentIntentOutput), args.Error(1)
}

func (m *MockPaymentProcessor) GetPayment(ctx context.Context, paymentIntentID string) (encargo.Payment, error) {
	args := m.Called(ctx, paymentIntentID)
	return args.Get(0).(encargo.Payment), args.Error(1)
}

func (m *MockPaymentProcessor) PublishableKey() string {
	return "pk_test_123"
}

func (m *MockPaymentProcessor) Currency() string {
	return "usd"
}

// MockWebhookProcessor is a mock implementation of WebhookProcessor
type MockWebhookProcessor struct {
	mock.Mock
}

func (m *MockWebhookProcessor) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*billing.WebhookResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.WebhookResult), args.Error(1)
}
