package encargo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/infrastructure/billing"
)

// MockBackend is a mock implementation of Backend
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

// MockPaymentProcessor is a mock implementation of PaymentProcessor
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

// MockCartStore is a mock implementation of encargo.CartStore
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Get(ctx context.Context, scope string) (string, bool, error) {
	args := m.Called(ctx, scope)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCartStore) Save(ctx context.Context, scope, cartID string, ttl time.Duration) error {
	args := m.Called(ctx, scope, cartID, ttl)
	return args.Error(0)
}

func (m *MockCartStore) Delete(ctx context.Context, scope string) error {
	args := m.Called(ctx, scope)
	return args.Error(0)
}

func (m *MockCartStore) Close() error {
	return nil
}
