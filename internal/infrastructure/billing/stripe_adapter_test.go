package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/domain/shared"
)

// mockBackend implements stripe.Backend for testing
type mockBackend struct {
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

func testConfig() *StripeConfig {
	return &StripeConfig{
		SecretKey:      "sk_test_123456789",
		PublishableKey: "pk_test_123456789",
		WebhookSecret:  "whsec_test_123456789",
		IsTestMode:     true,
		Currency:       "USD",
	}
}

func newTestAdapter(t *testing.T) *StripeAdapter {
	t.Helper()
	adapter, err := NewStripeAdapter(testConfig(), zap.NewNop())
	require.NoError(t, err)
	return adapter
}

// setupMockBackend installs a mock Stripe backend for the duration of the test
func setupMockBackend(t *testing.T, handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)) {
	t.Helper()
	stripe.SetBackend(stripe.APIBackend, &mockBackend{handler: handler})
	t.Cleanup(func() {
		stripe.SetBackend(stripe.APIBackend, nil)
	})
}

func TestStripeConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*StripeConfig)
		expectedErr string
	}{
		{"missing secret key", func(c *StripeConfig) { c.SecretKey = "" }, "secret key is required"},
		{"test mode with live key", func(c *StripeConfig) { c.SecretKey = "sk_live_123" }, "not a test key"},
		{"live mode with test key", func(c *StripeConfig) { c.IsTestMode = false }, "not a live key"},
		{"missing publishable key", func(c *StripeConfig) { c.PublishableKey = "" }, "publishable key is required"},
		{"missing currency", func(c *StripeConfig) { c.Currency = "" }, "currency is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			adapter, err := NewStripeAdapter(cfg, zap.NewNop())
			require.Error(t, err)
			assert.Nil(t, adapter)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}

	t.Run("lower-cases currency", func(t *testing.T) {
		adapter := newTestAdapter(t)
		assert.Equal(t, "usd", adapter.Currency())
		assert.Equal(t, "pk_test_123456789", adapter.PublishableKey())
	})
}

func TestStripeAdapter_CreatePaymentIntent(t *testing.T) {
	adapter := newTestAdapter(t)

	var captured *stripe.PaymentIntentParams
	setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		assert.Equal(t, http.MethodPost, method)
		assert.Equal(t, "/v1/payment_intents", path)
		captured = params.(*stripe.PaymentIntentParams)
		return json.Marshal(map[string]any{
			"id":            "pi_123",
			"object":        "payment_intent",
			"amount":        4297,
			"currency":      "usd",
			"status":        "requires_payment_method",
			"client_secret": "pi_123_secret_abc",
		})
	})

	out, err := adapter.CreatePaymentIntent(context.Background(), CreatePaymentIntentInput{
		CartID:      "cart-1",
		CustomerID:  "42",
		CartScope:   "9f2c1a",
		AmountCents: 4297,
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", out.PaymentIntentID)
	assert.Equal(t, "pi_123_secret_abc", out.ClientSecret)
	assert.Equal(t, int64(4297), out.AmountCents)
	assert.Equal(t, "usd", out.Currency)

	require.NotNil(t, captured)
	assert.Equal(t, int64(4297), *captured.Amount)
	assert.Equal(t, "usd", *captured.Currency)
	assert.Equal(t, "cart-1", captured.Metadata[MetadataCartID])
	assert.Equal(t, "42", captured.Metadata[MetadataCustomerID])
	assert.Equal(t, "9f2c1a", captured.Metadata[MetadataCartScope])
	require.NotNil(t, captured.IdempotencyKey)
	assert.Equal(t, "encargos-9f2c1a-cart-1-4297-usd", *captured.IdempotencyKey)
}

func TestStripeAdapter_CreatePaymentIntent_Errors(t *testing.T) {
	adapter := newTestAdapter(t)

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := adapter.CreatePaymentIntent(context.Background(), CreatePaymentIntentInput{CartID: "c", AmountCents: 0})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("processor error keeps status and message", func(t *testing.T) {
		setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			return nil, &stripe.Error{HTTPStatusCode: http.StatusPaymentRequired, Msg: "Your card was declined."}
		})

		_, err := adapter.CreatePaymentIntent(context.Background(), CreatePaymentIntentInput{CartID: "c", AmountCents: 100})
		var upstream *shared.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusPaymentRequired, upstream.Status)
		assert.Equal(t, "Your card was declined.", upstream.Message)
	})

	t.Run("network error falls back", func(t *testing.T) {
		setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
			return nil, fmt.Errorf("dial tcp: connection refused")
		})

		_, err := adapter.CreatePaymentIntent(context.Background(), CreatePaymentIntentInput{CartID: "c", AmountCents: 100})
		var upstream *shared.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusBadGateway, upstream.Status)
		assert.Equal(t, msgCreateIntentFailed, upstream.Message)
	})
}

func TestStripeAdapter_GetPayment(t *testing.T) {
	adapter := newTestAdapter(t)

	setupMockBackend(t, func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		assert.Equal(t, http.MethodGet, method)
		assert.Equal(t, "/v1/payment_intents/pi_123", path)
		return json.Marshal(map[string]any{
			"id":       "pi_123",
			"object":   "payment_intent",
			"amount":   4297,
			"currency": "usd",
			"status":   "succeeded",
			"metadata": map[string]string{"cart_id": "cart-1", "customer_id": "42", "cart_scope": "9f2c1a"},
		})
	})

	p, err := adapter.GetPayment(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.True(t, p.Succeeded())
	assert.Equal(t, encargo.PaymentSucceeded, p.Status)
	assert.Equal(t, "cart-1", p.CartID)
	assert.Equal(t, "42", p.CustomerID)
	assert.Equal(t, "9f2c1a", p.CartScope)
	assert.Equal(t, int64(4297), p.AmountCents)

	_, err = adapter.GetPayment(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func signedWebhook(t *testing.T, secret string, event map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: secret})
	return payload, signed.Header
}

func TestStripeAdapter_ProcessWebhook(t *testing.T) {
	adapter := newTestAdapter(t)

	t.Run("payment succeeded", func(t *testing.T) {
		payload, header := signedWebhook(t, testConfig().WebhookSecret, map[string]any{
			"id":          "evt_1",
			"object":      "event",
			"type":        EventPaymentIntentSucceeded,
			"api_version": stripe.APIVersion,
			"data": map[string]any{"object": map[string]any{
				"id":       "pi_123",
				"object":   "payment_intent",
				"status":   "succeeded",
				"amount":   4297,
				"metadata": map[string]string{"cart_id": "cart-1"},
			}},
		})

		result, err := adapter.ProcessWebhook(context.Background(), payload, header)
		require.NoError(t, err)
		assert.True(t, result.Processed)
		assert.Equal(t, "evt_1", result.EventID)
		assert.Equal(t, "pi_123", result.PaymentIntentID)
		assert.Equal(t, "cart-1", result.CartID)
	})

	t.Run("unhandled event type", func(t *testing.T) {
		payload, header := signedWebhook(t, testConfig().WebhookSecret, map[string]any{
			"id":          "evt_2",
			"object":      "event",
			"type":        "customer.created",
			"api_version": stripe.APIVersion,
			"data":        map[string]any{"object": map[string]any{"id": "cus_1", "object": "customer"}},
		})

		result, err := adapter.ProcessWebhook(context.Background(), payload, header)
		require.NoError(t, err)
		assert.Equal(t, "Event type not handled", result.Message)
	})

	t.Run("bad signature", func(t *testing.T) {
		payload, header := signedWebhook(t, "whsec_other", map[string]any{
			"id": "evt_3", "object": "event", "type": EventPaymentIntentSucceeded,
		})

		_, err := adapter.ProcessWebhook(context.Background(), payload, header)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}
