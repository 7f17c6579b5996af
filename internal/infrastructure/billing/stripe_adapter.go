package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/domain/shared"
)

// Fallback messages for processor failures
const (
	msgCreateIntentFailed = "No se pudo iniciar el pago"
	msgGetIntentFailed    = "No se pudo verificar el pago"
)

// ErrInvalidSignature is returned when a webhook payload fails verification
var ErrInvalidSignature = errors.New("stripe: webhook signature verification failed")

// StripeAdapter drives card payments for encargos checkout through PaymentIntents
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// PublishableKey returns the key the card widget is initialized with
func (a *StripeAdapter) PublishableKey() string {
	return a.config.PublishableKey
}

// Currency returns the configured charge currency
func (a *StripeAdapter) Currency() string {
	return a.config.Currency
}

// CreatePaymentIntent creates a PaymentIntent for a cart. The idempotency key
// is derived from cart and amount so a repeated checkout of the same cart
// returns the same intent.
func (a *StripeAdapter) CreatePaymentIntent(ctx context.Context, input CreatePaymentIntentInput) (*PaymentIntentOutput, error) {
	if input.AmountCents <= 0 {
		return nil, shared.InvalidInput("payment amount must be positive")
	}
	currency := input.Currency
	if currency == "" {
		currency = a.config.Currency
	}

	a.logger.Debug("Creating Stripe payment intent",
		zap.String("cart_id", input.CartID),
		zap.Int64("amount_cents", input.AmountCents),
		zap.String("currency", currency))

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(input.AmountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if input.Description != "" {
		params.Description = stripe.String(input.Description)
	}
	params.Metadata = map[string]string{
		MetadataCartID:     input.CartID,
		MetadataCustomerID: input.CustomerID,
		MetadataCartScope:  input.CartScope,
	}
	params.Context = ctx
	params.SetIdempotencyKey(fmt.Sprintf("encargos-%s-%s-%d-%s", input.CartScope, input.CartID, input.AmountCents, currency))

	pi, err := paymentintent.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe payment intent",
			zap.String("cart_id", input.CartID),
			zap.Error(err))
		return nil, processorError(err, msgCreateIntentFailed)
	}

	a.logger.Info("Created Stripe payment intent",
		zap.String("cart_id", input.CartID),
		zap.String("payment_intent_id", pi.ID))

	return &PaymentIntentOutput{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		AmountCents:     pi.Amount,
		Currency:        string(pi.Currency),
		Status:          string(pi.Status),
	}, nil
}

// GetPayment fetches a PaymentIntent and maps it onto encargo.Payment
func (a *StripeAdapter) GetPayment(ctx context.Context, paymentIntentID string) (encargo.Payment, error) {
	if paymentIntentID == "" {
		return encargo.Payment{}, shared.InvalidInput("payment_intent_id is required")
	}

	a.logger.Debug("Getting Stripe payment intent", zap.String("payment_intent_id", paymentIntentID))

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(paymentIntentID, params)
	if err != nil {
		a.logger.Error("Failed to get Stripe payment intent",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
		return encargo.Payment{}, processorError(err, msgGetIntentFailed)
	}

	return paymentFromIntent(pi), nil
}

// ProcessWebhook verifies and records a Stripe webhook delivery. Payment
// outcomes are only logged; orders are created by the confirm step.
func (a *StripeAdapter) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, a.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		a.logger.Warn("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch string(event.Type) {
	case EventPaymentIntentSucceeded, EventPaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			a.logger.Error("Failed to decode payment intent from webhook",
				zap.String("event_id", event.ID),
				zap.Error(err))
			result.Processed = false
			result.Message = "invalid payment intent payload"
			return result, fmt.Errorf("stripe: decode webhook payment intent: %w", err)
		}
		payment := paymentFromIntent(&pi)
		result.PaymentIntentID = payment.ID
		result.CartID = payment.CartID

		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("payment_intent_id", payment.ID),
			zap.String("cart_id", payment.CartID),
			zap.String("customer_id", payment.CustomerID),
			zap.Int64("amount_cents", payment.AmountCents),
		}
		if payment.Succeeded() {
			a.logger.Info("Payment intent succeeded", fields...)
		} else {
			a.logger.Warn("Payment intent failed", fields...)
		}
	default:
		a.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	return result, nil
}

func paymentFromIntent(pi *stripe.PaymentIntent) encargo.Payment {
	p := encargo.Payment{
		ID:          pi.ID,
		Status:      encargo.PaymentStatus(pi.Status),
		AmountCents: pi.Amount,
		Currency:    string(pi.Currency),
	}
	if pi.Metadata != nil {
		p.CartID = pi.Metadata[MetadataCartID]
		p.CustomerID = pi.Metadata[MetadataCustomerID]
		p.CartScope = pi.Metadata[MetadataCartScope]
	}
	return p
}

// processorError maps a Stripe error onto shared.UpstreamError, keeping the
// processor's status and message when it returned one.
func processorError(err error, fallback string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = fallback
		}
		status := stripeErr.HTTPStatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		e := shared.NewUpstreamError(status, msg)
		e.Err = err
		return e
	}
	e := shared.NewUpstreamError(http.StatusBadGateway, fallback)
	e.Err = err
	return e
}
