package encargo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/domain/shared"
	"github.com/encargos/storefront/internal/infrastructure/billing"
	"github.com/encargos/storefront/internal/infrastructure/telemetry"
)

// Checkout messages
const (
	MsgCheckoutLogin      = "Inicia sesión para pagar tu encargo"
	MsgOwnersUnavailable  = "Algunos artículos no se pueden enviar a esta dirección"
	MsgPaymentNotYours    = "El pago no corresponde a esta sesión"
	defaultCheckoutReturn = "/encargos/checkout"
)

// CheckoutConfig holds the redirect targets and cart lifetime
type CheckoutConfig struct {
	LoginURL   string
	SuccessURL string
	CancelURL  string
	CartTTL    time.Duration
}

// ConfirmInput identifies the payment to confirm
type ConfirmInput struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	ReturnPath      string `json:"return_path"`
}

// CheckoutService runs the cart → quote → payment → order pipeline
type CheckoutService struct {
	quotes   *QuoteService
	backend  Backend
	carts    encargo.CartStore
	payments PaymentProcessor
	config   CheckoutConfig
	logger   *zap.Logger
	metrics  *telemetry.EncargoMetrics
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	quotes *QuoteService,
	backend Backend,
	carts encargo.CartStore,
	payments PaymentProcessor,
	config CheckoutConfig,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		quotes:   quotes,
		backend:  backend,
		carts:    carts,
		payments: payments,
		config:   config,
		logger:   logger,
	}
}

// SetMetrics sets the metrics collector
func (s *CheckoutService) SetMetrics(m *telemetry.EncargoMetrics) {
	s.metrics = m
}

// Begin starts a checkout: it finds or creates the session's cart, quotes
// shipping and opens a PaymentIntent for subtotal plus shipping. Without a
// token nothing is written and the error carries a login redirect.
func (s *CheckoutService) Begin(ctx context.Context, session encargo.Session, req encargo.CheckoutRequest) (state *encargo.CheckoutState, err error) {
	if !session.Authenticated() {
		return nil, s.loginRequired(req.ReturnPath)
	}

	quoteReq, err := req.Quote().Validate()
	if err != nil {
		return nil, err
	}
	subtotal, err := quoteReq.Subtotal(s.payments.Currency())
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "begin",
		attribute.String("customer_id", session.CustomerID),
		attribute.Bool("force_new_cart", req.ForceNewCart))
	defer span.End()
	defer func(start time.Time) {
		telemetry.RecordError(span, err)
		s.metrics.RecordOperation(ctx, "checkout_begin", start, err)
	}(time.Now())

	cartID, err := s.cartFor(ctx, session, req.ForceNewCart)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("cart_id", cartID))

	quote, err := s.quotes.Quote(ctx, session, quoteReq)
	if err != nil {
		return nil, err
	}
	if len(quote.Unavailable) > 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, MsgOwnersUnavailable)
	}

	subtotalCents := encargo.ToCents(subtotal)
	amount := subtotalCents + quote.ShippingTotalCents

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	intent, err := s.payments.CreatePaymentIntent(ctx, billing.CreatePaymentIntentInput{
		CartID:      cartID,
		CustomerID:  session.CustomerID,
		CartScope:   session.ScopeDigest(),
		AmountCents: amount,
		Description: "Encargo " + cartID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Checkout started",
		zap.String("cart_id", cartID),
		zap.String("customer_id", session.CustomerID),
		zap.String("payment_intent_id", intent.PaymentIntentID),
		zap.Int64("amount_cents", amount))

	return &encargo.CheckoutState{
		CartID:          cartID,
		Quote:           quote,
		SubtotalCents:   subtotalCents,
		AmountCents:     intent.AmountCents,
		Currency:        intent.Currency,
		PaymentIntentID: intent.PaymentIntentID,
		ClientSecret:    intent.ClientSecret,
		PublishableKey:  s.payments.PublishableKey(),
	}, nil
}

// Confirm checks the PaymentIntent after the card widget returns. A
// succeeded payment becomes a backend order and a redirect to the success
// URL; anything else redirects to the cancel URL with the cart kept.
//
// If the order cannot be created after the payment succeeded the error is
// returned and logged with the intent id; nothing reconciles it later.
func (s *CheckoutService) Confirm(ctx context.Context, session encargo.Session, input ConfirmInput) (result *encargo.ConfirmResult, err error) {
	if !session.Authenticated() {
		return nil, s.loginRequired(input.ReturnPath)
	}
	intentID := strings.TrimSpace(input.PaymentIntentID)
	if intentID == "" {
		return nil, shared.InvalidInput("payment_intent_id is required")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "confirm",
		attribute.String("payment_intent_id", intentID))
	defer span.End()
	defer func(start time.Time) {
		telemetry.RecordError(span, err)
		s.metrics.RecordOperation(ctx, "checkout_confirm", start, err)
	}(time.Now())

	payment, err := s.payments.GetPayment(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if !ownsPayment(session, payment) {
		s.logger.Warn("Payment confirmed by another session",
			zap.String("payment_intent_id", payment.ID),
			zap.String("customer_id", session.CustomerID))
		return nil, shared.InvalidInput(MsgPaymentNotYours)
	}
	s.metrics.RecordPayment(ctx, string(payment.Status))

	cartID := payment.CartID
	if cartID == "" {
		if id, ok, err := s.carts.Get(ctx, session.CartScope()); err == nil && ok {
			cartID = id
		}
	}

	result = &encargo.ConfirmResult{
		Succeeded:       payment.Succeeded(),
		Status:          string(payment.Status),
		CartID:          cartID,
		PaymentIntentID: payment.ID,
	}

	if !payment.Succeeded() {
		s.logger.Info("Payment not completed",
			zap.String("payment_intent_id", payment.ID),
			zap.String("status", string(payment.Status)),
			zap.String("cart_id", cartID))
		result.Redirect = s.config.CancelURL
		if cartID != "" {
			result.Redirect = encargo.WithQuery(s.config.CancelURL, "cart_id", cartID)
		}
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	order, err := s.backend.CreateOrder(ctx, session.Token, encargo.OrderRequest{
		CartID:          cartID,
		PaymentIntentID: payment.ID,
		AmountCents:     payment.AmountCents,
		Currency:        payment.Currency,
	})
	if err != nil {
		s.logger.Error("Order creation failed after successful payment",
			zap.String("payment_intent_id", payment.ID),
			zap.String("cart_id", cartID),
			zap.String("customer_id", session.CustomerID),
			zap.Int64("amount_cents", payment.AmountCents),
			zap.Error(err))
		return nil, err
	}

	s.rotateCart(ctx, session, cartID)

	s.logger.Info("Order created",
		zap.String("order_id", order.OrderID),
		zap.String("cart_id", cartID),
		zap.String("payment_intent_id", payment.ID))

	result.OrderID = order.OrderID
	result.Redirect = s.config.SuccessURL
	if order.OrderID != "" {
		result.Redirect = encargo.WithQuery(s.config.SuccessURL, "order_id", order.OrderID)
	}
	return result, nil
}

// cartFor returns the active cart for the session, creating one when none
// exists or when a new cart is forced.
func (s *CheckoutService) cartFor(ctx context.Context, session encargo.Session, forceNew bool) (string, error) {
	scope := session.CartScope()
	if !forceNew {
		id, ok, err := s.carts.Get(ctx, scope)
		if err != nil {
			return "", err
		}
		if ok {
			return id, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.carts.Save(ctx, scope, id, s.config.CartTTL); err != nil {
		return "", err
	}
	s.logger.Debug("Created cart", zap.String("cart_id", id), zap.String("scope", scope))
	return id, nil
}

// rotateCart forgets the paid cart so the next checkout opens a new one.
// A newer cart opened with force_new_cart is left alone.
func (s *CheckoutService) rotateCart(ctx context.Context, session encargo.Session, paidCartID string) {
	scope := session.CartScope()
	current, ok, err := s.carts.Get(ctx, scope)
	if err != nil {
		s.logger.Warn("Failed to read cart for rotation", zap.String("cart_id", paidCartID), zap.Error(err))
		return
	}
	if !ok || current != paidCartID {
		return
	}
	if err := s.carts.Delete(ctx, scope); err != nil {
		s.logger.Warn("Failed to rotate cart after order",
			zap.String("cart_id", paidCartID),
			zap.Error(err))
	}
}

// ownsPayment checks the intent's metadata against the confirming session.
// An intent opened for a customer can only be confirmed by that customer.
func ownsPayment(session encargo.Session, payment encargo.Payment) bool {
	if payment.CustomerID != "" && payment.CustomerID != strings.TrimSpace(session.CustomerID) {
		return false
	}
	if payment.CartScope != "" && payment.CartScope != session.ScopeDigest() {
		return false
	}
	return true
}

// loginRequired builds the Unauthorized error. Only local paths are kept
// as the post-login destination.
func (s *CheckoutService) loginRequired(returnPath string) error {
	returnPath = strings.TrimSpace(returnPath)
	if !encargo.IsLocalPath(returnPath) {
		returnPath = defaultCheckoutReturn
	}
	return &shared.UnauthorizedError{
		Message:  MsgCheckoutLogin,
		Redirect: encargo.LoginRedirect(s.config.LoginURL, returnPath),
	}
}
