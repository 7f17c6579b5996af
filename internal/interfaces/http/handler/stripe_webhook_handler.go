package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/encargos/storefront/internal/infrastructure/billing"
	"github.com/encargos/storefront/internal/infrastructure/logger"
	"github.com/encargos/storefront/internal/interfaces/http/dto"
)

// Maximum webhook payload size (64KB - Stripe webhooks are typically small)
const maxWebhookPayloadSize = 65536

// WebhookProcessor verifies and handles a raw Stripe delivery
type WebhookProcessor interface {
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (*billing.WebhookResult, error)
}

// StripeWebhookHandler handles Stripe webhook deliveries.
// These are called by Stripe and carry no customer session.
type StripeWebhookHandler struct {
	BaseHandler
	processor WebhookProcessor
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(base BaseHandler, processor WebhookProcessor) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		BaseHandler: base,
		processor:   processor,
	}
}

// StripeWebhookResponse acknowledges a delivery
type StripeWebhookResponse struct {
	Received  bool   `json:"received"`
	EventID   string `json:"event_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Message   string `json:"message,omitempty"`
}

// HandleStripeWebhook verifies the Stripe-Signature and logs payment outcomes
// POST /webhooks/stripe
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// Stripe requires the raw body for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Payload too large")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidSignature, "Missing Stripe-Signature header")
		return
	}

	result, err := h.processor.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidSignature, "Invalid signature")
			return
		}
		logger.GetGinLogger(c).Error("Failed to process Stripe webhook", zap.Error(err))
		// 5xx makes Stripe retry the delivery
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Failed to process webhook")
		return
	}

	c.JSON(http.StatusOK, StripeWebhookResponse{
		Received:  true,
		EventID:   result.EventID,
		EventType: result.EventType,
		Message:   result.Message,
	})
}
