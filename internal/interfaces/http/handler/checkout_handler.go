package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	encargoapp "github.com/encargos/storefront/internal/application/encargo"
	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler drives card checkout
type CheckoutHandler struct {
	BaseHandler
	checkout *encargoapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(base BaseHandler, checkout *encargoapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		BaseHandler: base,
		checkout:    checkout,
	}
}

// Begin quotes the cart and opens a payment intent for it
// POST /checkout
func (h *CheckoutHandler) Begin(c *gin.Context) {
	var req encargo.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}
	state, err := h.checkout.Begin(c.Request.Context(), middleware.GetSession(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Confirm checks the payment and places the order when it succeeded.
// A failed payment is still a 200: the body carries the cancel redirect.
// POST /checkout/confirm
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	var input encargoapp.ConfirmInput
	if !h.BindJSON(c, &input) {
		return
	}
	result, err := h.checkout.Confirm(c.Request.Context(), middleware.GetSession(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
