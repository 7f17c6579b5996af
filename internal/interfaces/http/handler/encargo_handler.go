package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	encargoapp "github.com/encargos/storefront/internal/application/encargo"
	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/interfaces/http/middleware"
)

// EncargoHandler serves product capture and shipping quotes
type EncargoHandler struct {
	BaseHandler
	captures *encargoapp.CaptureService
	quotes   *encargoapp.QuoteService
}

// NewEncargoHandler creates a new EncargoHandler
func NewEncargoHandler(base BaseHandler, captures *encargoapp.CaptureService, quotes *encargoapp.QuoteService) *EncargoHandler {
	return &EncargoHandler{
		BaseHandler: base,
		captures:    captures,
		quotes:      quotes,
	}
}

// urlArgument reads {"url": ...} loosely so a non-string url is reported
// as invalid input instead of a decode failure.
func (h *EncargoHandler) urlArgument(c *gin.Context) (string, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, msgInvalidBody)
		return "", false
	}
	rawURL, err := encargoapp.RequireURL(body["url"])
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return rawURL, true
}

// Resolve follows a product link through the backend resolver
// POST /encargos/resolve {url}
func (h *EncargoHandler) Resolve(c *gin.Context) {
	rawURL, ok := h.urlArgument(c)
	if !ok {
		return
	}
	res, err := h.captures.Resolve(c.Request.Context(), rawURL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Inspect reports source and identifier, resolving only when needed
// POST /encargos/inspect {url}
func (h *EncargoHandler) Inspect(c *gin.Context) {
	rawURL, ok := h.urlArgument(c)
	if !ok {
		return
	}
	res, err := h.captures.Inspect(c.Request.Context(), rawURL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Capture saves a product for the logged-in customer
// POST /encargos/capture
func (h *EncargoHandler) Capture(c *gin.Context) {
	var input encargoapp.CaptureInput
	if !h.BindJSON(c, &input) {
		return
	}
	res, err := h.captures.Capture(c.Request.Context(), middleware.GetSession(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Mine lists the logged-in customer's encargos
// GET /encargos/mine
func (h *EncargoHandler) Mine(c *gin.Context) {
	items, err := h.captures.ListMine(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if items == nil {
		items = []encargo.Encargo{}
	}
	c.JSON(http.StatusOK, items)
}

// Quote prices shipping for a cart and address
// POST /encargos/quote
func (h *EncargoHandler) Quote(c *gin.Context) {
	var req encargo.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	q, err := h.quotes.Quote(c.Request.Context(), middleware.GetSession(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
