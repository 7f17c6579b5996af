package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/domain/shared"
	"github.com/encargos/storefront/internal/infrastructure/logger"
	"github.com/encargos/storefront/internal/interfaces/http/dto"
	"github.com/encargos/storefront/internal/interfaces/http/middleware"
)

const (
	msgInvalidBody = "Cuerpo de solicitud inválido"
	msgInternal    = "Error interno del servidor"
	msgCancelled   = "La solicitud fue cancelada"
	msgTimeout     = "La solicitud tardó demasiado"

	// defaultReturnPath is where a login redirect sends the customer back to
	// when the request does not name a page
	defaultReturnPath = "/encargos"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	loginURL string
}

// NewBaseHandler creates a BaseHandler. loginURL is used for 401 redirects
// that the service did not already fill in.
func NewBaseHandler(loginURL string) BaseHandler {
	return BaseHandler{loginURL: loginURL}
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// BindJSON decodes the body into obj and answers 400 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		msg, ok := middleware.ValidationMessage(err)
		if !ok {
			msg = msgInvalidBody
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, msg)
		return false
	}
	return true
}

// HandleError converts service errors to HTTP responses:
//   - UnauthorizedError: 401 with a login redirect
//   - UpstreamError 401: the backend rejected the token, same as UnauthorizedError
//   - UpstreamError: the backend's status and message, verbatim
//   - DomainError: status from its code
//   - context cancellation: 499, deadline: 504
//   - anything else: 500 with a generic message
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	log := logger.GetGinLogger(c)

	switch {
	case errors.Is(err, context.Canceled):
		log.Info("Request cancelled", zap.Error(err))
		h.Error(c, dto.StatusClientClosedRequest, dto.ErrCodeCancelled, msgCancelled)
		return
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("Request deadline exceeded", zap.Error(err))
		h.Error(c, http.StatusGatewayTimeout, dto.ErrCodeTimeout, msgTimeout)
		return
	}

	var unauthorized *shared.UnauthorizedError
	if errors.As(err, &unauthorized) {
		h.loginRedirect(c, unauthorized.Error(), unauthorized.Redirect)
		return
	}

	var upstream *shared.UpstreamError
	if errors.As(err, &upstream) {
		if upstream.Status == http.StatusUnauthorized {
			log.Info("Backend rejected session token")
			h.loginRedirect(c, upstream.Message, "")
			return
		}
		if upstream.Status >= http.StatusInternalServerError {
			log.Warn("Upstream failure", zap.Int("status", upstream.Status), zap.Error(err))
		}
		h.Error(c, upstream.Status, dto.ErrCodeUpstream, upstream.Message)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	log.Error("Unhandled error", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, msgInternal)
}

// loginRedirect answers 401 with the login redirect attached. An empty
// redirect sends the user back to the return_path query after login.
func (h *BaseHandler) loginRedirect(c *gin.Context, message, redirect string) {
	if redirect == "" {
		redirect = encargo.LoginRedirect(h.loginURL, returnPath(c))
	}
	if message == "" {
		message = shared.ErrUnauthorized.Message
	}
	resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, middleware.GetRequestID(c))
	resp.Redirect = redirect
	c.JSON(http.StatusUnauthorized, resp)
}

// returnPath is the local page a login should come back to, taken from the
// return_path query parameter.
func returnPath(c *gin.Context) string {
	p := strings.TrimSpace(c.Query("return_path"))
	if encargo.IsLocalPath(p) {
		return p
	}
	return defaultReturnPath
}
