package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/infrastructure/auth"
	"github.com/encargos/storefront/internal/infrastructure/logger"
)

// SessionKey is the gin context key holding the request's encargo.Session
const SessionKey = "encargo_session"

// Session reads the Authorization header into an encargo.Session.
// It never rejects a request: a missing or failing token leaves an
// anonymous session and the operation decides whether login is needed.
func Session(reader *auth.SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := reader.FromAuthorizationHeader(c.GetHeader("Authorization"))
		if err != nil {
			if !errors.Is(err, auth.ErrMissingToken) {
				logger.GetGinLogger(c).Debug("Ignoring unusable bearer token",
					zap.Error(err))
			}
			session = encargo.Session{}
		}

		c.Set(SessionKey, session)
		if session.CustomerID != "" {
			c.Set(logger.GinCustomerIDKey, session.CustomerID)
		}
		c.Next()
	}
}

// GetSession returns the session set by Session, or an anonymous one
func GetSession(c *gin.Context) encargo.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(encargo.Session); ok {
			return s
		}
	}
	return encargo.Session{}
}
