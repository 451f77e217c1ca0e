package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lawhelp/auth-service/internal/constants"
	ctxutil "github.com/lawhelp/auth-service/pkg/context"
	"github.com/lawhelp/auth-service/pkg/logger"
)

// RequestTimeoutMiddleware bounds the request context. Every storage
// and outbound call downstream inherits the deadline, so a hung
// Postgres connection surfaces as a cancelled context instead of
// holding the request forever.
func RequestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := ctxutil.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		select {
		case <-ctx.Done():
			logger.WarnWithContext(ctx, "Request timeout before processing").
				Duration(timeout).
				Log()
			c.JSON(http.StatusRequestTimeout, constants.BuildErrorResponse("Request timeout", timeout.String()))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}
