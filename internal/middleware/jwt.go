package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lawhelp/auth-service/internal/constants"
	"github.com/lawhelp/auth-service/internal/service"
	ctxutil "github.com/lawhelp/auth-service/pkg/context"
	"github.com/lawhelp/auth-service/pkg/logger"
	"go.uber.org/zap"
)

type JWTMiddleware struct {
	tokens *service.TokenService
}

func NewJWTMiddleware(tokens *service.TokenService) *JWTMiddleware {
	return &JWTMiddleware{tokens: tokens}
}

// RequireAuth validates the bearer token and stores the session
// identity in the request context. Sessions are stateless: the token
// alone is the proof, no lookup happens here.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
			c.Abort()
			return
		}

		claims, err := m.tokens.Verify(tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
			c.Abort()
			return
		}

		ctx := ctxutil.WithUserID(c.Request.Context(), claims.AccountID)
		ctx = context.WithValue(ctx, ctxutil.UserEmailKey, claims.Email)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", claims.AccountID)
		c.Set("email", claims.Email)

		c.Next()
	}
}
