package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lawhelp/auth-service/internal/constants"
	"github.com/lawhelp/auth-service/pkg/logger"
	"github.com/lawhelp/auth-service/pkg/redis"
	"go.uber.org/zap"
)

// RateLimit enforces a fixed-window per-IP request limit backed by
// Redis, so the count holds across replicas. When Redis is down the
// limiter fails open: authentication keeps working, abuse control is
// degraded until Redis returns.
func RateLimit(client *redis.Client, maxRequest int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		key := constants.RateLimitKeyPrefix + ip

		count, err := client.IncrWithWindow(c.Request.Context(), key, window)
		if err != nil {
			logger.GetLogger().Warn("Rate limiter unavailable, failing open",
				zap.String("client_ip", ip),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if count > int64(maxRequest) {
			retryAfter := window
			if ttl, err := client.TTL(c.Request.Context(), key); err == nil && ttl > 0 {
				retryAfter = ttl
			}

			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int64("current_requests", count),
				zap.Int("max_requests", maxRequest),
				zap.Duration("retry_after", retryAfter),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, constants.BuildErrorResponse(constants.MsgTooManyRequests, ""))
			c.Abort()
			return
		}

		remaining := int64(maxRequest) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		c.Next()
	}
}
