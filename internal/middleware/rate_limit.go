package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clientbridge/crm/internal/constants"
	"github.com/clientbridge/crm/pkg/logger"
	"github.com/clientbridge/crm/pkg/redis"
)

// RateLimit caps requests per client IP over a fixed window, backed by a
// Redis counter. A nil client disables limiting, so services run fine
// without Redis in development.
func RateLimit(client *redis.Client, maxRequests int64, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Keyed by budget as well, so stacked limiters (global + route group)
		// keep independent counters.
		key := fmt.Sprintf("%s%d:%s:%s", constants.CacheKeyRateLimit, maxRequests, c.FullPath(), c.ClientIP())

		count, err := client.Increment(c.Request.Context(), key, window)
		if err != nil {
			// Redis being down should not take requests down with it.
			logger.WarnWithContext(c.Request.Context(), "Rate limiter unavailable, allowing request").
				Err(err).
				Log()
			c.Next()
			return
		}

		if count > maxRequests {
			logger.WarnWithContext(c.Request.Context(), "Rate limit exceeded").
				String("client_ip", c.ClientIP()).
				Path(c.Request.URL.Path).
				Int64("count", count).
				Log()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests",
			})
			return
		}

		c.Next()
	}
}
