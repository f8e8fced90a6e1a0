package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

// RequestLogging stamps each request with an ID and tracking metadata, then
// logs the outcome with latency. Incoming X-Request-ID headers are honored
// so IDs survive hops between services.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, ctxutil.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = context.WithValue(ctx, ctxutil.UserAgentKey, c.Request.UserAgent())
		ctx = context.WithValue(ctx, ctxutil.StartTimeKey, start)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		entry := logger.InfoWithContext(c.Request.Context(), "HTTP request")
		if status >= 500 {
			entry = logger.ErrorWithContext(c.Request.Context(), "HTTP request")
		} else if status >= 400 {
			entry = logger.WarnWithContext(c.Request.Context(), "HTTP request")
		}

		entry.
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			StatusCode(status).
			Int64("duration_ms", duration.Milliseconds()).
			Int("response_size", c.Writer.Size()).
			Log()
	}
}

// Recovery logs panics with a stack trace and returns a 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)
		c.AbortWithStatusJSON(500, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
	})
}
