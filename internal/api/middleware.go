package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nekogravitycat/hourglass-gateway/internal/metrics"
)

// RequestIDKey is the context key and response header for the per-request id.
const RequestIDKey = "X-Request-ID"

// RequestID assigns a request id to every request, honoring one supplied
// by the caller, and echoes it in the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDKey, id)
		c.Next()
	}
}

// RequestLogger logs every handled request with its outcome.
// Diagnostic only; not part of the gateway contract.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", c.GetString(RequestIDKey)),
		}

		if c.Writer.Status() >= 500 {
			logger.Error("request failed", fields...)
		} else if c.Writer.Status() >= 400 {
			logger.Warn("request rejected", fields...)
		} else {
			logger.Info("request handled", fields...)
		}
	}
}

// Measure records request metrics. Uses the route template rather than
// the raw path so schedule ids do not explode label cardinality.
func Measure(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
