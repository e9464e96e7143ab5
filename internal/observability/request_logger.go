package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the correlation id of a request.
const RequestIDHeader = "X-Request-ID"

// RequestLogger logs every request and feeds the HTTP metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)

		err := c.Next()

		status := c.Response().StatusCode()
		duration := time.Since(start)
		route := c.Route().Path
		metrics.RecordRequest(route, c.Method(), status, duration)
		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		)
		return err
	}
}
