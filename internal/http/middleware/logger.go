package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pantryapi/internal/logger"
)

// Logger logs each HTTP request as one structured line:
// request_id, method, path, status and latency_ms.
// Register it after RequestID, which puts the request id on the user context.
// Server errors (5xx) are logged at warn level.
func Logger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		resolveError(c, c.Next())

		ctx := c.UserContext()
		status := c.Response().StatusCode()

		event := log.Info(ctx)
		if status >= fiber.StatusInternalServerError {
			event = log.Warn(ctx)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency_ms", float64(time.Since(start).Microseconds())/1000).
			Msg("request")

		return nil
	}
}
