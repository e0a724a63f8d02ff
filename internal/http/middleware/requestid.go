package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"pantryapi/internal/logger"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"

	maxRequestIDLen = 128
)

// RequestID makes sure every request carries an id.
//
// An incoming X-Request-ID is reused unless it is empty or longer than 128 bytes,
// in which case a UUID is generated. The id is stored in Locals under
// RequestIDLocalKey, echoed on the response and attached to the request's user
// context so every line logged through log carries it.
func RequestID(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		} else {
			// Header values alias fasthttp buffers that are reused after the request.
			id = utils.CopyString(id)
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)
		c.SetUserContext(log.WithRequestID(c.UserContext(), id))

		return c.Next()
	}
}
