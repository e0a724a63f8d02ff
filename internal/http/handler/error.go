package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pantryapi/internal/http/middleware"
	"pantryapi/internal/logger"
	"pantryapi/internal/model"
	"pantryapi/internal/service"
)

const itemNotFoundMessage = "Item not found"

// errorPayload defines the standardized error response body.
// Detail repeats the message at the top level for clients that only read "detail".
type errorPayload struct {
	Detail    string        `json:"detail"`
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
// - details: optional per-field problems
func writeError(c *fiber.Ctx, status int, code, message string, details map[string]string) error {
	res := errorPayload{
		Detail:    message,
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Handlers return service errors unchanged and this is where they become HTTP statuses.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			vErr *model.ValidationError
			cErr *service.ConstraintError
			fErr *fiber.Error
		)

		switch {
		case errors.As(err, &vErr):
			return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", vErr.Message, vErr.Fields)
		case errors.Is(err, service.ErrNotFound):
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", itemNotFoundMessage, nil)
		case errors.Is(err, service.ErrInvalidID):
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format", nil)
		case errors.Is(err, service.ErrInvalidPage):
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", service.ErrInvalidPage.Error(), nil)
		case errors.As(err, &cErr):
			log.Error(c.UserContext(), err).Str("field", cErr.Field).Msg("storage constraint violated")
			return writeError(c, fiber.StatusInternalServerError, "STORAGE_CONSTRAINT",
				"storage constraint violated", map[string]string{cErr.Field: "already exists"})
		case errors.As(err, &fErr):
			return writeFiberError(c, fErr.Code)
		default:
			log.Error(c.UserContext(), err).Str("path", c.Path()).Msg("unhandled error")
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
		}
	}
}

func writeFiberError(c *fiber.Ctx, status int) error {
	switch status {
	case fiber.StatusBadRequest:
		return writeError(c, status, "BAD_REQUEST", "bad request", nil)
	case fiber.StatusNotFound:
		return writeError(c, status, "NOT_FOUND", "resource not found", nil)
	case fiber.StatusMethodNotAllowed:
		return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	case fiber.StatusRequestEntityTooLarge:
		return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large", nil)
	case fiber.StatusServiceUnavailable:
		return writeError(c, status, "SERVICE_UNAVAILABLE", "dependency unavailable", nil)
	default:
		return writeError(c, status, "INTERNAL_ERROR", "internal server error", nil)
	}
}
