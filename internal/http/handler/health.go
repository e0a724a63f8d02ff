package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

type messageResponse struct {
	Message string `json:"message"`
}

// Root godoc
// @Summary Service greeting
// @Tags meta
// @Produce json
// @Success 200 {object} messageResponse
// @Router / [get]
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(messageResponse{Message: "Pantry inventory backend is up"})
	}
}

// HealthCheck godoc
// @Summary Readiness probe
// @Description Pings the database. Returns 503 when it is unreachable.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable", nil)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 as long as the process serves HTTP.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
