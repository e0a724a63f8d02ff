package middleware

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"pantryapi/internal/database"
)

// Session reserves one database connection per request and releases it when the
// request finishes, whatever the outcome. Repositories pick it up from the user context.
func Session(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, release, err := database.Acquire(c.UserContext(), db)
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		defer release()

		c.SetUserContext(ctx)
		return c.Next()
	}
}
