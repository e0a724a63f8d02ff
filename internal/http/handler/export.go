package handler

import (
	"github.com/gofiber/fiber/v2"

	"pantryapi/internal/service"
)

// ExportPantryItems godoc
// @Summary Export the inventory
// @Description Writes every item to object storage as one JSON array and returns a link valid for 15 minutes.
// @Tags exports
// @Produce json
// @Success 200 {object} service.ExportResult
// @Failure 500 {object} errorPayload
// @Router /exports/pantry-items [post]
func ExportPantryItems(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Export(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
