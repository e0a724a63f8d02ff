package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pantryapi/internal/model"
	"pantryapi/internal/service"
)

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format", nil)
}

// ListPantryItems godoc
// @Summary List pantry items
// @Description Items are returned in storage order. limit above 100 is clamped.
// @Tags pantry-items
// @Produce json
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Maximum items to return" default(10)
// @Success 200 {array} model.PantryItemOutput
// @Failure 400 {object} errorPayload
// @Router /pantry-items/ [get]
func ListPantryItems(svc service.PantryItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip, err := queryInt(c, "skip", 0)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "skip must be an integer", nil)
		}
		limit, err := queryInt(c, "limit", service.DefaultListLimit)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "limit must be an integer", nil)
		}

		items, err := svc.List(c.UserContext(), skip, limit)
		if err != nil {
			return err
		}
		return c.JSON(model.NewPantryItemOutputs(items))
	}
}

// CreatePantryItem godoc
// @Summary Create a pantry item
// @Tags pantry-items
// @Accept json
// @Produce json
// @Param item body model.PantryItemInput true "New item"
// @Success 200 {object} model.PantryItemOutput
// @Failure 422 {object} errorPayload
// @Router /pantry-items/ [post]
func CreatePantryItem(svc service.PantryItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, err := model.DecodePantryItemInput(c.Body())
		if err != nil {
			return err
		}

		item, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.JSON(model.NewPantryItemOutput(*item))
	}
}

// GetPantryItem godoc
// @Summary Get a pantry item
// @Tags pantry-items
// @Produce json
// @Param id path int true "Item id"
// @Success 200 {object} model.PantryItemOutput
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /pantry-items/{id} [get]
func GetPantryItem(svc service.PantryItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return invalidID(c)
		}

		item, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(model.NewPantryItemOutput(*item))
	}
}

// UpdatePantryItem godoc
// @Summary Replace a pantry item
// @Description Every field is replaced. Omitted optional fields fall back to their defaults.
// @Tags pantry-items
// @Accept json
// @Produce json
// @Param id path int true "Item id"
// @Param item body model.PantryItemInput true "Replacement"
// @Success 200 {object} model.PantryItemOutput
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /pantry-items/{id} [put]
func UpdatePantryItem(svc service.PantryItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return invalidID(c)
		}

		in, err := model.DecodePantryItemInput(c.Body())
		if err != nil {
			return err
		}

		item, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return c.JSON(model.NewPantryItemOutput(*item))
	}
}

// DeletePantryItem godoc
// @Summary Delete a pantry item
// @Tags pantry-items
// @Produce json
// @Param id path int true "Item id"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorPayload
// @Router /pantry-items/{id} [delete]
func DeletePantryItem(svc service.PantryItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return invalidID(c)
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(messageResponse{Message: "Item deleted successfully"})
	}
}
