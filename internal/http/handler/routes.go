package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"pantryapi/internal/http/middleware"
	"pantryapi/internal/service"
)

// Deps carries what the routes need. Exporter is nil when object storage is not configured.
type Deps struct {
	DB       *sql.DB
	Items    service.PantryItemService
	Exporter service.ExportService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/", Root())
	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", LivenessProbe())

	// StrictRouting is off, so /pantry-items and /pantry-items/ both match.
	items := app.Group("/pantry-items", middleware.Session(deps.DB))
	items.Get("/", ListPantryItems(deps.Items))
	items.Post("/", CreatePantryItem(deps.Items))
	items.Get("/:id", GetPantryItem(deps.Items))
	items.Put("/:id", UpdatePantryItem(deps.Items))
	items.Delete("/:id", DeletePantryItem(deps.Items))

	if deps.Exporter != nil {
		app.Post("/exports/pantry-items", middleware.Session(deps.DB), ExportPantryItems(deps.Exporter))
	}
}
