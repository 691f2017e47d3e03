package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/series/controller"
)

// TestSeriesRoutes registers test series CRUD and the stats refresh hook.
func TestSeriesRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := controller.NewTestSeriesController(db)

	series := router.Group("/test-series")
	series.Post("/", ctrl.CreateSeries)
	series.Get("/", ctrl.ListSeries)
	series.Get("/:id", ctrl.GetSeries)
	series.Put("/:id", ctrl.UpdateSeries)
	series.Patch("/:id/status", ctrl.UpdateSeriesStatus)
	series.Delete("/:id", ctrl.DeleteSeries)
	series.Post("/:id/refresh-stats", ctrl.RefreshStats)
}
