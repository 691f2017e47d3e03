package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/instructions/controller"
)

// TestInstructionsRoutes registers the per-test instruction sheet endpoints.
func TestInstructionsRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := controller.NewTestInstructionsController(db)

	tests := router.Group("/tests")
	tests.Put("/:id/instructions", ctrl.UpsertInstructions)
	tests.Get("/:id/instructions", ctrl.GetInstructions)
	tests.Delete("/:id/instructions", ctrl.DeleteInstructions)
}
