package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/tests/controller"
)

// TestRoutes registers the test composition and reporting endpoints.
func TestRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := controller.NewTestController(db)

	tests := router.Group("/tests")
	tests.Post("/", ctrl.CreateTest)
	tests.Get("/", ctrl.ListTests)
	tests.Get("/:id", ctrl.GetTest)
	tests.Put("/:id", ctrl.UpdateTest)
	tests.Delete("/:id", ctrl.DeleteTest)

	tests.Post("/:id/questions", ctrl.AddQuestions)
	tests.Post("/:id/questions/bulk", ctrl.BulkAddQuestions)
	tests.Delete("/:id/questions/:question_id", ctrl.RemoveQuestion)
	tests.Put("/:id/questions/reorder", ctrl.ReorderQuestions)
	tests.Put("/:id/questions/replace", ctrl.ReplaceQuestion)
	tests.Patch("/:id/questions/:question_id/marks", ctrl.UpdateQuestionMarks)

	tests.Get("/:id/validate", ctrl.ValidateTest)
	tests.Get("/:id/stats", ctrl.TestStats)
	tests.Get("/:id/preview", ctrl.GetTestPreview)
	tests.Get("/:id/solutions", ctrl.GetTestWithSolutions)
	tests.Get("/:id/answer-key", ctrl.GetAnswerKey)
}
