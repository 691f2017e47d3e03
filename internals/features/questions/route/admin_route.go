package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/questions/controller"
)

// QuestionRoutes registers question authoring and discovery endpoints.
func QuestionRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := controller.NewQuestionController(db)

	questions := router.Group("/questions")
	questions.Post("/", ctrl.CreateQuestion)
	questions.Post("/discover", ctrl.DiscoverQuestions)
	questions.Post("/sample", ctrl.SampleQuestions)
	questions.Get("/:id", ctrl.GetQuestion)
	questions.Put("/:id", ctrl.UpdateQuestion)
	questions.Delete("/:id", ctrl.DeleteQuestion)
}
