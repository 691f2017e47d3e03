package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/exams/controller"
)

// ExamRoutes registers exam CRUD under the given router group.
func ExamRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := controller.NewExamController(db)

	exams := router.Group("/exams")
	exams.Post("/", ctrl.CreateExam)
	exams.Get("/", ctrl.ListExams)
	exams.Get("/:id", ctrl.GetExam)
	exams.Get("/:id/syllabus", ctrl.GetExamSyllabus)
	exams.Put("/:id", ctrl.UpdateExam)
	exams.Delete("/:id", ctrl.DeleteExam)
}
