package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/exams/dto"
	"qbank_backend/internals/features/exams/repository"
	"qbank_backend/internals/features/exams/service"
	taxonomyRepo "qbank_backend/internals/features/taxonomy/repository"
	helper "qbank_backend/internals/helpers"
)

var validateExam = validator.New()

type ExamController struct {
	Service *service.ExamService
}

func NewExamController(db *gorm.DB) *ExamController {
	return &ExamController{
		Service: service.NewExamService(
			repository.NewExamRepository(db),
			taxonomyRepo.NewTaxonomyRepository(db),
		),
	}
}

// =============================
// Create Exam
// =============================
func (ctrl *ExamController) CreateExam(c *fiber.Ctx) error {
	var body dto.CreateExamRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateExam.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	exam, err := ctrl.Service.CreateExam(c.UserContext(), body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Exam created", dto.ToExamDTO(*exam))
}

// =============================
// Get / List Exams
// =============================
func (ctrl *ExamController) GetExam(c *fiber.Ctx) error {
	exam, err := ctrl.Service.GetExam(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", dto.ToExamDTO(*exam))
}

func (ctrl *ExamController) ListExams(c *fiber.Ctx) error {
	activeOnly := c.Query("active_only") == "true"
	exams, err := ctrl.Service.ListExams(c.UserContext(), activeOnly)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", dto.ToExamDTOs(exams))
}

func (ctrl *ExamController) GetExamSyllabus(c *fiber.Ctx) error {
	syllabus, err := ctrl.Service.GetExamSyllabus(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", syllabus)
}

// =============================
// Update / Delete Exam
// =============================
func (ctrl *ExamController) UpdateExam(c *fiber.Ctx) error {
	var body dto.UpdateExamRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	exam, err := ctrl.Service.UpdateExam(c.UserContext(), c.Params("id"), body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Exam updated", dto.ToExamDTO(*exam))
}

func (ctrl *ExamController) DeleteExam(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteExam(c.UserContext(), c.Params("id")); err != nil {
		return helper.JSONError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
