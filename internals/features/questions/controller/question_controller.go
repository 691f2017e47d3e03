package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/questions/dto"
	"qbank_backend/internals/features/questions/repository"
	"qbank_backend/internals/features/questions/service"
	helper "qbank_backend/internals/helpers"
)

var validateQuestion = validator.New()

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(db *gorm.DB) *QuestionController {
	return &QuestionController{
		Service: service.NewQuestionService(repository.NewQuestionRepository(db)),
	}
}

// =============================
// Create Question
// =============================
func (ctrl *QuestionController) CreateQuestion(c *fiber.Ctx) error {
	var body dto.CreateQuestionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateQuestion.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	q, err := ctrl.Service.CreateQuestion(c.UserContext(), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Question created", dto.ToQuestionFullDTO(q, true))
}

// =============================
// Get Question (projected)
// =============================
func (ctrl *QuestionController) GetQuestion(c *fiber.Ctx) error {
	q, err := ctrl.Service.GetQuestion(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}

	includeSolution := c.QueryBool("include_solution")
	includeAnswerKey := c.QueryBool("include_answer_key")
	switch {
	case includeSolution:
		return helper.Success(c, "OK", dto.ToQuestionFullDTO(q, includeAnswerKey))
	case includeAnswerKey:
		return helper.Success(c, "OK", dto.ToQuestionPreviewDTO(q))
	default:
		return helper.Success(c, "OK", dto.ToQuestionPublicDTO(q))
	}
}

// =============================
// Update Question
// =============================
func (ctrl *QuestionController) UpdateQuestion(c *fiber.Ctx) error {
	var body dto.UpdateQuestionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateQuestion.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	q, err := ctrl.Service.UpdateQuestion(c.UserContext(), c.Params("id"), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Question updated", dto.ToQuestionFullDTO(q, true))
}

// =============================
// Delete Question
// =============================
func (ctrl *QuestionController) DeleteQuestion(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteQuestion(c.UserContext(), c.Params("id")); err != nil {
		return helper.JSONError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// =============================
// Discover Questions
// =============================
func (ctrl *QuestionController) DiscoverQuestions(c *fiber.Ctx) error {
	var body dto.DiscoverQuestionsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateQuestion.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	qs, total, err := ctrl.Service.DiscoverQuestions(c.UserContext(), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}

	terms := service.SearchTerms(body.Search)
	items := make([]dto.ScoredQuestionDTO, 0, len(qs))
	for i := range qs {
		item := dto.ScoredQuestionDTO{QuestionPublicDTO: dto.ToQuestionPublicDTO(&qs[i])}
		if len(terms) > 0 {
			item.SearchScore = repository.SearchScore(qs[i].QuestionSearchBlob, terms)
		}
		items = append(items, item)
	}
	limit := body.Limit
	if limit <= 0 {
		limit = service.DiscoverDefaultLimit
	}
	if limit > service.DiscoverMaxLimit {
		limit = service.DiscoverMaxLimit
	}
	return helper.Success(c, "OK", helper.NewPaginated(items, total, body.Skip, limit))
}

// =============================
// Sample Questions
// =============================
func (ctrl *QuestionController) SampleQuestions(c *fiber.Ctx) error {
	var body dto.SampleQuestionsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateQuestion.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	qs, err := ctrl.Service.SampleQuestions(c.UserContext(), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", dto.ToQuestionPublicDTOs(qs))
}
