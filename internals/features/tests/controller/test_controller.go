package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/tests/dto"
	"qbank_backend/internals/features/tests/repository"
	"qbank_backend/internals/features/tests/service"
	helper "qbank_backend/internals/helpers"
)

var validateTest = validator.New()

type TestController struct {
	Service *service.TestService
}

func NewTestController(db *gorm.DB) *TestController {
	return &TestController{
		Service: service.NewTestService(
			repository.NewTestRepository(db),
			repository.NewQuestionSourceRepository(db),
			repository.NewSubjectSourceRepository(db),
			repository.NewSeriesSourceRepository(db),
		),
	}
}

// =============================
// Create Test
// =============================
func (ctrl *TestController) CreateTest(c *fiber.Ctx) error {
	var body dto.CreateTestRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTest.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	t, err := ctrl.Service.CreateTest(c.UserContext(), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Test created", dto.ToTestDTO(t))
}

// =============================
// Get / List Tests
// =============================
func (ctrl *TestController) GetTest(c *fiber.Ctx) error {
	t, err := ctrl.Service.GetTest(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", dto.ToTestDTO(t))
}

func (ctrl *TestController) ListTests(c *fiber.Ctx) error {
	page := helper.ParsePage(c, "created_at", "desc", helper.DefaultPageOpts)
	filter := service.TestFilter{
		SeriesID: c.Query("series_id"),
		Status:   c.Query("status"),
	}

	ts, total, err := ctrl.Service.ListTests(c.UserContext(), filter, page.Skip, page.Limit)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK",
		helper.NewPaginated(dto.ToTestDTOs(ts), total, page.Skip, page.Limit))
}

// =============================
// Update / Delete Test
// =============================
func (ctrl *TestController) UpdateTest(c *fiber.Ctx) error {
	var body dto.UpdateTestRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTest.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	t, err := ctrl.Service.UpdateTest(c.UserContext(), c.Params("id"), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Test updated", dto.ToTestDTO(t))
}

func (ctrl *TestController) DeleteTest(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteTest(c.UserContext(), c.Params("id")); err != nil {
		return helper.JSONError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// =============================
// Composition operations
// =============================
func (ctrl *TestController) AddQuestions(c *fiber.Ctx) error {
	var body dto.AddQuestionsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTest.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	refs, err := ctrl.Service.AddQuestionsToTest(c.UserContext(), c.Params("id"), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Questions added", refs)
}

func (ctrl *TestController) BulkAddQuestions(c *fiber.Ctx) error {
	var body dto.BulkAddQuestionsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTest.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	refs, err := ctrl.Service.BulkAddQuestions(c.UserContext(), c.Params("id"), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Questions added", refs)
}

func (ctrl *TestController) RemoveQuestion(c *fiber.Ctx) error {
	t, err := ctrl.Service.RemoveQuestion(c.UserContext(), c.Params("id"), c.Params("question_id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Question removed", dto.ToTestDTO(t))
}

func (ctrl *TestController) ReorderQuestions(c *fiber.Ctx) error {
	var body dto.ReorderQuestionsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTest.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	t, err := ctrl.Service.ReorderQuestions(c.UserContext(), c.Params("id"), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Questions reordered", dto.ToTestDTO(t))
}

func (ctrl *TestController) ReplaceQuestion(c *fiber.Ctx) error {
	var body dto.ReplaceQuestionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTest.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	ref, err := ctrl.Service.ReplaceQuestion(c.UserContext(), c.Params("id"), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Question replaced", ref)
}

func (ctrl *TestController) UpdateQuestionMarks(c *fiber.Ctx) error {
	var body dto.UpdateQuestionMarksRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTest.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	ref, err := ctrl.Service.UpdateQuestionMarks(c.UserContext(), c.Params("id"), c.Params("question_id"), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Marks updated", ref)
}

// =============================
// Reports & releases
// =============================
func (ctrl *TestController) ValidateTest(c *fiber.Ctx) error {
	result, err := ctrl.Service.ValidateTest(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", result)
}

func (ctrl *TestController) TestStats(c *fiber.Ctx) error {
	stats, err := ctrl.Service.TestStats(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", stats)
}

func (ctrl *TestController) GetTestPreview(c *fiber.Ctx) error {
	preview, err := ctrl.Service.GetTestPreview(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", preview)
}

func (ctrl *TestController) GetTestWithSolutions(c *fiber.Ctx) error {
	out, err := ctrl.Service.GetTestWithSolutions(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", out)
}

func (ctrl *TestController) GetAnswerKey(c *fiber.Ctx) error {
	entries, err := ctrl.Service.GetAnswerKey(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", entries)
}
