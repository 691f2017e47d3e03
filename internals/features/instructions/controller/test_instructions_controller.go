package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/instructions/dto"
	"qbank_backend/internals/features/instructions/repository"
	"qbank_backend/internals/features/instructions/service"
	helper "qbank_backend/internals/helpers"
)

var validateInstructions = validator.New()

type TestInstructionsController struct {
	Service *service.TestInstructionsService
}

func NewTestInstructionsController(db *gorm.DB) *TestInstructionsController {
	return &TestInstructionsController{
		Service: service.NewTestInstructionsService(
			repository.NewTestInstructionsRepository(db),
			repository.NewTestSourceRepository(db),
		),
	}
}

// =============================
// Upsert Instructions
// =============================
func (ctrl *TestInstructionsController) UpsertInstructions(c *fiber.Ctx) error {
	var body dto.UpsertInstructionsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateInstructions.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctrl.Service.UpsertInstructions(c.UserContext(), c.Params("id"), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Instructions saved", dto.ToTestInstructionsDTO(m))
}

// =============================
// Get / Delete Instructions
// =============================
func (ctrl *TestInstructionsController) GetInstructions(c *fiber.Ctx) error {
	m, err := ctrl.Service.GetInstructions(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", dto.ToTestInstructionsDTO(m))
}

func (ctrl *TestInstructionsController) DeleteInstructions(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteInstructions(c.UserContext(), c.Params("id")); err != nil {
		return helper.JSONError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
