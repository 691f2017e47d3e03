package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/taxonomy/dto"
	"qbank_backend/internals/features/taxonomy/repository"
	"qbank_backend/internals/features/taxonomy/service"
	helper "qbank_backend/internals/helpers"
)

var validateTaxonomy = validator.New()

type SubjectController struct {
	Service *service.TaxonomyService
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{
		Service: service.NewTaxonomyService(repository.NewTaxonomyRepository(db)),
	}
}

// =============================
// Create Subject
// =============================
func (ctrl *SubjectController) CreateSubject(c *fiber.Ctx) error {
	var body dto.CreateSubjectRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTaxonomy.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	subject, err := ctrl.Service.CreateSubject(c.UserContext(), body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Subject created", dto.ToSubjectDTO(*subject))
}

// =============================
// Get Subject by ID
// =============================
func (ctrl *SubjectController) GetSubject(c *fiber.Ctx) error {
	subject, err := ctrl.Service.GetSubject(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", dto.ToSubjectDTO(*subject))
}

// =============================
// List Subjects
// =============================
func (ctrl *SubjectController) ListSubjects(c *fiber.Ctx) error {
	page := helper.ParsePage(c, "name", "asc", helper.DefaultPageOpts)

	filter := service.SubjectFilter{Search: c.Query("search")}
	if v := c.Query("is_active"); v != "" {
		active := v == "true" || v == "1"
		filter.IsActive = &active
	}
	if v := c.Query("tags"); v != "" {
		filter.Tags = strings.Split(v, ",")
	}

	subjects, total, err := ctrl.Service.ListSubjects(c.UserContext(), filter, page)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK",
		helper.NewPaginated(dto.ToSubjectDTOs(subjects), total, page.Skip, page.Limit))
}

// =============================
// Update Subject
// =============================
func (ctrl *SubjectController) UpdateSubject(c *fiber.Ctx) error {
	var body dto.UpdateSubjectRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTaxonomy.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	subject, err := ctrl.Service.UpdateSubject(c.UserContext(), c.Params("id"), body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Subject updated", dto.ToSubjectDTO(*subject))
}

// =============================
// Delete Subject
// =============================
func (ctrl *SubjectController) DeleteSubject(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteSubject(c.UserContext(), c.Params("id")); err != nil {
		return helper.JSONError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
