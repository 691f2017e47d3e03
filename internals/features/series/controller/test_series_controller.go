package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/series/dto"
	"qbank_backend/internals/features/series/repository"
	"qbank_backend/internals/features/series/service"
	taxonomyRepo "qbank_backend/internals/features/taxonomy/repository"
	helper "qbank_backend/internals/helpers"
)

var validateSeries = validator.New()

type TestSeriesController struct {
	Service *service.TestSeriesService
}

func NewTestSeriesController(db *gorm.DB) *TestSeriesController {
	return &TestSeriesController{
		Service: service.NewTestSeriesService(
			repository.NewTestSeriesRepository(db),
			repository.NewTestAggregatorRepository(db),
			repository.NewExamSourceRepository(db),
			taxonomyRepo.NewTaxonomyRepository(db),
		),
	}
}

// =============================
// Create Series
// =============================
func (ctrl *TestSeriesController) CreateSeries(c *fiber.Ctx) error {
	var body dto.CreateTestSeriesRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateSeries.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	series, err := ctrl.Service.CreateSeries(c.UserContext(), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Test series created", dto.ToTestSeriesDTO(series))
}

// =============================
// Get / List Series
// =============================
func (ctrl *TestSeriesController) GetSeries(c *fiber.Ctx) error {
	series, err := ctrl.Service.GetSeries(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", dto.ToTestSeriesDTO(series))
}

func (ctrl *TestSeriesController) ListSeries(c *fiber.Ctx) error {
	page := helper.ParsePage(c, "name", "asc", helper.DefaultPageOpts)

	filter := service.SeriesFilter{
		TargetExamID: c.Query("target_exam_id"),
		Status:       c.Query("status"),
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true" || v == "1"
		filter.IsActive = &active
	}
	if v := c.Query("tags"); v != "" {
		filter.Tags = strings.Split(v, ",")
	}

	out, total, err := ctrl.Service.ListSeries(c.UserContext(), filter, page)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK",
		helper.NewPaginated(dto.ToTestSeriesDTOs(out), total, page.Skip, page.Limit))
}

// =============================
// Update / Delete Series
// =============================
func (ctrl *TestSeriesController) UpdateSeries(c *fiber.Ctx) error {
	var body dto.UpdateTestSeriesRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateSeries.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	series, err := ctrl.Service.UpdateSeries(c.UserContext(), c.Params("id"), &body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Test series updated", dto.ToTestSeriesDTO(series))
}

// UpdateSeriesStatus is the lifecycle hook; it changes nothing but the
// status field.
func (ctrl *TestSeriesController) UpdateSeriesStatus(c *fiber.Ctx) error {
	var body dto.UpdateSeriesStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateSeries.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	series, err := ctrl.Service.UpdateSeriesStatus(c.UserContext(), c.Params("id"), body.Status)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Test series status updated", dto.ToTestSeriesDTO(series))
}

func (ctrl *TestSeriesController) DeleteSeries(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteSeries(c.UserContext(), c.Params("id")); err != nil {
		return helper.JSONError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// =============================
// Stats refresh
// =============================
func (ctrl *TestSeriesController) RefreshStats(c *fiber.Ctx) error {
	series, err := ctrl.Service.RefreshStats(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Stats refreshed", dto.ToTestSeriesDTO(series))
}
