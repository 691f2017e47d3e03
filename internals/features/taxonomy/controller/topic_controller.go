package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/taxonomy/dto"
	"qbank_backend/internals/features/taxonomy/repository"
	"qbank_backend/internals/features/taxonomy/service"
	helper "qbank_backend/internals/helpers"
)

type TopicController struct {
	Service *service.TaxonomyService
}

func NewTopicController(db *gorm.DB) *TopicController {
	return &TopicController{
		Service: service.NewTaxonomyService(repository.NewTaxonomyRepository(db)),
	}
}

// =============================
// Create Topic
// =============================
func (ctrl *TopicController) CreateTopic(c *fiber.Ctx) error {
	var body dto.CreateTopicRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTaxonomy.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	topic, err := ctrl.Service.CreateTopic(c.UserContext(), body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Topic created", dto.ToTopicDTO(*topic))
}

// =============================
// Get Topic by ID
// =============================
func (ctrl *TopicController) GetTopic(c *fiber.Ctx) error {
	topic, err := ctrl.Service.GetTopic(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", dto.ToTopicDTO(*topic))
}

// =============================
// List Topics (optionally by subject)
// =============================
func (ctrl *TopicController) ListTopics(c *fiber.Ctx) error {
	topics, err := ctrl.Service.ListTopics(c.UserContext(), c.Query("subject_id"))
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "OK", dto.ToTopicDTOs(topics))
}

// =============================
// Update Topic
// =============================
func (ctrl *TopicController) UpdateTopic(c *fiber.Ctx) error {
	var body dto.UpdateTopicRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateTaxonomy.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	topic, err := ctrl.Service.UpdateTopic(c.UserContext(), c.Params("id"), body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Topic updated", dto.ToTopicDTO(*topic))
}

// =============================
// Update Topic Links only
// =============================
func (ctrl *TopicController) UpdateTopicLinks(c *fiber.Ctx) error {
	var body dto.UpdateTopicLinksRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	topic, err := ctrl.Service.UpdateTopicLinks(c.UserContext(), c.Params("id"), body)
	if err != nil {
		return helper.JSONError(c, err)
	}
	return helper.Success(c, "Topic links updated", dto.ToTopicDTO(*topic))
}

// =============================
// Delete Topic
// =============================
func (ctrl *TopicController) DeleteTopic(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteTopic(c.UserContext(), c.Params("id")); err != nil {
		return helper.JSONError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
