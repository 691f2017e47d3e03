package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qbank_backend/internals/features/taxonomy/controller"
)

// TaxonomyRoutes registers subject/topic CRUD under the given router group.
func TaxonomyRoutes(router fiber.Router, db *gorm.DB) {
	subjectCtrl := controller.NewSubjectController(db)
	topicCtrl := controller.NewTopicController(db)

	subjects := router.Group("/subjects")
	subjects.Post("/", subjectCtrl.CreateSubject)
	subjects.Get("/", subjectCtrl.ListSubjects)
	subjects.Get("/:id", subjectCtrl.GetSubject)
	subjects.Put("/:id", subjectCtrl.UpdateSubject)
	subjects.Delete("/:id", subjectCtrl.DeleteSubject)

	topics := router.Group("/topics")
	topics.Post("/", topicCtrl.CreateTopic)
	topics.Get("/", topicCtrl.ListTopics)
	topics.Get("/:id", topicCtrl.GetTopic)
	topics.Put("/:id", topicCtrl.UpdateTopic)
	topics.Put("/:id/links", topicCtrl.UpdateTopicLinks)
	topics.Delete("/:id", topicCtrl.DeleteTopic)
}
