package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	examRoute "qbank_backend/internals/features/exams/route"
	instructionsRoute "qbank_backend/internals/features/instructions/route"
	questionRoute "qbank_backend/internals/features/questions/route"
	seriesRoute "qbank_backend/internals/features/series/route"
	taxonomyRoute "qbank_backend/internals/features/taxonomy/route"
	testRoute "qbank_backend/internals/features/tests/route"
	middlewares "qbank_backend/internals/middlewares"
	auth "qbank_backend/internals/middlewares/auth"
)

// SetupRoutes wires every feature under two API-key protected groups:
// /api/v1 for authoring and reads, /api/admin for destructive taxonomy and
// exam management.
func SetupRoutes(app *fiber.App, db *gorm.DB, keys *auth.KeyService) {
	// ===================== API (key required) =====================
	log.Println("[INFO] Setting up API group...")
	api := app.Group("/api/v1",
		auth.RequireAPIKey(keys),
		middlewares.GlobalRateLimiter(),
	)

	questionRoute.QuestionRoutes(api, db)
	testRoute.TestRoutes(api, db)
	instructionsRoute.TestInstructionsRoutes(api, db)
	seriesRoute.TestSeriesRoutes(api, db)

	// ===================== ADMIN (admin key required) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/admin",
		auth.RequireAdminKey(keys),
		middlewares.WriteRateLimiter(),
	)

	taxonomyRoute.TaxonomyRoutes(admin, db)
	examRoute.ExamRoutes(admin, db)
}
