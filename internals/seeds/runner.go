package seeds

import (
	"gorm.io/gorm"

	exams "qbank_backend/internals/seeds/exams"
	taxonomy "qbank_backend/internals/seeds/taxonomy"
)

// RunAllSeeds loads the baseline reference data a fresh deployment needs
// before authors can compose tests.
func RunAllSeeds(db *gorm.DB) {
	taxonomy.SeedSubjectsFromJSON(db, "internals/seeds/taxonomy/data_subjects.json")
	exams.SeedExamsFromJSON(db, "internals/seeds/exams/data_exams.json")
}
