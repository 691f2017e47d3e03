package taxonomy

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qbank_backend/internals/features/taxonomy/model"
)

type subjectSeed struct {
	SubjectID string   `json:"subject_id"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Tags      []string `json:"tags"`
}

// SeedSubjectsFromJSON loads baseline subjects. Existing rows are left
// untouched so reseeding is safe.
func SeedSubjectsFromJSON(db *gorm.DB, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[SEED] cannot read %s: %v", path, err)
		return
	}
	var seeds []subjectSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Printf("[SEED] invalid subject seed file %s: %v", path, err)
		return
	}

	now := time.Now()
	for _, s := range seeds {
		row := model.SubjectModel{
			SubjectID:        s.SubjectID,
			SubjectName:      s.Name,
			SubjectSlug:      s.Slug,
			SubjectTags:      s.Tags,
			SubjectIsActive:  true,
			SubjectCreatedAt: now,
			SubjectUpdatedAt: now,
		}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			log.Printf("[SEED] subject %s: %v", s.SubjectID, err)
		}
	}
	log.Printf("[SEED] subjects seeded from %s", path)
}
