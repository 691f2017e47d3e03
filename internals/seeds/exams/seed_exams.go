package exams

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qbank_backend/internals/features/exams/model"
)

type examSeed struct {
	ExamID string `json:"exam_id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
}

// SeedExamsFromJSON loads baseline exams, skipping rows that already exist.
func SeedExamsFromJSON(db *gorm.DB, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[SEED] cannot read %s: %v", path, err)
		return
	}
	var seeds []examSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Printf("[SEED] invalid exam seed file %s: %v", path, err)
		return
	}

	now := time.Now()
	for _, e := range seeds {
		row := model.ExamModel{
			ExamID:        e.ExamID,
			ExamCode:      e.Code,
			ExamName:      e.Name,
			ExamIsActive:  true,
			ExamCreatedAt: now,
			ExamUpdatedAt: now,
		}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			log.Printf("[SEED] exam %s: %v", e.ExamID, err)
		}
	}
	log.Printf("[SEED] exams seeded from %s", path)
}
