package model

import (
	"time"

	"github.com/lib/pq"
)

// SectionInstruction holds display instructions for one pattern section.
type SectionInstruction struct {
	SectionID string   `json:"section_id"`
	Title     string   `json:"title,omitempty"`
	Items     []string `json:"items"`
}

// TestInstructionsModel stores the candidate-facing instruction sheet for a
// test. One row per test; upserts keep the original id and creation time.
type TestInstructionsModel struct {
	InstructionID        string               `gorm:"column:instruction_id;primaryKey;type:varchar(64)" json:"instruction_id"`
	InstructionTestID    string               `gorm:"column:instruction_test_id;type:varchar(64);not null;uniqueIndex" json:"instruction_test_id"`
	GeneralInstructions  pq.StringArray       `gorm:"column:general_instructions;type:text[]" json:"general_instructions"`
	SectionInstructions  []SectionInstruction `gorm:"column:section_instructions;type:jsonb;serializer:json" json:"section_instructions"`
	ImportantNotes       pq.StringArray       `gorm:"column:important_notes;type:text[]" json:"important_notes"`
	InstructionCreatedAt time.Time            `gorm:"column:instruction_created_at;not null" json:"instruction_created_at"`
	InstructionUpdatedAt time.Time            `gorm:"column:instruction_updated_at;not null" json:"instruction_updated_at"`
}

func (TestInstructionsModel) TableName() string {
	return "test_instructions"
}
