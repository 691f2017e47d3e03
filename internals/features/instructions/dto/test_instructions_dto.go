package dto

import (
	"time"

	"qbank_backend/internals/features/instructions/model"
)

type UpsertInstructionsRequest struct {
	GeneralInstructions []string                   `json:"general_instructions,omitempty"`
	SectionInstructions []model.SectionInstruction `json:"section_instructions,omitempty" validate:"omitempty,dive"`
	ImportantNotes      []string                   `json:"important_notes,omitempty"`
}

type TestInstructionsDTO struct {
	InstructionID       string                     `json:"instruction_id"`
	TestID              string                     `json:"test_id"`
	GeneralInstructions []string                   `json:"general_instructions"`
	SectionInstructions []model.SectionInstruction `json:"section_instructions"`
	ImportantNotes      []string                   `json:"important_notes"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

func ToTestInstructionsDTO(m *model.TestInstructionsModel) TestInstructionsDTO {
	return TestInstructionsDTO{
		InstructionID:       m.InstructionID,
		TestID:              m.InstructionTestID,
		GeneralInstructions: m.GeneralInstructions,
		SectionInstructions: m.SectionInstructions,
		ImportantNotes:      m.ImportantNotes,
		CreatedAt:           m.InstructionCreatedAt,
		UpdatedAt:           m.InstructionUpdatedAt,
	}
}
