package dto

import (
	"time"

	"gorm.io/datatypes"

	"qbank_backend/internals/features/exams/model"
)

// ============================
// Response DTO
// ============================

type ExamDTO struct {
	ExamID      string                   `json:"exam_id"`
	Code        string                   `json:"code"`
	Name        string                   `json:"name"`
	Description *string                  `json:"description,omitempty"`
	Syllabus    []model.ExamSyllabusItem `json:"syllabus"`
	Version     *string                  `json:"version,omitempty"`
	IsActive    bool                     `json:"is_active"`
	Metadata    datatypes.JSON           `json:"metadata,omitempty"`
	CreatedBy   *string                  `json:"created_by,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// ============================
// Create / Update Request DTO
// ============================

type CreateExamRequest struct {
	Code        string                   `json:"code" validate:"required"`
	Name        string                   `json:"name" validate:"required"`
	Description *string                  `json:"description,omitempty"`
	Syllabus    []model.ExamSyllabusItem `json:"syllabus"`
	Version     *string                  `json:"version,omitempty"`
	IsActive    *bool                    `json:"is_active,omitempty"`
	Metadata    datatypes.JSON           `json:"metadata,omitempty"`
	CreatedBy   *string                  `json:"created_by,omitempty"`
}

type UpdateExamRequest struct {
	Code        *string                  `json:"code,omitempty"`
	Name        *string                  `json:"name,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Syllabus    []model.ExamSyllabusItem `json:"syllabus,omitempty"`
	Version     *string                  `json:"version,omitempty"`
	IsActive    *bool                    `json:"is_active,omitempty"`
	Metadata    datatypes.JSON           `json:"metadata,omitempty"`
}

// ============================
// Converter
// ============================

func ToExamDTO(m model.ExamModel) ExamDTO {
	return ExamDTO{
		ExamID:      m.ExamID,
		Code:        m.ExamCode,
		Name:        m.ExamName,
		Description: m.ExamDescription,
		Syllabus:    m.ExamSyllabus,
		Version:     m.ExamVersion,
		IsActive:    m.ExamIsActive,
		Metadata:    m.ExamMetadata,
		CreatedBy:   m.ExamCreatedBy,
		CreatedAt:   m.ExamCreatedAt,
		UpdatedAt:   m.ExamUpdatedAt,
	}
}

func ToExamDTOs(ms []model.ExamModel) []ExamDTO {
	out := make([]ExamDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToExamDTO(m))
	}
	return out
}
