package dto

import (
	"time"

	"gorm.io/datatypes"

	"qbank_backend/internals/features/taxonomy/model"
)

// ============================
// Response DTO
// ============================

type SubjectDTO struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description *string        `json:"description,omitempty"`
	Tags        []string       `json:"tags"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ============================
// Create / Update Request DTO
// ============================

type CreateSubjectRequest struct {
	ID          *string        `json:"id,omitempty"`
	Name        string         `json:"name" validate:"required"`
	Slug        string         `json:"slug" validate:"required,min=2"`
	Description *string        `json:"description,omitempty"`
	Tags        []string       `json:"tags"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
}

type UpdateSubjectRequest struct {
	Name        *string        `json:"name,omitempty"`
	Slug        *string        `json:"slug,omitempty" validate:"omitempty,min=2"`
	Description *string        `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
}

// ============================
// Converter
// ============================

func ToSubjectDTO(m model.SubjectModel) SubjectDTO {
	return SubjectDTO{
		ID:          m.SubjectID,
		Name:        m.SubjectName,
		Slug:        m.SubjectSlug,
		Description: m.SubjectDescription,
		Tags:        m.SubjectTags,
		Metadata:    m.SubjectMetadata,
		IsActive:    m.SubjectIsActive,
		CreatedAt:   m.SubjectCreatedAt,
		UpdatedAt:   m.SubjectUpdatedAt,
	}
}

func ToSubjectDTOs(ms []model.SubjectModel) []SubjectDTO {
	out := make([]SubjectDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToSubjectDTO(m))
	}
	return out
}
