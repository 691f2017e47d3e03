package dto

import (
	"time"

	"gorm.io/datatypes"

	"qbank_backend/internals/features/taxonomy/model"
)

// ============================
// Response DTO
// ============================

type TopicDTO struct {
	ID                   string         `json:"id"`
	SubjectID            string         `json:"subject_id"`
	Name                 string         `json:"name"`
	Slug                 string         `json:"slug"`
	Description          *string        `json:"description,omitempty"`
	DifficultyWeight     float64        `json:"difficulty_weight"`
	BloomLevel           *string        `json:"bloom_level,omitempty"`
	RelatedTopicIDs      []string       `json:"related_topic_ids"`
	PrerequisiteTopicIDs []string       `json:"prerequisite_topic_ids"`
	Tags                 []string       `json:"tags"`
	Metadata             datatypes.JSON `json:"metadata,omitempty"`
	IsActive             bool           `json:"is_active"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// ============================
// Create / Update Request DTO
// ============================

type CreateTopicRequest struct {
	ID                   *string        `json:"id,omitempty"`
	SubjectID            string         `json:"subject_id" validate:"required"`
	Name                 string         `json:"name" validate:"required"`
	Slug                 string         `json:"slug" validate:"required,min=2"`
	Description          *string        `json:"description,omitempty"`
	DifficultyWeight     float64        `json:"difficulty_weight" validate:"gte=0,lte=1"`
	BloomLevel           *string        `json:"bloom_level,omitempty"`
	RelatedTopicIDs      []string       `json:"related_topic_ids"`
	PrerequisiteTopicIDs []string       `json:"prerequisite_topic_ids"`
	Tags                 []string       `json:"tags"`
	Metadata             datatypes.JSON `json:"metadata,omitempty"`
	IsActive             *bool          `json:"is_active,omitempty"`
}

type UpdateTopicRequest struct {
	SubjectID            *string        `json:"subject_id,omitempty"`
	Name                 *string        `json:"name,omitempty"`
	Slug                 *string        `json:"slug,omitempty" validate:"omitempty,min=2"`
	Description          *string        `json:"description,omitempty"`
	DifficultyWeight     *float64       `json:"difficulty_weight,omitempty" validate:"omitempty,gte=0,lte=1"`
	BloomLevel           *string        `json:"bloom_level,omitempty"`
	RelatedTopicIDs      []string       `json:"related_topic_ids,omitempty"`
	PrerequisiteTopicIDs []string       `json:"prerequisite_topic_ids,omitempty"`
	Tags                 []string       `json:"tags,omitempty"`
	Metadata             datatypes.JSON `json:"metadata,omitempty"`
	IsActive             *bool          `json:"is_active,omitempty"`
}

type UpdateTopicLinksRequest struct {
	RelatedTopicIDs      []string `json:"related_topic_ids,omitempty"`
	PrerequisiteTopicIDs []string `json:"prerequisite_topic_ids,omitempty"`
}

// ============================
// Converter
// ============================

func ToTopicDTO(m model.TopicModel) TopicDTO {
	return TopicDTO{
		ID:                   m.TopicID,
		SubjectID:            m.TopicSubjectID,
		Name:                 m.TopicName,
		Slug:                 m.TopicSlug,
		Description:          m.TopicDescription,
		DifficultyWeight:     m.TopicDifficultyWeight,
		BloomLevel:           m.TopicBloomLevel,
		RelatedTopicIDs:      m.TopicRelatedTopicIDs,
		PrerequisiteTopicIDs: m.TopicPrerequisiteTopicIDs,
		Tags:                 m.TopicTags,
		Metadata:             m.TopicMetadata,
		IsActive:             m.TopicIsActive,
		CreatedAt:            m.TopicCreatedAt,
		UpdatedAt:            m.TopicUpdatedAt,
	}
}

func ToTopicDTOs(ms []model.TopicModel) []TopicDTO {
	out := make([]TopicDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToTopicDTO(m))
	}
	return out
}
