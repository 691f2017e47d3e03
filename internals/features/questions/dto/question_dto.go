package dto

import (
	"time"

	"qbank_backend/internals/features/questions/model"
)

// ============================
// Nested request/response shapes
// ============================

type OptionRequest struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

type AnswerKeyRequest struct {
	Type      model.AnswerKeyType `json:"type" validate:"required,oneof=single multi value"`
	OptionID  string              `json:"option_id,omitempty"`
	OptionIDs []string            `json:"option_ids,omitempty"`
	Value     string              `json:"value,omitempty"`
}

type SolutionRequest struct {
	Explanation string   `json:"explanation,omitempty"`
	Steps       []string `json:"steps,omitempty"`
	References  []string `json:"references,omitempty"`
}

type TaxonomyRequest struct {
	SubjectID     *string  `json:"subject_id,omitempty"`
	TopicIDs      []string `json:"topic_ids,omitempty"`
	TargetExamIDs []string `json:"target_exam_ids,omitempty"`
}

type UsageRequest struct {
	Status     *model.UsageStatus `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	IsActive   *bool              `json:"is_active,omitempty"`
	Visibility *model.Visibility  `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
}

type MetaRequest struct {
	EstimatedTimeSec *int    `json:"estimated_time_sec,omitempty" validate:"omitempty,min=1"`
	Source           *string `json:"source,omitempty"`
	CreatedBy        *string `json:"created_by,omitempty"`
}

// ============================
// Requests
// ============================

type CreateQuestionRequest struct {
	Text       string             `json:"text" validate:"required"`
	Type       model.QuestionType `json:"type" validate:"required,oneof=single_choice multi_choice integer short_text true_false"`
	Options    []OptionRequest    `json:"options" validate:"dive"`
	AnswerKey  *AnswerKeyRequest  `json:"answer_key"`
	Solution   *SolutionRequest   `json:"solution,omitempty"`
	Taxonomy   *TaxonomyRequest   `json:"taxonomy,omitempty"`
	Difficulty int                `json:"difficulty" validate:"required,min=1,max=5"`
	Tags       []string           `json:"tags,omitempty"`
	Language   string             `json:"language,omitempty"`
	Usage      *UsageRequest      `json:"usage,omitempty"`
	Meta       *MetaRequest       `json:"meta,omitempty"`
}

// UpdateQuestionRequest is a partial patch. Nested objects merge field by
// field; list fields replace the stored list wholesale.
type UpdateQuestionRequest struct {
	Text       *string             `json:"text,omitempty"`
	Type       *model.QuestionType `json:"type,omitempty" validate:"omitempty,oneof=single_choice multi_choice integer short_text true_false"`
	Options    []OptionRequest     `json:"options,omitempty" validate:"omitempty,dive"`
	AnswerKey  *AnswerKeyRequest   `json:"answer_key,omitempty"`
	Solution   *SolutionRequest    `json:"solution,omitempty"`
	Taxonomy   *TaxonomyRequest    `json:"taxonomy,omitempty"`
	Difficulty *int                `json:"difficulty,omitempty" validate:"omitempty,min=1,max=5"`
	Tags       []string            `json:"tags,omitempty"`
	Language   *string             `json:"language,omitempty"`
	Usage      *UsageRequest       `json:"usage,omitempty"`
	Meta       *MetaRequest        `json:"meta,omitempty"`
}

type DiscoverQuestionsRequest struct {
	SubjectID     string   `json:"subject_id,omitempty"`
	TopicIDs      []string `json:"topic_ids,omitempty"`
	TargetExamIDs []string `json:"target_exam_ids,omitempty"`
	DifficultyMin *int     `json:"difficulty_min,omitempty" validate:"omitempty,min=1,max=5"`
	DifficultyMax *int     `json:"difficulty_max,omitempty" validate:"omitempty,min=1,max=5"`
	Tags          []string `json:"tags,omitempty"`
	Status        string   `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	IsActive      *bool    `json:"is_active,omitempty"`
	Search        string   `json:"search,omitempty"`
	SortBy        string   `json:"sort_by,omitempty"`
	SortOrder     string   `json:"sort_order,omitempty" validate:"omitempty,oneof=asc desc"`
	Skip          int      `json:"skip,omitempty" validate:"omitempty,min=0"`
	Limit         int      `json:"limit,omitempty" validate:"omitempty,min=1"`
}

type SampleQuestionsRequest struct {
	SubjectID     string   `json:"subject_id,omitempty"`
	TopicIDs      []string `json:"topic_ids,omitempty"`
	TargetExamIDs []string `json:"target_exam_ids,omitempty"`
	DifficultyMin *int     `json:"difficulty_min,omitempty" validate:"omitempty,min=1,max=5"`
	DifficultyMax *int     `json:"difficulty_max,omitempty" validate:"omitempty,min=1,max=5"`
	Tags          []string `json:"tags,omitempty"`
	Limit         int      `json:"limit,omitempty" validate:"omitempty,min=1"`
	Seed          string   `json:"seed,omitempty"`
}

// ============================
// Response views
// ============================

type TaxonomyDTO struct {
	SubjectID     *string  `json:"subject_id,omitempty"`
	TopicIDs      []string `json:"topic_ids"`
	TargetExamIDs []string `json:"target_exam_ids"`
}

type UsageDTO struct {
	Status     model.UsageStatus `json:"status"`
	IsActive   bool              `json:"is_active"`
	Visibility model.Visibility  `json:"visibility"`
}

// QuestionPublicDTO never carries answer data. The answer key and solution
// fields do not exist on the struct, so they cannot leak by omission bugs.
type QuestionPublicDTO struct {
	QuestionID string             `json:"question_id"`
	Text       string             `json:"text"`
	Type       model.QuestionType `json:"type"`
	Options    []model.Option     `json:"options"`
	Difficulty int                `json:"difficulty"`
	Tags       []string           `json:"tags"`
	Language   string             `json:"language"`
	Taxonomy   TaxonomyDTO        `json:"taxonomy"`
	Usage      UsageDTO           `json:"usage"`
	Version    int                `json:"version"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type QuestionPreviewDTO struct {
	QuestionPublicDTO
	AnswerKey *model.AnswerKey `json:"answer_key,omitempty"`
}

type QuestionFullDTO struct {
	QuestionPublicDTO
	AnswerKey *model.AnswerKey `json:"answer_key,omitempty"`
	Solution  *model.Solution  `json:"solution,omitempty"`
	Meta      model.Meta       `json:"meta"`
}

type ScoredQuestionDTO struct {
	QuestionPublicDTO
	SearchScore int `json:"search_score"`
}

// ============================
// Converters
// ============================

func ToQuestionPublicDTO(m *model.QuestionModel) QuestionPublicDTO {
	return QuestionPublicDTO{
		QuestionID: m.QuestionID,
		Text:       m.QuestionText,
		Type:       m.QuestionType,
		Options:    m.QuestionOptions,
		Difficulty: m.QuestionDifficulty,
		Tags:       m.QuestionTags,
		Language:   m.QuestionLanguage,
		Taxonomy: TaxonomyDTO{
			SubjectID:     m.QuestionSubjectID,
			TopicIDs:      m.QuestionTopicIDs,
			TargetExamIDs: m.QuestionTargetExamIDs,
		},
		Usage: UsageDTO{
			Status:     m.QuestionStatus,
			IsActive:   m.QuestionIsActive,
			Visibility: m.QuestionVisibility,
		},
		Version:   m.QuestionVersion,
		CreatedAt: m.QuestionCreatedAt,
		UpdatedAt: m.QuestionUpdatedAt,
	}
}

func ToQuestionPreviewDTO(m *model.QuestionModel) QuestionPreviewDTO {
	return QuestionPreviewDTO{
		QuestionPublicDTO: ToQuestionPublicDTO(m),
		AnswerKey:         m.QuestionAnswerKey,
	}
}

func ToQuestionFullDTO(m *model.QuestionModel, includeAnswerKey bool) QuestionFullDTO {
	out := QuestionFullDTO{
		QuestionPublicDTO: ToQuestionPublicDTO(m),
		Solution:          m.QuestionSolution,
		Meta:              m.QuestionMeta,
	}
	if includeAnswerKey {
		out.AnswerKey = m.QuestionAnswerKey
	}
	return out
}

func ToQuestionPublicDTOs(ms []model.QuestionModel) []QuestionPublicDTO {
	out := make([]QuestionPublicDTO, 0, len(ms))
	for i := range ms {
		out = append(out, ToQuestionPublicDTO(&ms[i]))
	}
	return out
}
