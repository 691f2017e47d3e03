package dto

import (
	"time"

	qdto "qbank_backend/internals/features/questions/dto"
	"qbank_backend/internals/features/tests/model"
)

// ============================
// Requests
// ============================

type CreateTestRequest struct {
	Code         string                    `json:"code" validate:"required"`
	Slug         string                    `json:"slug,omitempty"`
	Title        string                    `json:"title" validate:"required"`
	Description  *string                   `json:"description,omitempty"`
	SeriesID     *string                   `json:"series_id,omitempty"`
	TestNumber   *int                      `json:"test_number,omitempty" validate:"omitempty,min=1"`
	Pattern      model.TestPattern         `json:"pattern" validate:"required"`
	Questions    []model.QuestionReference `json:"questions,omitempty"`
	Settings     *model.TestSettings       `json:"settings,omitempty"`
	Solutions    *model.SolutionsConfig    `json:"solutions,omitempty"`
	Availability *model.Availability       `json:"availability,omitempty"`
}

// UpdateTestRequest is a metadata patch. Series id, test number, test id,
// and slug are immutable; sending them is rejected.
type UpdateTestRequest struct {
	TestID       *string                `json:"test_id,omitempty"`
	SeriesID     *string                `json:"series_id,omitempty"`
	TestNumber   *int                   `json:"test_number,omitempty"`
	Code         *string                `json:"code,omitempty"`
	Slug         *string                `json:"slug,omitempty"`
	Title        *string                `json:"title,omitempty"`
	Description  *string                `json:"description,omitempty"`
	Status       *model.TestStatus      `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	Pattern      *model.TestPattern     `json:"pattern,omitempty"`
	Settings     *model.TestSettings    `json:"settings,omitempty"`
	Solutions    *model.SolutionsConfig `json:"solutions,omitempty"`
	Availability *model.Availability    `json:"availability,omitempty"`
}

type AddQuestionsRequest struct {
	SectionID     string   `json:"section_id" validate:"required"`
	QuestionIDs   []string `json:"question_ids" validate:"required,min=1"`
	StartingSeq   *int     `json:"starting_seq,omitempty" validate:"omitempty,min=1"`
	Marks         *float64 `json:"marks,omitempty"`
	NegativeMarks *float64 `json:"negative_marks,omitempty"`
	IsBonus       bool     `json:"is_bonus,omitempty"`
	IsOptional    bool     `json:"is_optional,omitempty"`
}

type BulkAddCriteria struct {
	SubjectID    string   `json:"subject_id" validate:"required"`
	TopicIDs     []string `json:"topic_ids,omitempty"`
	Difficulties []int    `json:"difficulties,omitempty" validate:"omitempty,dive,min=1,max=5"`
	Types        []string `json:"types,omitempty" validate:"omitempty,dive,oneof=single_choice multi_choice integer short_text true_false"`
}

type BulkAddQuestionsRequest struct {
	SectionID string          `json:"section_id" validate:"required"`
	Criteria  BulkAddCriteria `json:"criteria" validate:"required"`
	Count     int             `json:"count" validate:"required,min=1"`
	Strategy  string          `json:"strategy,omitempty"`
}

type ReorderItem struct {
	QuestionID string `json:"question_id" validate:"required"`
	Seq        int    `json:"seq" validate:"required,min=1"`
}

type ReorderQuestionsRequest struct {
	SectionID string        `json:"section_id" validate:"required"`
	Items     []ReorderItem `json:"items" validate:"required,min=1,dive"`
}

type ReplaceQuestionRequest struct {
	OldQuestionID    string `json:"old_question_id" validate:"required"`
	NewQuestionID    string `json:"new_question_id" validate:"required"`
	PreserveSequence bool   `json:"preserve_sequence,omitempty"`
}

type UpdateQuestionMarksRequest struct {
	Marks         *float64 `json:"marks,omitempty"`
	NegativeMarks *float64 `json:"negative_marks,omitempty"`
	IsBonus       *bool    `json:"is_bonus,omitempty"`
	IsOptional    *bool    `json:"is_optional,omitempty"`
}

// ============================
// Responses
// ============================

type TestDTO struct {
	TestID       string                    `json:"test_id"`
	Code         string                    `json:"code"`
	Slug         string                    `json:"slug"`
	Title        string                    `json:"title"`
	Description  *string                   `json:"description,omitempty"`
	SeriesID     string                    `json:"series_id"`
	TestNumber   int                       `json:"test_number"`
	Status       model.TestStatus          `json:"status"`
	Pattern      model.TestPattern         `json:"pattern"`
	Questions    []model.QuestionReference `json:"questions"`
	Settings     model.TestSettings        `json:"settings"`
	Solutions    model.SolutionsConfig     `json:"solutions"`
	Availability model.Availability        `json:"availability"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

type ValidationResultDTO struct {
	IsValid  bool     `json:"is_valid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

type SectionStatsDTO struct {
	SectionID  string         `json:"section_id"`
	Name       string         `json:"name"`
	Capacity   int            `json:"capacity"`
	Count      int            `json:"count"`
	TypeCounts map[string]int `json:"type_counts"`
}

type TestStatsDTO struct {
	TestID              string            `json:"test_id"`
	TotalQuestions      int               `json:"total_questions"`
	DifficultyHistogram map[string]int    `json:"difficulty_histogram"`
	TypeHistogram       map[string]int    `json:"type_histogram"`
	TopicCoverage       map[string]int    `json:"topic_coverage"`
	Sections            []SectionStatsDTO `json:"sections"`
}

// PreviewEntryDTO pairs a question reference with the public projection of
// its live question document.
type PreviewEntryDTO struct {
	model.QuestionReference
	Question qdto.QuestionPublicDTO `json:"question"`
}

type TestPreviewDTO struct {
	TestDTO
	Entries []PreviewEntryDTO `json:"entries"`
}

type SolvedEntryDTO struct {
	model.QuestionReference
	Question qdto.QuestionFullDTO `json:"question"`
}

type TestWithSolutionsDTO struct {
	TestDTO
	Entries []SolvedEntryDTO `json:"entries"`
}

type AnswerKeyEntryDTO struct {
	Seq        int      `json:"seq"`
	QuestionID string   `json:"question_id"`
	Type       string   `json:"type"`
	OptionID   string   `json:"option_id,omitempty"`
	OptionIDs  []string `json:"option_ids,omitempty"`
	Value      string   `json:"value,omitempty"`
}

// ============================
// Converters
// ============================

func ToTestDTO(m *model.TestModel) TestDTO {
	return TestDTO{
		TestID:       m.TestID,
		Code:         m.TestCode,
		Slug:         m.TestSlug,
		Title:        m.TestTitle,
		Description:  m.TestDescription,
		SeriesID:     m.TestSeriesID,
		TestNumber:   m.TestNumber,
		Status:       m.TestStatus,
		Pattern:      m.TestPattern,
		Questions:    m.TestQuestions,
		Settings:     m.TestSettings,
		Solutions:    m.TestSolutions,
		Availability: m.TestAvailability,
		CreatedAt:    m.TestCreatedAt,
		UpdatedAt:    m.TestUpdatedAt,
	}
}

func ToTestDTOs(ms []model.TestModel) []TestDTO {
	out := make([]TestDTO, 0, len(ms))
	for i := range ms {
		out = append(out, ToTestDTO(&ms[i]))
	}
	return out
}
