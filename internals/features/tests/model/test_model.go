package model

import (
	"time"
)

// ============================
// Enums
// ============================

type TestStatus string

const (
	TestStatusDraft     TestStatus = "draft"
	TestStatusPublished TestStatus = "published"
	TestStatusArchived  TestStatus = "archived"
)

type ReleaseMode string

const (
	ReleaseModeNever           ReleaseMode = "never"
	ReleaseModeAfterSubmission ReleaseMode = "after_submission"
	ReleaseModeScheduled       ReleaseMode = "scheduled"
	ReleaseModeManual          ReleaseMode = "manual"
)

// StandaloneSeriesPrefix marks auto-generated series ids for tests created
// without an explicit series.
const StandaloneSeriesPrefix = "standalone_"

// ============================
// Pattern sub-documents (stored as JSONB)
// ============================

// MarkingScheme holds the mark values applied per question type.
type MarkingScheme struct {
	Correct     float64  `json:"correct"`
	Incorrect   float64  `json:"incorrect"`
	Unattempted float64  `json:"unattempted"`
	Partial     *float64 `json:"partial,omitempty"`
}

type TestSection struct {
	SectionID       string                   `json:"section_id"`
	SectionCode     string                   `json:"section_code,omitempty"`
	Name            string                   `json:"name"`
	SubjectID       string                   `json:"subject_id"`
	TotalQuestions  int                      `json:"total_questions"`
	DisplayOrder    int                      `json:"display_order"`
	DurationMinutes *int                     `json:"duration_minutes,omitempty"`
	IsOptional      bool                     `json:"is_optional"`
	MarkingScheme   map[string]MarkingScheme `json:"marking_scheme"`
}

type TestPattern struct {
	TotalQuestions  int           `json:"total_questions"`
	TotalMarks      *float64      `json:"total_marks,omitempty"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
	Sections        []TestSection `json:"sections"`
}

// QuestionReference points a test at a question document. Type, subject,
// topics, and difficulty are denormalized at the time the reference is
// built; marks may be overridden per test.
type QuestionReference struct {
	Seq           int      `json:"seq"`
	SectionID     string   `json:"section_id"`
	QuestionID    string   `json:"question_id"`
	QuestionType  string   `json:"question_type"`
	SubjectID     *string  `json:"subject_id,omitempty"`
	TopicIDs      []string `json:"topic_ids"`
	Difficulty    int      `json:"difficulty"`
	Marks         float64  `json:"marks"`
	NegativeMarks float64  `json:"negative_marks"`
	IsBonus       bool     `json:"is_bonus"`
	IsOptional    bool     `json:"is_optional"`
}

type SolutionsConfig struct {
	HasSolutions bool        `json:"has_solutions"`
	ReleaseMode  ReleaseMode `json:"release_mode"`
	ReleaseAt    *time.Time  `json:"release_at,omitempty"`
}

type TestSettings struct {
	ShuffleQuestions  bool `json:"shuffle_questions"`
	ShuffleOptions    bool `json:"shuffle_options"`
	CalculatorAllowed bool `json:"calculator_allowed"`
	CanSwitchSection  bool `json:"can_switch_section"`
}

type Availability struct {
	StartAt *time.Time `json:"start_at,omitempty"`
	EndAt   *time.Time `json:"end_at,omitempty"`
}

// ============================
// Test aggregate
// ============================

type TestModel struct {
	TestID           string              `gorm:"column:test_id;primaryKey;type:varchar(64)" json:"test_id"`
	TestCode         string              `gorm:"column:test_code;type:varchar(100);not null;uniqueIndex" json:"test_code"`
	TestSlug         string              `gorm:"column:test_slug;type:varchar(120);not null;uniqueIndex" json:"test_slug"`
	TestTitle        string              `gorm:"column:test_title;type:varchar(255);not null" json:"test_title"`
	TestDescription  *string             `gorm:"column:test_description;type:text" json:"test_description,omitempty"`
	TestSeriesID     string              `gorm:"column:test_series_id;type:varchar(100);not null;uniqueIndex:idx_test_series_number,priority:1" json:"test_series_id"`
	TestNumber       int                 `gorm:"column:test_number;not null;uniqueIndex:idx_test_series_number,priority:2" json:"test_number"`
	TestStatus       TestStatus          `gorm:"column:test_status;type:varchar(20);not null;default:'draft';index" json:"test_status"`
	TestPattern      TestPattern         `gorm:"column:test_pattern;type:jsonb;serializer:json" json:"test_pattern"`
	TestQuestions    []QuestionReference `gorm:"column:test_questions;type:jsonb;serializer:json" json:"test_questions"`
	TestSettings     TestSettings        `gorm:"column:test_settings;type:jsonb;serializer:json" json:"test_settings"`
	TestSolutions    SolutionsConfig     `gorm:"column:test_solutions;type:jsonb;serializer:json" json:"test_solutions"`
	TestAvailability Availability        `gorm:"column:test_availability;type:jsonb;serializer:json" json:"test_availability"`
	TestCreatedAt    time.Time           `gorm:"column:test_created_at;not null;index" json:"test_created_at"`
	TestUpdatedAt    time.Time           `gorm:"column:test_updated_at;not null" json:"test_updated_at"`
}

func (TestModel) TableName() string {
	return "tests"
}

// SectionByID returns the pattern section with the given id, or nil.
func (t *TestModel) SectionByID(id string) *TestSection {
	for i := range t.TestPattern.Sections {
		if t.TestPattern.Sections[i].SectionID == id {
			return &t.TestPattern.Sections[i]
		}
	}
	return nil
}

// ReferenceByQuestionID returns the reference for the given question id, or nil.
func (t *TestModel) ReferenceByQuestionID(qid string) *QuestionReference {
	for i := range t.TestQuestions {
		if t.TestQuestions[i].QuestionID == qid {
			return &t.TestQuestions[i]
		}
	}
	return nil
}

// NextSeq returns one past the current maximum sequence number, or 1 when
// the test holds no questions.
func (t *TestModel) NextSeq() int {
	max := 0
	for i := range t.TestQuestions {
		if t.TestQuestions[i].Seq > max {
			max = t.TestQuestions[i].Seq
		}
	}
	return max + 1
}
