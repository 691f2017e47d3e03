package model

import (
	"time"

	"github.com/lib/pq"
)

const SchemaVersionV2 = 2

// ============================
// Enums
// ============================

type QuestionType string

const (
	QuestionTypeSingleChoice QuestionType = "single_choice"
	QuestionTypeMultiChoice  QuestionType = "multi_choice"
	QuestionTypeInteger      QuestionType = "integer"
	QuestionTypeShortText    QuestionType = "short_text"
	QuestionTypeTrueFalse    QuestionType = "true_false"
)

type AnswerKeyType string

const (
	AnswerKeySingle AnswerKeyType = "single"
	AnswerKeyMulti  AnswerKeyType = "multi"
	AnswerKeyValue  AnswerKeyType = "value"
)

type UsageStatus string

const (
	UsageStatusDraft     UsageStatus = "draft"
	UsageStatusPublished UsageStatus = "published"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ============================
// Sub-documents (stored as JSONB)
// ============================

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type AnswerKey struct {
	Type      AnswerKeyType `json:"type"`
	OptionID  string        `json:"option_id,omitempty"`
	OptionIDs []string      `json:"option_ids,omitempty"`
	Value     string        `json:"value,omitempty"`
}

type Solution struct {
	Explanation string   `json:"explanation,omitempty"`
	Steps       []string `json:"steps,omitempty"`
	References  []string `json:"references,omitempty"`
}

type Meta struct {
	EstimatedTimeSec *int    `json:"estimated_time_sec,omitempty"`
	Source           *string `json:"source,omitempty"`
	CreatedBy        *string `json:"created_by,omitempty"`
}

// ============================
// Question document
// ============================

// QuestionModel is the v2 question document. Filterable fields are flattened
// columns; structured content is JSONB. Rows with schema_version 1 are legacy
// imports whose answer data lives in the legacy_* columns until the
// repository adapter upgrades them on read.
type QuestionModel struct {
	QuestionID         string         `gorm:"column:question_id;primaryKey;type:varchar(64)" json:"question_id"`
	QuestionText       string         `gorm:"column:question_text;type:text;not null" json:"question_text"`
	QuestionType       QuestionType   `gorm:"column:question_type;type:varchar(20);not null;index" json:"question_type"`
	QuestionOptions    []Option       `gorm:"column:question_options;type:jsonb;serializer:json" json:"question_options"`
	QuestionAnswerKey  *AnswerKey     `gorm:"column:question_answer_key;type:jsonb;serializer:json" json:"question_answer_key,omitempty"`
	QuestionSolution   *Solution      `gorm:"column:question_solution;type:jsonb;serializer:json" json:"question_solution,omitempty"`
	QuestionDifficulty int            `gorm:"column:question_difficulty;not null;index" json:"question_difficulty"`
	QuestionTags       pq.StringArray `gorm:"column:question_tags;type:text[]" json:"question_tags"`
	QuestionLanguage   string         `gorm:"column:question_language;type:varchar(12);not null;default:'en'" json:"question_language"`
	QuestionMeta       Meta           `gorm:"column:question_meta;type:jsonb;serializer:json" json:"question_meta"`

	// taxonomy (flattened for filtering)
	QuestionSubjectID     *string        `gorm:"column:question_subject_id;type:varchar(64);index" json:"question_subject_id,omitempty"`
	QuestionTopicIDs      pq.StringArray `gorm:"column:question_topic_ids;type:text[]" json:"question_topic_ids"`
	QuestionTargetExamIDs pq.StringArray `gorm:"column:question_target_exam_ids;type:text[]" json:"question_target_exam_ids"`

	// usage (flattened for filtering)
	QuestionStatus     UsageStatus `gorm:"column:question_status;type:varchar(20);not null;default:'draft';index" json:"question_status"`
	QuestionIsActive   bool        `gorm:"column:question_is_active;not null;default:true;index" json:"question_is_active"`
	QuestionVisibility Visibility  `gorm:"column:question_visibility;type:varchar(20);not null;default:'public'" json:"question_visibility"`

	// search + sampling
	QuestionSearchBlob string  `gorm:"column:question_search_blob;type:text" json:"-"`
	QuestionRandKey    float64 `gorm:"column:question_rand_key;not null;index" json:"-"`

	QuestionVersion       int `gorm:"column:question_version;not null;default:1" json:"question_version"`
	QuestionSchemaVersion int `gorm:"column:question_schema_version;not null;default:2" json:"question_schema_version"`

	// legacy import columns (schema_version 1)
	LegacyType             *string        `gorm:"column:legacy_type;type:varchar(20)" json:"-"`
	LegacyCorrectOptionID  *string        `gorm:"column:legacy_correct_option_id;type:varchar(64)" json:"-"`
	LegacyCorrectOptionIDs pq.StringArray `gorm:"column:legacy_correct_option_ids;type:text[]" json:"-"`
	LegacyAnswerValue      *string        `gorm:"column:legacy_answer_value;type:text" json:"-"`
	LegacySolutionText     *string        `gorm:"column:legacy_solution_text;type:text" json:"-"`

	QuestionCreatedAt time.Time `gorm:"column:question_created_at;not null;index" json:"question_created_at"`
	QuestionUpdatedAt time.Time `gorm:"column:question_updated_at;not null" json:"question_updated_at"`
}

func (QuestionModel) TableName() string {
	return "questions"
}

// OptionIDSet returns the set of option ids for answer-key validation.
func (q *QuestionModel) OptionIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(q.QuestionOptions))
	for _, opt := range q.QuestionOptions {
		set[opt.ID] = struct{}{}
	}
	return set
}
