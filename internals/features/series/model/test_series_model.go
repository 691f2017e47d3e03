package model

import (
	"time"

	"github.com/lib/pq"
)

type SeriesStatus string

const (
	SeriesStatusDraft     SeriesStatus = "draft"
	SeriesStatusPublished SeriesStatus = "published"
	SeriesStatusArchived  SeriesStatus = "archived"
)

// ValidSeriesStatus reports whether s is one of the three known statuses.
func ValidSeriesStatus(s SeriesStatus) bool {
	switch s {
	case SeriesStatusDraft, SeriesStatusPublished, SeriesStatusArchived:
		return true
	}
	return false
}

// SyllabusCoverageItem maps one subject plus the topics the series covers,
// with an optional weightage share.
type SyllabusCoverageItem struct {
	SubjectID string   `json:"subject_id"`
	TopicIDs  []string `json:"topic_ids"`
	Weightage *float64 `json:"weightage,omitempty"`
}

// SeriesStats is the derived aggregate snapshot for a series. It is
// recomputed from the owned tests, never edited directly.
type SeriesStats struct {
	TotalTests        int     `json:"total_tests"`
	TotalQuestions    int     `json:"total_questions"`
	AvgDifficulty     float64 `json:"avg_difficulty"`
	TotalDurationMins int     `json:"total_duration_mins"`
}

type TestSeriesModel struct {
	TestSeriesID           string                 `gorm:"column:test_series_id;primaryKey;type:varchar(100)" json:"test_series_id"`
	TestSeriesCode         string                 `gorm:"column:test_series_code;type:varchar(100);not null;uniqueIndex" json:"test_series_code"`
	TestSeriesName         string                 `gorm:"column:test_series_name;type:varchar(255);not null" json:"test_series_name"`
	TestSeriesSlug         string                 `gorm:"column:test_series_slug;type:varchar(120);not null;uniqueIndex" json:"test_series_slug"`
	TestSeriesDescription  *string                `gorm:"column:test_series_description;type:text" json:"test_series_description,omitempty"`
	TestSeriesTargetExamID string                 `gorm:"column:test_series_target_exam_id;type:varchar(64);not null;index" json:"test_series_target_exam_id"`
	TestSeriesSyllabus     []SyllabusCoverageItem `gorm:"column:test_series_syllabus;type:jsonb;serializer:json" json:"test_series_syllabus"`
	TestSeriesStatus       SeriesStatus           `gorm:"column:test_series_status;type:varchar(20);not null;default:'draft';index" json:"test_series_status"`
	TestSeriesTags         pq.StringArray         `gorm:"column:test_series_tags;type:text[]" json:"test_series_tags"`
	TestSeriesIsActive     bool                   `gorm:"column:test_series_is_active;not null;default:true;index" json:"test_series_is_active"`
	TestSeriesStats        SeriesStats            `gorm:"column:test_series_stats;type:jsonb;serializer:json" json:"test_series_stats"`
	TestSeriesStatsAt      *time.Time             `gorm:"column:test_series_stats_at" json:"test_series_stats_at,omitempty"`
	TestSeriesCreatedAt    time.Time              `gorm:"column:test_series_created_at;not null;index" json:"test_series_created_at"`
	TestSeriesUpdatedAt    time.Time              `gorm:"column:test_series_updated_at;not null" json:"test_series_updated_at"`
}

func (TestSeriesModel) TableName() string {
	return "test_series"
}
