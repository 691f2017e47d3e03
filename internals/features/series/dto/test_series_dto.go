package dto

import (
	"time"

	"qbank_backend/internals/features/series/model"
)

type CreateTestSeriesRequest struct {
	ID           string                       `json:"id,omitempty"`
	Code         string                       `json:"code" validate:"required"`
	Name         string                       `json:"name" validate:"required"`
	Slug         string                       `json:"slug,omitempty"`
	Description  *string                      `json:"description,omitempty"`
	TargetExamID string                       `json:"target_exam_id" validate:"required"`
	Syllabus     []model.SyllabusCoverageItem `json:"syllabus_coverage,omitempty"`
	Status       model.SeriesStatus           `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	Tags         []string                     `json:"tags,omitempty"`
	IsActive     *bool                        `json:"is_active,omitempty"`
}

// UpdateTestSeriesRequest patches mutable fields. Code and target exam are
// fixed at creation; sending them is rejected.
type UpdateTestSeriesRequest struct {
	Code         *string                      `json:"code,omitempty"`
	TargetExamID *string                      `json:"target_exam_id,omitempty"`
	Name         *string                      `json:"name,omitempty"`
	Slug         *string                      `json:"slug,omitempty"`
	Description  *string                      `json:"description,omitempty"`
	Syllabus     []model.SyllabusCoverageItem `json:"syllabus_coverage,omitempty"`
	Status       *model.SeriesStatus          `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	Tags         []string                     `json:"tags,omitempty"`
	IsActive     *bool                        `json:"is_active,omitempty"`
}

type UpdateSeriesStatusRequest struct {
	Status model.SeriesStatus `json:"status" validate:"required,oneof=draft published archived"`
}

type TestSeriesDTO struct {
	ID           string                       `json:"id"`
	Code         string                       `json:"code"`
	Name         string                       `json:"name"`
	Slug         string                       `json:"slug"`
	Description  *string                      `json:"description,omitempty"`
	TargetExamID string                       `json:"target_exam_id"`
	Syllabus     []model.SyllabusCoverageItem `json:"syllabus_coverage"`
	Status       model.SeriesStatus           `json:"status"`
	Tags         []string                     `json:"tags"`
	IsActive     bool                         `json:"is_active"`
	Stats        model.SeriesStats            `json:"stats"`
	StatsAt      *time.Time                   `json:"stats_at,omitempty"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

func ToTestSeriesDTO(m *model.TestSeriesModel) TestSeriesDTO {
	return TestSeriesDTO{
		ID:           m.TestSeriesID,
		Code:         m.TestSeriesCode,
		Name:         m.TestSeriesName,
		Slug:         m.TestSeriesSlug,
		Description:  m.TestSeriesDescription,
		TargetExamID: m.TestSeriesTargetExamID,
		Syllabus:     m.TestSeriesSyllabus,
		Status:       m.TestSeriesStatus,
		Tags:         m.TestSeriesTags,
		IsActive:     m.TestSeriesIsActive,
		Stats:        m.TestSeriesStats,
		StatsAt:      m.TestSeriesStatsAt,
		CreatedAt:    m.TestSeriesCreatedAt,
		UpdatedAt:    m.TestSeriesUpdatedAt,
	}
}

func ToTestSeriesDTOs(ms []model.TestSeriesModel) []TestSeriesDTO {
	out := make([]TestSeriesDTO, 0, len(ms))
	for i := range ms {
		out = append(out, ToTestSeriesDTO(&ms[i]))
	}
	return out
}
