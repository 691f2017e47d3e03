package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	exammodel "qbank_backend/internals/features/exams/model"
	"qbank_backend/internals/features/series/model"
	"qbank_backend/internals/features/series/service"
	testmodel "qbank_backend/internals/features/tests/model"
	helper "qbank_backend/internals/helpers"
)

// TestSeriesRepository is the GORM-backed implementation of service.Store.
type TestSeriesRepository struct {
	db *gorm.DB
}

func NewTestSeriesRepository(db *gorm.DB) *TestSeriesRepository {
	return &TestSeriesRepository{db: db}
}

var seriesSortColumns = map[string]string{
	"name":       "test_series_name",
	"code":       "test_series_code",
	"created_at": "test_series_created_at",
}

func (r *TestSeriesRepository) Insert(ctx context.Context, s *model.TestSeriesModel) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *TestSeriesRepository) Update(ctx context.Context, s *model.TestSeriesModel) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *TestSeriesRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("test_series_id = ?", id).
		Delete(&model.TestSeriesModel{}).Error
}

func (r *TestSeriesRepository) findOne(ctx context.Context, query string, arg string) (*model.TestSeriesModel, error) {
	var s model.TestSeriesModel
	err := r.db.WithContext(ctx).Where(query, arg).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *TestSeriesRepository) FindByID(ctx context.Context, id string) (*model.TestSeriesModel, error) {
	return r.findOne(ctx, "test_series_id = ?", id)
}

func (r *TestSeriesRepository) FindByCode(ctx context.Context, code string) (*model.TestSeriesModel, error) {
	return r.findOne(ctx, "test_series_code = ?", code)
}

func (r *TestSeriesRepository) FindBySlug(ctx context.Context, slug string) (*model.TestSeriesModel, error) {
	return r.findOne(ctx, "test_series_slug = ?", slug)
}

func (r *TestSeriesRepository) List(ctx context.Context, f service.SeriesFilter, page helper.PageParams) ([]model.TestSeriesModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.TestSeriesModel{})
	if f.TargetExamID != "" {
		tx = tx.Where("test_series_target_exam_id = ?", f.TargetExamID)
	}
	if f.Status != "" {
		tx = tx.Where("test_series_status = ?", f.Status)
	}
	if f.IsActive != nil {
		tx = tx.Where("test_series_is_active = ?", *f.IsActive)
	}
	if len(f.Tags) > 0 {
		tx = tx.Where("test_series_tags && ?", pq.StringArray(f.Tags))
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []model.TestSeriesModel
	err := tx.
		Order(page.SafeOrderClause(seriesSortColumns, "name")).
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *TestSeriesRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.TestSeriesModel{}).
		Pluck("test_series_id", &ids).Error
	return ids, err
}

// =======================
// Aggregation over tests
// =======================

// TestAggregatorRepository derives series stats from the owned tests.
type TestAggregatorRepository struct {
	db *gorm.DB
}

func NewTestAggregatorRepository(db *gorm.DB) *TestAggregatorRepository {
	return &TestAggregatorRepository{db: db}
}

func (r *TestAggregatorRepository) CountTests(ctx context.Context, seriesID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&testmodel.TestModel{}).
		Where("test_series_id = ?", seriesID).
		Count(&n).Error
	return n, err
}

// AggregateSeries loads the series' tests and folds their question
// references into totals. Difficulty averages over every referenced
// question across the series.
func (r *TestAggregatorRepository) AggregateSeries(ctx context.Context, seriesID string) (model.SeriesStats, error) {
	var tests []testmodel.TestModel
	err := r.db.WithContext(ctx).
		Where("test_series_id = ?", seriesID).
		Find(&tests).Error
	if err != nil {
		return model.SeriesStats{}, err
	}

	stats := model.SeriesStats{TotalTests: len(tests)}
	difficultySum := 0
	for i := range tests {
		refs := tests[i].TestQuestions
		stats.TotalQuestions += len(refs)
		for j := range refs {
			difficultySum += refs[j].Difficulty
		}
		if d := tests[i].TestPattern.DurationMinutes; d != nil {
			stats.TotalDurationMins += *d
		}
	}
	if stats.TotalQuestions > 0 {
		stats.AvgDifficulty = float64(difficultySum) / float64(stats.TotalQuestions)
	}
	return stats, nil
}

// ExamSourceRepository answers exam existence checks for series creation.
type ExamSourceRepository struct {
	db *gorm.DB
}

func NewExamSourceRepository(db *gorm.DB) *ExamSourceRepository {
	return &ExamSourceRepository{db: db}
}

// ExamExists matches the exam id first and falls back to the exam code, so
// a series may name its target exam either way.
func (r *ExamSourceRepository) ExamExists(ctx context.Context, idOrCode string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&exammodel.ExamModel{}).
		Where("exam_id = ? OR exam_code = ?", idOrCode, idOrCode).
		Count(&n).Error
	return n > 0, err
}
