package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"qbank_backend/internals/features/tests/model"
	"qbank_backend/internals/features/tests/service"
)

// TestRepository is the GORM-backed implementation of service.Store.
type TestRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{db: db}
}

func (r *TestRepository) Insert(ctx context.Context, t *model.TestModel) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TestRepository) Update(ctx context.Context, t *model.TestModel) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TestRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("test_id = ?", id).
		Delete(&model.TestModel{}).Error
}

func (r *TestRepository) FindByID(ctx context.Context, id string) (*model.TestModel, error) {
	var t model.TestModel
	err := r.db.WithContext(ctx).
		Where("test_id = ?", id).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TestRepository) FindByCode(ctx context.Context, code string) (*model.TestModel, error) {
	var t model.TestModel
	err := r.db.WithContext(ctx).
		Where("test_code = ?", code).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TestRepository) FindBySlug(ctx context.Context, slug string) (*model.TestModel, error) {
	var t model.TestModel
	err := r.db.WithContext(ctx).
		Where("test_slug = ?", slug).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TestRepository) FindBySeriesAndNumber(ctx context.Context, seriesID string, number int) (*model.TestModel, error) {
	var t model.TestModel
	err := r.db.WithContext(ctx).
		Where("test_series_id = ? AND test_number = ?", seriesID, number).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TestRepository) List(ctx context.Context, f service.TestFilter, skip, limit int) ([]model.TestModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.TestModel{})
	if f.SeriesID != "" {
		tx = tx.Where("test_series_id = ?", f.SeriesID)
	}
	if f.Status != "" {
		tx = tx.Where("test_status = ?", f.Status)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ts []model.TestModel
	err := tx.
		Order("test_series_id ASC, test_number ASC").
		Offset(skip).
		Limit(limit).
		Find(&ts).Error
	if err != nil {
		return nil, 0, err
	}
	return ts, total, nil
}

func (r *TestRepository) CountBySeries(ctx context.Context, seriesID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.TestModel{}).
		Where("test_series_id = ?", seriesID).
		Count(&n).Error
	return n, err
}
