package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"qbank_backend/internals/features/instructions/model"
	testmodel "qbank_backend/internals/features/tests/model"
)

type TestInstructionsRepository struct {
	db *gorm.DB
}

func NewTestInstructionsRepository(db *gorm.DB) *TestInstructionsRepository {
	return &TestInstructionsRepository{db: db}
}

func (r *TestInstructionsRepository) Insert(ctx context.Context, m *model.TestInstructionsModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *TestInstructionsRepository) Update(ctx context.Context, m *model.TestInstructionsModel) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *TestInstructionsRepository) FindByTestID(ctx context.Context, testID string) (*model.TestInstructionsModel, error) {
	var m model.TestInstructionsModel
	err := r.db.WithContext(ctx).
		Where("instruction_test_id = ?", testID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TestInstructionsRepository) DeleteByTestID(ctx context.Context, testID string) error {
	return r.db.WithContext(ctx).
		Where("instruction_test_id = ?", testID).
		Delete(&model.TestInstructionsModel{}).Error
}

// TestSourceRepository answers test existence checks.
type TestSourceRepository struct {
	db *gorm.DB
}

func NewTestSourceRepository(db *gorm.DB) *TestSourceRepository {
	return &TestSourceRepository{db: db}
}

func (r *TestSourceRepository) TestExists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&testmodel.TestModel{}).
		Where("test_id = ?", id).
		Count(&n).Error
	return n > 0, err
}
