package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"qbank_backend/internals/features/exams/model"
)

// ExamRepository is the GORM-backed implementation of service.Store.
type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) GetExam(ctx context.Context, id string) (*model.ExamModel, error) {
	var exam model.ExamModel
	err := r.DB.WithContext(ctx).First(&exam, "exam_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) GetExamByCode(ctx context.Context, code string) (*model.ExamModel, error) {
	var exam model.ExamModel
	err := r.DB.WithContext(ctx).First(&exam, "exam_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) InsertExam(ctx context.Context, e *model.ExamModel) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *ExamRepository) UpdateExam(ctx context.Context, e *model.ExamModel) error {
	return r.DB.WithContext(ctx).Save(e).Error
}

func (r *ExamRepository) DeleteExam(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&model.ExamModel{}, "exam_id = ?", id).Error
}

func (r *ExamRepository) ListExams(ctx context.Context, activeOnly bool) ([]model.ExamModel, error) {
	q := r.DB.WithContext(ctx).Model(&model.ExamModel{})
	if activeOnly {
		q = q.Where("exam_is_active = ?", true)
	}
	var exams []model.ExamModel
	if err := q.Order("exam_code ASC").Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}
