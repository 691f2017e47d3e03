package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"qbank_backend/internals/features/taxonomy/model"
	"qbank_backend/internals/features/taxonomy/service"
	helper "qbank_backend/internals/helpers"
)

// TaxonomyRepository is the GORM-backed implementation of service.Store.
type TaxonomyRepository struct {
	DB *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{DB: db}
}

func (r *TaxonomyRepository) GetSubject(ctx context.Context, id string) (*model.SubjectModel, error) {
	var subject model.SubjectModel
	err := r.DB.WithContext(ctx).First(&subject, "subject_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *TaxonomyRepository) GetSubjectBySlug(ctx context.Context, slug string) (*model.SubjectModel, error) {
	var subject model.SubjectModel
	err := r.DB.WithContext(ctx).First(&subject, "subject_slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *TaxonomyRepository) InsertSubject(ctx context.Context, s *model.SubjectModel) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *TaxonomyRepository) UpdateSubject(ctx context.Context, s *model.SubjectModel) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *TaxonomyRepository) DeleteSubject(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&model.SubjectModel{}, "subject_id = ?", id).Error
}

var subjectSortColumns = map[string]string{
	"name":       "subject_name",
	"created_at": "subject_created_at",
	"updated_at": "subject_updated_at",
}

func (r *TaxonomyRepository) ListSubjects(ctx context.Context, f service.SubjectFilter, p helper.PageParams) ([]model.SubjectModel, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.SubjectModel{})
	if f.IsActive != nil {
		q = q.Where("subject_is_active = ?", *f.IsActive)
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(subject_name) LIKE ? OR LOWER(subject_slug) LIKE ?", term, term)
	}
	if len(f.Tags) > 0 {
		q = q.Where("subject_tags && ?", pq.StringArray(f.Tags))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subjects []model.SubjectModel
	err := q.Order(p.SafeOrderClause(subjectSortColumns, "name") + ", subject_id ASC").
		Offset(p.Skip).Limit(p.Limit).
		Find(&subjects).Error
	if err != nil {
		return nil, 0, err
	}
	return subjects, total, nil
}

func (r *TaxonomyRepository) CountTopicsForSubject(ctx context.Context, subjectID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.TopicModel{}).
		Where("topic_subject_id = ?", subjectID).
		Count(&count).Error
	return count, err
}

func (r *TaxonomyRepository) GetTopic(ctx context.Context, id string) (*model.TopicModel, error) {
	var topic model.TopicModel
	err := r.DB.WithContext(ctx).First(&topic, "topic_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *TaxonomyRepository) GetTopicBySlug(ctx context.Context, subjectID, slug string) (*model.TopicModel, error) {
	var topic model.TopicModel
	err := r.DB.WithContext(ctx).
		First(&topic, "topic_subject_id = ? AND topic_slug = ?", subjectID, slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *TaxonomyRepository) InsertTopic(ctx context.Context, t *model.TopicModel) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *TaxonomyRepository) UpdateTopic(ctx context.Context, t *model.TopicModel) error {
	return r.DB.WithContext(ctx).Save(t).Error
}

func (r *TaxonomyRepository) DeleteTopic(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&model.TopicModel{}, "topic_id = ?", id).Error
}

func (r *TaxonomyRepository) ListTopics(ctx context.Context, subjectID string) ([]model.TopicModel, error) {
	q := r.DB.WithContext(ctx).Model(&model.TopicModel{})
	if subjectID != "" {
		q = q.Where("topic_subject_id = ?", subjectID)
	}
	var topics []model.TopicModel
	if err := q.Order("topic_name ASC, topic_id ASC").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}
