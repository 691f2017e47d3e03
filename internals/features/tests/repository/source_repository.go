package repository

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"

	qmodel "qbank_backend/internals/features/questions/model"
	qrepo "qbank_backend/internals/features/questions/repository"
	seriesmodel "qbank_backend/internals/features/series/model"
	taxmodel "qbank_backend/internals/features/taxonomy/model"
	"qbank_backend/internals/features/tests/service"
)

// QuestionSourceRepository resolves question documents for the composition
// engine. Candidates are restricted to active, published questions.
type QuestionSourceRepository struct {
	db *gorm.DB
}

func NewQuestionSourceRepository(db *gorm.DB) *QuestionSourceRepository {
	return &QuestionSourceRepository{db: db}
}

func (r *QuestionSourceRepository) FindByIDs(ctx context.Context, ids []string) ([]qmodel.QuestionModel, error) {
	var qs []qmodel.QuestionModel
	if len(ids) == 0 {
		return qs, nil
	}
	err := r.db.WithContext(ctx).
		Where("question_id IN ?", ids).
		Find(&qs).Error
	if err != nil {
		return nil, err
	}
	qrepo.UpgradeLegacyAll(qs)
	return qs, nil
}

func applyCriteria(tx *gorm.DB, c service.CandidateCriteria) *gorm.DB {
	tx = tx.
		Where("question_subject_id = ?", c.SubjectID).
		Where("question_status = ?", qmodel.UsageStatusPublished).
		Where("question_is_active = ?", true)
	if len(c.TopicIDs) > 0 {
		tx = tx.Where("question_topic_ids && ?", pq.StringArray(c.TopicIDs))
	}
	if len(c.Difficulties) > 0 {
		tx = tx.Where("question_difficulty IN ?", c.Difficulties)
	}
	if len(c.Types) > 0 {
		tx = tx.Where("question_type IN ?", c.Types)
	}
	return tx
}

func (r *QuestionSourceRepository) FindCandidates(ctx context.Context, c service.CandidateCriteria, order service.CandidateOrder, limit int) ([]qmodel.QuestionModel, error) {
	tx := applyCriteria(r.db.WithContext(ctx).Model(&qmodel.QuestionModel{}), c)
	switch order {
	case service.OrderByDifficulty:
		tx = tx.Order("question_difficulty ASC").Order("question_id ASC")
	default:
		tx = tx.Order("question_id ASC")
	}
	var qs []qmodel.QuestionModel
	err := tx.Limit(limit).Find(&qs).Error
	if err != nil {
		return nil, err
	}
	qrepo.UpgradeLegacyAll(qs)
	return qs, nil
}

func (r *QuestionSourceRepository) SampleCandidates(ctx context.Context, c service.CandidateCriteria, limit int, seedPoint float64) ([]qmodel.QuestionModel, error) {
	var qs []qmodel.QuestionModel
	err := applyCriteria(r.db.WithContext(ctx).Model(&qmodel.QuestionModel{}), c).
		Where("question_rand_key >= ?", seedPoint).
		Order("question_rand_key ASC").
		Order("question_id ASC").
		Limit(limit).
		Find(&qs).Error
	if err != nil {
		return nil, err
	}
	if len(qs) < limit {
		var rest []qmodel.QuestionModel
		err = applyCriteria(r.db.WithContext(ctx).Model(&qmodel.QuestionModel{}), c).
			Where("question_rand_key < ?", seedPoint).
			Order("question_rand_key ASC").
			Order("question_id ASC").
			Limit(limit - len(qs)).
			Find(&rest).Error
		if err != nil {
			return nil, err
		}
		qs = append(qs, rest...)
	}
	qrepo.UpgradeLegacyAll(qs)
	return qs, nil
}

// SubjectSourceRepository answers existence checks for pattern validation.
type SubjectSourceRepository struct {
	db *gorm.DB
}

func NewSubjectSourceRepository(db *gorm.DB) *SubjectSourceRepository {
	return &SubjectSourceRepository{db: db}
}

func (r *SubjectSourceRepository) SubjectExists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&taxmodel.SubjectModel{}).
		Where("subject_id = ?", id).
		Count(&n).Error
	return n > 0, err
}

// SeriesSourceRepository answers existence checks for explicit series ids.
type SeriesSourceRepository struct {
	db *gorm.DB
}

func NewSeriesSourceRepository(db *gorm.DB) *SeriesSourceRepository {
	return &SeriesSourceRepository{db: db}
}

func (r *SeriesSourceRepository) SeriesExists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&seriesmodel.TestSeriesModel{}).
		Where("test_series_id = ?", id).
		Count(&n).Error
	return n > 0, err
}
