package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"qbank_backend/internals/features/questions/model"
	"qbank_backend/internals/features/questions/service"
)

// QuestionRepository is the GORM-backed implementation of service.Store.
type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

var sortColumns = map[string]string{
	"created_at": "question_created_at",
	"updated_at": "question_updated_at",
	"difficulty": "question_difficulty",
}

// UpgradeLegacy rewrites a schema_version 1 row into the v2 document shape.
// Legacy imports carried the answer data in dedicated columns keyed by the
// old MCQ/MSQ/NAT type codes.
func UpgradeLegacy(q *model.QuestionModel) {
	if q.QuestionSchemaVersion >= model.SchemaVersionV2 {
		return
	}
	legacyType := ""
	if q.LegacyType != nil {
		legacyType = *q.LegacyType
	}
	switch legacyType {
	case "MCQ":
		q.QuestionType = model.QuestionTypeSingleChoice
		if q.LegacyCorrectOptionID != nil {
			q.QuestionAnswerKey = &model.AnswerKey{Type: model.AnswerKeySingle, OptionID: *q.LegacyCorrectOptionID}
		}
	case "MSQ":
		q.QuestionType = model.QuestionTypeMultiChoice
		if len(q.LegacyCorrectOptionIDs) > 0 {
			q.QuestionAnswerKey = &model.AnswerKey{Type: model.AnswerKeyMulti, OptionIDs: q.LegacyCorrectOptionIDs}
		}
	case "NAT":
		q.QuestionType = model.QuestionTypeInteger
		if q.LegacyAnswerValue != nil {
			q.QuestionAnswerKey = &model.AnswerKey{Type: model.AnswerKeyValue, Value: *q.LegacyAnswerValue}
		}
	}
	if q.QuestionSolution == nil && q.LegacySolutionText != nil && *q.LegacySolutionText != "" {
		q.QuestionSolution = &model.Solution{Explanation: *q.LegacySolutionText}
	}
}

func UpgradeLegacyAll(qs []model.QuestionModel) {
	for i := range qs {
		UpgradeLegacy(&qs[i])
	}
}

func (r *QuestionRepository) Insert(ctx context.Context, q *model.QuestionModel) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) Update(ctx context.Context, q *model.QuestionModel) error {
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("question_id = ?", id).
		Delete(&model.QuestionModel{}).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*model.QuestionModel, error) {
	var q model.QuestionModel
	err := r.db.WithContext(ctx).
		Where("question_id = ?", id).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	UpgradeLegacy(&q)
	return &q, nil
}

func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []string) ([]model.QuestionModel, error) {
	var qs []model.QuestionModel
	if len(ids) == 0 {
		return qs, nil
	}
	err := r.db.WithContext(ctx).
		Where("question_id IN ?", ids).
		Find(&qs).Error
	if err != nil {
		return nil, err
	}
	UpgradeLegacyAll(qs)
	return qs, nil
}

func applyFilter(tx *gorm.DB, f service.QuestionFilter) *gorm.DB {
	if f.SubjectID != "" {
		tx = tx.Where("question_subject_id = ?", f.SubjectID)
	}
	if len(f.TopicIDs) > 0 {
		tx = tx.Where("question_topic_ids && ?", pq.StringArray(f.TopicIDs))
	}
	if len(f.TargetExamIDs) > 0 {
		tx = tx.Where("question_target_exam_ids && ?", pq.StringArray(f.TargetExamIDs))
	}
	if f.DifficultyMin != nil {
		tx = tx.Where("question_difficulty >= ?", *f.DifficultyMin)
	}
	if f.DifficultyMax != nil {
		tx = tx.Where("question_difficulty <= ?", *f.DifficultyMax)
	}
	if len(f.Tags) > 0 {
		tx = tx.Where("question_tags && ?", pq.StringArray(f.Tags))
	}
	if f.Status != "" {
		tx = tx.Where("question_status = ?", f.Status)
	}
	if f.IsActive != nil {
		tx = tx.Where("question_is_active = ?", *f.IsActive)
	}
	return tx
}

func (r *QuestionRepository) FindMany(ctx context.Context, f service.QuestionFilter, searchTerms []string, sort service.SortSpec, skip, limit int) ([]model.QuestionModel, int64, error) {
	base := applyFilter(r.db.WithContext(ctx).Model(&model.QuestionModel{}), f)

	if len(searchTerms) > 0 {
		// each term must match somewhere in the blob
		for _, term := range searchTerms {
			base = base.Where("question_search_blob LIKE ?", "%"+term+"%")
		}
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[sort.By]
	if !ok {
		col = "question_created_at"
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}

	var qs []model.QuestionModel
	err := base.
		Order(col + " " + dir).
		Order("question_id ASC").
		Offset(skip).
		Limit(limit).
		Find(&qs).Error
	if err != nil {
		return nil, 0, err
	}
	UpgradeLegacyAll(qs)
	return qs, total, nil
}

// Sample draws limit documents deterministically for a given seed point:
// take rows with rand_key >= point in ascending order, then wrap around to
// rows below the point if the upper range runs short. The draw is a
// contiguous window of the rand_key circle, not an independent uniform
// sample; documents adjacent in rand_key are always drawn together. That
// is acceptable here because rand_key itself is assigned uniformly at
// insert time and the window start varies with the seed.
func (r *QuestionRepository) Sample(ctx context.Context, f service.QuestionFilter, limit int, seedPoint float64) ([]model.QuestionModel, error) {
	upper := applyFilter(r.db.WithContext(ctx).Model(&model.QuestionModel{}), f)

	var qs []model.QuestionModel
	err := upper.
		Where("question_rand_key >= ?", seedPoint).
		Order("question_rand_key ASC").
		Order("question_id ASC").
		Limit(limit).
		Find(&qs).Error
	if err != nil {
		return nil, err
	}

	if len(qs) < limit {
		lower := applyFilter(r.db.WithContext(ctx).Model(&model.QuestionModel{}), f)
		var rest []model.QuestionModel
		err = lower.
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
	UpgradeLegacyAll(qs)
	return qs, nil
}

// SearchScore counts how many of the given terms occur in the document's
// search blob. Used to annotate discover results.
func SearchScore(blob string, terms []string) int {
	score := 0
	for _, term := range terms {
		if strings.Contains(blob, term) {
			score++
		}
	}
	return score
}
