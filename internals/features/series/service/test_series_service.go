package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"qbank_backend/internals/features/series/dto"
	"qbank_backend/internals/features/series/model"
	taxonomyModel "qbank_backend/internals/features/taxonomy/model"
	helper "qbank_backend/internals/helpers"
)

// =======================
// Store contracts
// =======================

type SeriesFilter struct {
	TargetExamID string
	Status       string
	IsActive     *bool
	Tags         []string
}

type Store interface {
	Insert(ctx context.Context, s *model.TestSeriesModel) error
	Update(ctx context.Context, s *model.TestSeriesModel) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.TestSeriesModel, error)
	FindByCode(ctx context.Context, code string) (*model.TestSeriesModel, error)
	FindBySlug(ctx context.Context, slug string) (*model.TestSeriesModel, error)
	List(ctx context.Context, f SeriesFilter, page helper.PageParams) ([]model.TestSeriesModel, int64, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// TestAggregator computes the derived stats for a series from the tests
// that belong to it.
type TestAggregator interface {
	CountTests(ctx context.Context, seriesID string) (int64, error)
	AggregateSeries(ctx context.Context, seriesID string) (model.SeriesStats, error)
}

// ExamSource resolves the target exam. The argument may be either the exam
// id or its code; both identify the exam uniquely.
type ExamSource interface {
	ExamExists(ctx context.Context, idOrCode string) (bool, error)
}

// TaxonomyReader is the slice of the taxonomy registry needed to validate
// syllabus coverage.
type TaxonomyReader interface {
	GetSubject(ctx context.Context, id string) (*taxonomyModel.SubjectModel, error)
	GetTopic(ctx context.Context, id string) (*taxonomyModel.TopicModel, error)
}

type TestSeriesService struct {
	store    Store
	tests    TestAggregator
	exams    ExamSource
	taxonomy TaxonomyReader
	now      func() time.Time
}

func NewTestSeriesService(store Store, tests TestAggregator, exams ExamSource, taxonomy TaxonomyReader) *TestSeriesService {
	return &TestSeriesService{store: store, tests: tests, exams: exams, taxonomy: taxonomy, now: time.Now}
}

// validateSyllabus checks every covered subject and topic exists and that
// each topic belongs to the subject it is listed under.
func (s *TestSeriesService) validateSyllabus(ctx context.Context, items []model.SyllabusCoverageItem) error {
	for _, item := range items {
		subject, err := s.taxonomy.GetSubject(ctx, item.SubjectID)
		if err != nil {
			return err
		}
		if subject == nil {
			return helper.Validationf("Subject %s does not exist", item.SubjectID)
		}
		for _, topicID := range item.TopicIDs {
			topic, err := s.taxonomy.GetTopic(ctx, topicID)
			if err != nil {
				return err
			}
			if topic == nil {
				return helper.Validationf("Topic %s does not exist", topicID)
			}
			if topic.TopicSubjectID != item.SubjectID {
				return helper.Validationf("Topic %s does not belong to subject %s", topicID, item.SubjectID)
			}
		}
	}
	return nil
}

// =======================
// CRUD
// =======================

func (s *TestSeriesService) CreateSeries(ctx context.Context, req *dto.CreateTestSeriesRequest) (*model.TestSeriesModel, error) {
	ok, err := s.exams.ExamExists(ctx, req.TargetExamID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, helper.NotFoundf("Exam not found: %s", req.TargetExamID)
	}
	if err := s.validateSyllabus(ctx, req.Syllabus); err != nil {
		return nil, err
	}

	status := model.SeriesStatusDraft
	if req.Status != "" {
		if !model.ValidSeriesStatus(req.Status) {
			return nil, helper.Validationf("Invalid status value: %s", req.Status)
		}
		status = req.Status
	}

	slug := req.Slug
	if slug == "" {
		slug = helper.Slugify(req.Name)
	}
	if !helper.IsValidSlug(slug) {
		return nil, helper.Validationf("Invalid slug: %s", slug)
	}

	id := req.ID
	if id == "" {
		id = "series_" + uuid.NewString()
	} else {
		existing, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, helper.Conflictf("Test series id already exists: %s", id)
		}
	}
	if existing, err := s.store.FindByCode(ctx, req.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, helper.Conflictf("Test series code already exists: %s", req.Code)
	}
	if existing, err := s.store.FindBySlug(ctx, slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, helper.Conflictf("Test series slug already exists: %s", slug)
	}

	now := s.now()
	m := &model.TestSeriesModel{
		TestSeriesID:           id,
		TestSeriesCode:         req.Code,
		TestSeriesName:         req.Name,
		TestSeriesSlug:         slug,
		TestSeriesDescription:  req.Description,
		TestSeriesTargetExamID: req.TargetExamID,
		TestSeriesSyllabus:     req.Syllabus,
		TestSeriesStatus:       status,
		TestSeriesTags:         req.Tags,
		TestSeriesIsActive:     true,
		TestSeriesStats:        model.SeriesStats{},
		TestSeriesCreatedAt:    now,
		TestSeriesUpdatedAt:    now,
	}
	if req.IsActive != nil {
		m.TestSeriesIsActive = *req.IsActive
	}
	if err := s.store.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TestSeriesService) GetSeries(ctx context.Context, id string) (*model.TestSeriesModel, error) {
	m, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, helper.NotFoundf("Test series not found: %s", id)
	}
	return m, nil
}

func (s *TestSeriesService) ListSeries(ctx context.Context, f SeriesFilter, page helper.PageParams) ([]model.TestSeriesModel, int64, error) {
	return s.store.List(ctx, f, page)
}

func (s *TestSeriesService) UpdateSeries(ctx context.Context, id string, req *dto.UpdateTestSeriesRequest) (*model.TestSeriesModel, error) {
	if req.Code != nil || req.TargetExamID != nil {
		return nil, helper.Validationf("Changing code or target_exam_id is not allowed")
	}
	m, err := s.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil && *req.Slug != m.TestSeriesSlug {
		if !helper.IsValidSlug(*req.Slug) {
			return nil, helper.Validationf("Invalid slug: %s", *req.Slug)
		}
		existing, err := s.store.FindBySlug(ctx, *req.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.TestSeriesID != m.TestSeriesID {
			return nil, helper.Conflictf("Test series slug already exists: %s", *req.Slug)
		}
		m.TestSeriesSlug = *req.Slug
	}
	if req.Name != nil {
		m.TestSeriesName = *req.Name
	}
	if req.Description != nil {
		m.TestSeriesDescription = req.Description
	}
	if req.Syllabus != nil {
		if err := s.validateSyllabus(ctx, req.Syllabus); err != nil {
			return nil, err
		}
		m.TestSeriesSyllabus = req.Syllabus
	}
	if req.Status != nil {
		if !model.ValidSeriesStatus(*req.Status) {
			return nil, helper.Validationf("Invalid status value: %s", *req.Status)
		}
		m.TestSeriesStatus = *req.Status
	}
	if req.Tags != nil {
		m.TestSeriesTags = req.Tags
	}
	if req.IsActive != nil {
		m.TestSeriesIsActive = *req.IsActive
	}

	m.TestSeriesUpdatedAt = s.now()
	if err := s.store.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateSeriesStatus moves a series through its lifecycle without touching
// the rest of the document.
func (s *TestSeriesService) UpdateSeriesStatus(ctx context.Context, id string, status model.SeriesStatus) (*model.TestSeriesModel, error) {
	if !model.ValidSeriesStatus(status) {
		return nil, helper.Validationf("Invalid status value: %s", status)
	}
	m, err := s.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	m.TestSeriesStatus = status
	m.TestSeriesUpdatedAt = s.now()
	if err := s.store.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TestSeriesService) DeleteSeries(ctx context.Context, id string) error {
	m, err := s.GetSeries(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.tests.CountTests(ctx, m.TestSeriesID)
	if err != nil {
		return err
	}
	if n > 0 {
		return helper.Conflictf("Cannot delete test series with existing tests. Delete tests first.")
	}
	return s.store.Delete(ctx, m.TestSeriesID)
}

// =======================
// Stats
// =======================

// RefreshStats recomputes the derived aggregates for one series and stores
// the snapshot with a refresh timestamp.
func (s *TestSeriesService) RefreshStats(ctx context.Context, id string) (*model.TestSeriesModel, error) {
	m, err := s.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.tests.AggregateSeries(ctx, m.TestSeriesID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	m.TestSeriesStats = stats
	m.TestSeriesStatsAt = &now
	m.TestSeriesUpdatedAt = now
	if err := s.store.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// RefreshAllStats walks every series. Used by the scheduled refresher; a
// failing series does not stop the sweep.
func (s *TestSeriesService) RefreshAllStats(ctx context.Context) (int, error) {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	refreshed := 0
	for _, id := range ids {
		if _, err := s.RefreshStats(ctx, id); err == nil {
			refreshed++
		}
	}
	return refreshed, nil
}
