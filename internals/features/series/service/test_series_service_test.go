package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"qbank_backend/internals/features/series/dto"
	"qbank_backend/internals/features/series/model"
	taxonomyModel "qbank_backend/internals/features/taxonomy/model"
	helper "qbank_backend/internals/helpers"
)

// =======================
// In-memory fakes
// =======================

type memSeriesStore struct {
	series map[string]model.TestSeriesModel
}

func newMemSeriesStore() *memSeriesStore {
	return &memSeriesStore{series: map[string]model.TestSeriesModel{}}
}

func (s *memSeriesStore) Insert(_ context.Context, m *model.TestSeriesModel) error {
	s.series[m.TestSeriesID] = *m
	return nil
}

func (s *memSeriesStore) Update(_ context.Context, m *model.TestSeriesModel) error {
	s.series[m.TestSeriesID] = *m
	return nil
}

func (s *memSeriesStore) Delete(_ context.Context, id string) error {
	delete(s.series, id)
	return nil
}

func (s *memSeriesStore) FindByID(_ context.Context, id string) (*model.TestSeriesModel, error) {
	m, ok := s.series[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *memSeriesStore) FindByCode(_ context.Context, code string) (*model.TestSeriesModel, error) {
	for id := range s.series {
		if s.series[id].TestSeriesCode == code {
			m := s.series[id]
			return &m, nil
		}
	}
	return nil, nil
}

func (s *memSeriesStore) FindBySlug(_ context.Context, slug string) (*model.TestSeriesModel, error) {
	for id := range s.series {
		if s.series[id].TestSeriesSlug == slug {
			m := s.series[id]
			return &m, nil
		}
	}
	return nil, nil
}

func (s *memSeriesStore) List(_ context.Context, f SeriesFilter, page helper.PageParams) ([]model.TestSeriesModel, int64, error) {
	var out []model.TestSeriesModel
	for id := range s.series {
		m := s.series[id]
		if f.TargetExamID != "" && m.TestSeriesTargetExamID != f.TargetExamID {
			continue
		}
		if f.Status != "" && string(m.TestSeriesStatus) != f.Status {
			continue
		}
		if f.IsActive != nil && m.TestSeriesIsActive != *f.IsActive {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestSeriesName < out[j].TestSeriesName })
	total := int64(len(out))
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, total, nil
}

func (s *memSeriesStore) ListIDs(_ context.Context) ([]string, error) {
	var ids []string
	for id := range s.series {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type memAggregator struct {
	counts map[string]int64
	stats  map[string]model.SeriesStats
}

func (a *memAggregator) CountTests(_ context.Context, seriesID string) (int64, error) {
	return a.counts[seriesID], nil
}

func (a *memAggregator) AggregateSeries(_ context.Context, seriesID string) (model.SeriesStats, error) {
	return a.stats[seriesID], nil
}

type memExamSource map[string]bool

func (s memExamSource) ExamExists(_ context.Context, idOrCode string) (bool, error) {
	return s[idOrCode], nil
}

type memSeriesTaxonomy struct {
	topics map[string]string // topic id -> owning subject id
}

func (m memSeriesTaxonomy) GetSubject(_ context.Context, id string) (*taxonomyModel.SubjectModel, error) {
	for _, subjectID := range m.topics {
		if subjectID == id {
			return &taxonomyModel.SubjectModel{SubjectID: id}, nil
		}
	}
	return nil, nil
}

func (m memSeriesTaxonomy) GetTopic(_ context.Context, id string) (*taxonomyModel.TopicModel, error) {
	subjectID, ok := m.topics[id]
	if !ok {
		return nil, nil
	}
	return &taxonomyModel.TopicModel{TopicID: id, TopicSubjectID: subjectID}, nil
}

// =======================
// Fixtures
// =======================

func strPtr(s string) *string { return &s }

func newFixture() (*TestSeriesService, *memSeriesStore, *memAggregator) {
	store := newMemSeriesStore()
	agg := &memAggregator{counts: map[string]int64{}, stats: map[string]model.SeriesStats{}}
	taxonomy := memSeriesTaxonomy{topics: map[string]string{
		"topic_kinematics": "subject_physics",
		"topic_optics":     "subject_physics",
		"topic_bonding":    "subject_chemistry",
	}}
	svc := NewTestSeriesService(store, agg, memExamSource{"exam_jee": true, "JEE-MAIN": true}, taxonomy)
	return svc, store, agg
}

func mustSeries(t *testing.T, svc *TestSeriesService, code, name string) *model.TestSeriesModel {
	t.Helper()
	m, err := svc.CreateSeries(context.Background(), &dto.CreateTestSeriesRequest{
		Code: code, Name: name, TargetExamID: "exam_jee",
	})
	require.NoError(t, err)
	return m
}

// =======================
// CRUD
// =======================

func TestCreateSeriesSlugifiesName(t *testing.T) {
	svc, _, _ := newFixture()
	m := mustSeries(t, svc, "JEE-2026", "JEE Main 2026 Full Tests")
	require.Equal(t, "jee-main-2026-full-tests", m.TestSeriesSlug)
	require.True(t, m.TestSeriesIsActive)
	require.Equal(t, "series_", m.TestSeriesID[:7])
}

func TestCreateSeriesRejectsUnknownExam(t *testing.T) {
	svc, _, _ := newFixture()
	_, err := svc.CreateSeries(context.Background(), &dto.CreateTestSeriesRequest{
		Code: "X", Name: "X Series", TargetExamID: "exam_ghost",
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrNotFound, helper.KindOf(err))
}

func TestCreateSeriesRejectsDuplicateCodeAndSlug(t *testing.T) {
	svc, _, _ := newFixture()
	mustSeries(t, svc, "JEE-2026", "JEE Main 2026")

	_, err := svc.CreateSeries(context.Background(), &dto.CreateTestSeriesRequest{
		Code: "JEE-2026", Name: "Different Name", TargetExamID: "exam_jee",
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))

	_, err = svc.CreateSeries(context.Background(), &dto.CreateTestSeriesRequest{
		Code: "JEE-2026-B", Name: "Other", Slug: "jee-main-2026", TargetExamID: "exam_jee",
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))
}

func TestCreateSeriesRejectsBadSlug(t *testing.T) {
	svc, _, _ := newFixture()
	_, err := svc.CreateSeries(context.Background(), &dto.CreateTestSeriesRequest{
		Code: "X", Name: "X Series", Slug: "Not A Slug!", TargetExamID: "exam_jee",
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

func TestUpdateSeriesRejectsCodeAndExamChanges(t *testing.T) {
	svc, _, _ := newFixture()
	m := mustSeries(t, svc, "JEE-2026", "JEE Main 2026")

	_, err := svc.UpdateSeries(context.Background(), m.TestSeriesID, &dto.UpdateTestSeriesRequest{
		Code: strPtr("JEE-2027"),
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))

	_, err = svc.UpdateSeries(context.Background(), m.TestSeriesID, &dto.UpdateTestSeriesRequest{
		TargetExamID: strPtr("exam_neet"),
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))

	updated, err := svc.UpdateSeries(context.Background(), m.TestSeriesID, &dto.UpdateTestSeriesRequest{
		Name: strPtr("JEE Main 2026 Revised"),
	})
	require.NoError(t, err)
	require.Equal(t, "JEE Main 2026 Revised", updated.TestSeriesName)
}

func TestCreateSeriesAcceptsExamCode(t *testing.T) {
	svc, _, _ := newFixture()
	m, err := svc.CreateSeries(context.Background(), &dto.CreateTestSeriesRequest{
		Code: "JEE-2026", Name: "JEE Main 2026", TargetExamID: "JEE-MAIN",
	})
	require.NoError(t, err)
	require.Equal(t, "JEE-MAIN", m.TestSeriesTargetExamID)
}

func TestCreateSeriesValidatesSyllabusCoverage(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateSeries(context.Background(), &dto.CreateTestSeriesRequest{
		Code: "JEE-2026", Name: "JEE Main 2026", TargetExamID: "exam_jee",
		Syllabus: []model.SyllabusCoverageItem{
			{SubjectID: "subject_physics", TopicIDs: []string{"topic_bonding"}},
		},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
	require.Contains(t, err.Error(), "does not belong to subject")

	_, err = svc.CreateSeries(context.Background(), &dto.CreateTestSeriesRequest{
		Code: "JEE-2026", Name: "JEE Main 2026", TargetExamID: "exam_jee",
		Syllabus: []model.SyllabusCoverageItem{
			{SubjectID: "subject_physics", TopicIDs: []string{"topic_ghost"}},
		},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))

	m, err := svc.CreateSeries(context.Background(), &dto.CreateTestSeriesRequest{
		Code: "JEE-2026", Name: "JEE Main 2026", TargetExamID: "exam_jee",
		Syllabus: []model.SyllabusCoverageItem{
			{SubjectID: "subject_physics", TopicIDs: []string{"topic_kinematics", "topic_optics"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, m.TestSeriesSyllabus, 1)
}

func TestUpdateSeriesStatusTransitions(t *testing.T) {
	svc, _, _ := newFixture()
	m := mustSeries(t, svc, "JEE-2026", "JEE Main 2026")
	require.Equal(t, model.SeriesStatusDraft, m.TestSeriesStatus)

	updated, err := svc.UpdateSeriesStatus(context.Background(), m.TestSeriesID, model.SeriesStatusPublished)
	require.NoError(t, err)
	require.Equal(t, model.SeriesStatusPublished, updated.TestSeriesStatus)

	updated, err = svc.UpdateSeriesStatus(context.Background(), m.TestSeriesID, model.SeriesStatusArchived)
	require.NoError(t, err)
	require.Equal(t, model.SeriesStatusArchived, updated.TestSeriesStatus)

	_, err = svc.UpdateSeriesStatus(context.Background(), m.TestSeriesID, model.SeriesStatus("retired"))
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))

	_, err = svc.UpdateSeriesStatus(context.Background(), "series_ghost", model.SeriesStatusDraft)
	require.Error(t, err)
	require.Equal(t, helper.ErrNotFound, helper.KindOf(err))
}

func TestListSeriesFiltersByStatus(t *testing.T) {
	svc, _, _ := newFixture()
	a := mustSeries(t, svc, "JEE-A", "Series A")
	mustSeries(t, svc, "JEE-B", "Series B")
	_, err := svc.UpdateSeriesStatus(context.Background(), a.TestSeriesID, model.SeriesStatusPublished)
	require.NoError(t, err)

	out, total, err := svc.ListSeries(context.Background(),
		SeriesFilter{Status: string(model.SeriesStatusPublished)}, helper.PageParams{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, a.TestSeriesID, out[0].TestSeriesID)
}

func TestDeleteSeriesBlockedByTests(t *testing.T) {
	svc, store, agg := newFixture()
	m := mustSeries(t, svc, "JEE-2026", "JEE Main 2026")

	agg.counts[m.TestSeriesID] = 3
	err := svc.DeleteSeries(context.Background(), m.TestSeriesID)
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))

	agg.counts[m.TestSeriesID] = 0
	require.NoError(t, svc.DeleteSeries(context.Background(), m.TestSeriesID))
	_, ok := store.series[m.TestSeriesID]
	require.False(t, ok)
}

// =======================
// Stats
// =======================

func TestRefreshStatsSnapshotsAggregates(t *testing.T) {
	svc, _, agg := newFixture()
	m := mustSeries(t, svc, "JEE-2026", "JEE Main 2026")

	agg.stats[m.TestSeriesID] = model.SeriesStats{
		TotalTests: 4, TotalQuestions: 360, AvgDifficulty: 3.2, TotalDurationMins: 720,
	}

	refreshed, err := svc.RefreshStats(context.Background(), m.TestSeriesID)
	require.NoError(t, err)
	require.Equal(t, 4, refreshed.TestSeriesStats.TotalTests)
	require.Equal(t, 360, refreshed.TestSeriesStats.TotalQuestions)
	require.Equal(t, 720, refreshed.TestSeriesStats.TotalDurationMins)
	require.NotNil(t, refreshed.TestSeriesStatsAt)
}

func TestRefreshAllStatsSweeps(t *testing.T) {
	svc, _, _ := newFixture()
	mustSeries(t, svc, "JEE-A", "Series A")
	mustSeries(t, svc, "JEE-B", "Series B")

	n, err := svc.RefreshAllStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
