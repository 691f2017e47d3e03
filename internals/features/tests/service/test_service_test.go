package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	qmodel "qbank_backend/internals/features/questions/model"
	"qbank_backend/internals/features/tests/dto"
	"qbank_backend/internals/features/tests/model"
	helper "qbank_backend/internals/helpers"
)

// =======================
// In-memory fakes
// =======================

type memTestStore struct {
	tests map[string]model.TestModel
}

func newMemTestStore() *memTestStore {
	return &memTestStore{tests: map[string]model.TestModel{}}
}

func (s *memTestStore) Insert(_ context.Context, t *model.TestModel) error {
	s.tests[t.TestID] = *t
	return nil
}

func (s *memTestStore) Update(_ context.Context, t *model.TestModel) error {
	s.tests[t.TestID] = *t
	return nil
}

func (s *memTestStore) Delete(_ context.Context, id string) error {
	delete(s.tests, id)
	return nil
}

func (s *memTestStore) FindByID(_ context.Context, id string) (*model.TestModel, error) {
	t, ok := s.tests[id]
	if !ok {
		return nil, nil
	}
	cp := t
	cp.TestQuestions = append([]model.QuestionReference(nil), t.TestQuestions...)
	return &cp, nil
}

func (s *memTestStore) FindByCode(_ context.Context, code string) (*model.TestModel, error) {
	for id := range s.tests {
		if s.tests[id].TestCode == code {
			return s.FindByID(context.Background(), id)
		}
	}
	return nil, nil
}

func (s *memTestStore) FindBySlug(_ context.Context, slug string) (*model.TestModel, error) {
	for id := range s.tests {
		if s.tests[id].TestSlug == slug {
			return s.FindByID(context.Background(), id)
		}
	}
	return nil, nil
}

func (s *memTestStore) FindBySeriesAndNumber(_ context.Context, seriesID string, number int) (*model.TestModel, error) {
	for id := range s.tests {
		if s.tests[id].TestSeriesID == seriesID && s.tests[id].TestNumber == number {
			return s.FindByID(context.Background(), id)
		}
	}
	return nil, nil
}

func (s *memTestStore) List(_ context.Context, f TestFilter, skip, limit int) ([]model.TestModel, int64, error) {
	var out []model.TestModel
	for id := range s.tests {
		t := s.tests[id]
		if f.SeriesID != "" && t.TestSeriesID != f.SeriesID {
			continue
		}
		if f.Status != "" && string(t.TestStatus) != f.Status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestID < out[j].TestID })
	total := int64(len(out))
	if skip < len(out) {
		out = out[skip:]
	} else {
		out = nil
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (s *memTestStore) CountBySeries(_ context.Context, seriesID string) (int64, error) {
	var n int64
	for id := range s.tests {
		if s.tests[id].TestSeriesID == seriesID {
			n++
		}
	}
	return n, nil
}

type memQuestionSource struct {
	docs map[string]qmodel.QuestionModel
}

func newMemQuestionSource(docs ...qmodel.QuestionModel) *memQuestionSource {
	src := &memQuestionSource{docs: map[string]qmodel.QuestionModel{}}
	for _, d := range docs {
		src.docs[d.QuestionID] = d
	}
	return src
}

func (s *memQuestionSource) FindByIDs(_ context.Context, ids []string) ([]qmodel.QuestionModel, error) {
	var out []qmodel.QuestionModel
	for _, id := range ids {
		if d, ok := s.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memQuestionSource) matches(d qmodel.QuestionModel, c CandidateCriteria) bool {
	if d.QuestionStatus != qmodel.UsageStatusPublished || !d.QuestionIsActive {
		return false
	}
	if d.QuestionSubjectID == nil || *d.QuestionSubjectID != c.SubjectID {
		return false
	}
	if len(c.Difficulties) > 0 {
		ok := false
		for _, df := range c.Difficulties {
			if d.QuestionDifficulty == df {
				ok = true
			}
		}
		if !ok {
			return false
		}
	}
	if len(c.Types) > 0 {
		ok := false
		for _, t := range c.Types {
			if string(d.QuestionType) == t {
				ok = true
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func (s *memQuestionSource) FindCandidates(_ context.Context, c CandidateCriteria, order CandidateOrder, limit int) ([]qmodel.QuestionModel, error) {
	var out []qmodel.QuestionModel
	for id := range s.docs {
		if s.matches(s.docs[id], c) {
			out = append(out, s.docs[id])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if order == OrderByDifficulty && out[i].QuestionDifficulty != out[j].QuestionDifficulty {
			return out[i].QuestionDifficulty < out[j].QuestionDifficulty
		}
		return out[i].QuestionID < out[j].QuestionID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memQuestionSource) SampleCandidates(ctx context.Context, c CandidateCriteria, limit int, _ float64) ([]qmodel.QuestionModel, error) {
	return s.FindCandidates(ctx, c, OrderByID, limit)
}

type memSubjectSource map[string]bool

func (s memSubjectSource) SubjectExists(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

type memSeriesSource map[string]bool

func (s memSeriesSource) SeriesExists(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

// =======================
// Fixtures
// =======================

func strPtr(s string) *string { return &s }

func physicsQuestion(id string, difficulty int) qmodel.QuestionModel {
	return qmodel.QuestionModel{
		QuestionID:   id,
		QuestionText: "What is the unit of force?",
		QuestionType: qmodel.QuestionTypeSingleChoice,
		QuestionOptions: []qmodel.Option{
			{ID: "a", Text: "Newton"},
			{ID: "b", Text: "Joule"},
		},
		QuestionAnswerKey:  &qmodel.AnswerKey{Type: qmodel.AnswerKeySingle, OptionID: "a"},
		QuestionDifficulty: difficulty,
		QuestionSubjectID:  strPtr("subject_physics"),
		QuestionTopicIDs:   []string{"topic_mechanics"},
		QuestionStatus:     qmodel.UsageStatusPublished,
		QuestionIsActive:   true,
	}
}

func singleSectionPattern(capacity int) model.TestPattern {
	return model.TestPattern{
		TotalQuestions: capacity,
		Sections: []model.TestSection{
			{
				SectionID:      "sec_phy",
				Name:           "Physics",
				SubjectID:      "subject_physics",
				TotalQuestions: capacity,
				MarkingScheme: map[string]model.MarkingScheme{
					"single_choice": {Correct: 4, Incorrect: -1},
				},
			},
		},
	}
}

func newFixture(t *testing.T, capacity int, docs ...qmodel.QuestionModel) (*TestService, *memTestStore, string) {
	t.Helper()
	store := newMemTestStore()
	svc := NewTestService(store, newMemQuestionSource(docs...),
		memSubjectSource{"subject_physics": true, "subject_chemistry": true},
		memSeriesSource{"series_main": true})

	created, err := svc.CreateTest(context.Background(), &dto.CreateTestRequest{
		Code:    "PHY-001",
		Title:   "Physics Mock 1",
		Pattern: singleSectionPattern(capacity),
	})
	require.NoError(t, err)
	return svc, store, created.TestID
}

// =======================
// Create
// =======================

func TestCreateTestRejectsCapacityMismatch(t *testing.T) {
	store := newMemTestStore()
	svc := NewTestService(store, newMemQuestionSource(),
		memSubjectSource{"subject_physics": true}, memSeriesSource{})

	pattern := singleSectionPattern(3)
	pattern.TotalQuestions = 5

	_, err := svc.CreateTest(context.Background(), &dto.CreateTestRequest{
		Code:    "PHY-BAD",
		Title:   "Broken",
		Pattern: pattern,
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

func TestCreateTestAssignsStandaloneSeries(t *testing.T) {
	_, store, id := newFixture(t, 2)
	stored := store.tests[id]
	require.True(t, len(stored.TestSeriesID) > len(model.StandaloneSeriesPrefix))
	require.Equal(t, model.StandaloneSeriesPrefix, stored.TestSeriesID[:len(model.StandaloneSeriesPrefix)])
	require.Equal(t, 1, stored.TestNumber)
}

func TestCreateTestRejectsUnknownSeries(t *testing.T) {
	store := newMemTestStore()
	svc := NewTestService(store, newMemQuestionSource(),
		memSubjectSource{"subject_physics": true}, memSeriesSource{})

	num := 1
	_, err := svc.CreateTest(context.Background(), &dto.CreateTestRequest{
		Code:       "PHY-002",
		Title:      "Physics Mock 2",
		SeriesID:   strPtr("series_ghost"),
		TestNumber: &num,
		Pattern:    singleSectionPattern(2),
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrNotFound, helper.KindOf(err))
}

func TestCreateTestRejectsDuplicateCode(t *testing.T) {
	svc, _, _ := newFixture(t, 2)
	_, err := svc.CreateTest(context.Background(), &dto.CreateTestRequest{
		Code:    "PHY-001",
		Title:   "Copycat",
		Pattern: singleSectionPattern(2),
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))
}

func TestCreateTestDerivesSlugFromTitle(t *testing.T) {
	svc, _, id := newFixture(t, 2)
	created, err := svc.GetTest(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "physics-mock-1", created.TestSlug)
}

func TestCreateTestRejectsDuplicateSlug(t *testing.T) {
	svc, _, _ := newFixture(t, 2)
	_, err := svc.CreateTest(context.Background(), &dto.CreateTestRequest{
		Code:    "PHY-002",
		Title:   "Physics Mock 1",
		Pattern: singleSectionPattern(2),
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))

	explicit, err := svc.CreateTest(context.Background(), &dto.CreateTestRequest{
		Code:    "PHY-002",
		Slug:    "physics-mock-1-retake",
		Title:   "Physics Mock 1",
		Pattern: singleSectionPattern(2),
	})
	require.NoError(t, err)
	require.Equal(t, "physics-mock-1-retake", explicit.TestSlug)
}

func TestCreateTestRejectsInvalidSlug(t *testing.T) {
	svc, _, _ := newFixture(t, 2)
	_, err := svc.CreateTest(context.Background(), &dto.CreateTestRequest{
		Code:    "PHY-002",
		Slug:    "Not A Slug!",
		Title:   "Physics Mock 2",
		Pattern: singleSectionPattern(2),
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

// =======================
// Add questions
// =======================

func TestAddQuestionsUsesMarkingSchemeDefaults(t *testing.T) {
	svc, _, id := newFixture(t, 2, physicsQuestion("q1", 2), physicsQuestion("q2", 3))

	refs, err := svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q1", "q2"},
	})
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, 1, refs[0].Seq)
	require.Equal(t, 2, refs[1].Seq)
	for _, ref := range refs {
		require.Equal(t, 4.0, ref.Marks)
		require.Equal(t, -1.0, ref.NegativeMarks)
	}
}

func TestAddQuestionsRejectsSectionOverflow(t *testing.T) {
	svc, _, id := newFixture(t, 2,
		physicsQuestion("q1", 2), physicsQuestion("q2", 3), physicsQuestion("q3", 4))

	_, err := svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q1", "q2"},
	})
	require.NoError(t, err)

	_, err = svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q3"},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
	require.Contains(t, err.Error(), "exceeds total_questions")
}

func TestAddQuestionsRejectsSubjectMismatchAndLeavesTestUnchanged(t *testing.T) {
	chem := physicsQuestion("q_chem", 2)
	chem.QuestionSubjectID = strPtr("subject_chemistry")
	svc, store, id := newFixture(t, 2, chem)

	_, err := svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q_chem"},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
	require.Empty(t, store.tests[id].TestQuestions)
}

func TestAddQuestionsReportsAllMissingIDs(t *testing.T) {
	svc, _, id := newFixture(t, 2, physicsQuestion("q1", 2))

	_, err := svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q_ghost1", "q_ghost2"},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrNotFound, helper.KindOf(err))
	require.Contains(t, err.Error(), "q_ghost1")
	require.Contains(t, err.Error(), "q_ghost2")
}

func TestAddQuestionsRejectsAlreadyPresent(t *testing.T) {
	svc, _, id := newFixture(t, 2, physicsQuestion("q1", 2))

	_, err := svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q1"},
	})
	require.NoError(t, err)

	_, err = svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q1"},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))
}

// =======================
// Bulk add
// =======================

func TestBulkAddDifficultySorted(t *testing.T) {
	svc, _, id := newFixture(t, 3,
		physicsQuestion("q1", 3), physicsQuestion("q2", 1), physicsQuestion("q3", 4),
		physicsQuestion("q4", 1), physicsQuestion("q5", 5))

	refs, err := svc.BulkAddQuestions(context.Background(), id, &dto.BulkAddQuestionsRequest{
		SectionID: "sec_phy",
		Criteria:  dto.BulkAddCriteria{SubjectID: "subject_physics"},
		Count:     3,
		Strategy:  "difficulty_sorted",
	})
	require.NoError(t, err)
	require.Len(t, refs, 3)
	got := []int{refs[0].Difficulty, refs[1].Difficulty, refs[2].Difficulty}
	require.Equal(t, []int{1, 1, 3}, got)
}

func TestBulkAddFailsWhenTooFewMatch(t *testing.T) {
	svc, _, id := newFixture(t, 3, physicsQuestion("q1", 3))

	_, err := svc.BulkAddQuestions(context.Background(), id, &dto.BulkAddQuestionsRequest{
		SectionID: "sec_phy",
		Criteria:  dto.BulkAddCriteria{SubjectID: "subject_physics"},
		Count:     3,
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

func TestBulkAddRejectsCriteriaSubjectMismatch(t *testing.T) {
	svc, _, id := newFixture(t, 3)

	_, err := svc.BulkAddQuestions(context.Background(), id, &dto.BulkAddQuestionsRequest{
		SectionID: "sec_phy",
		Criteria:  dto.BulkAddCriteria{SubjectID: "subject_chemistry"},
		Count:     1,
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

// =======================
// Remove / reorder / replace
// =======================

func seededTest(t *testing.T, n int) (*TestService, *memTestStore, string, []string) {
	t.Helper()
	docs := make([]qmodel.QuestionModel, 0, n)
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := string(rune('a'+i)) + "_q"
		docs = append(docs, physicsQuestion(id, (i%5)+1))
		ids = append(ids, id)
	}
	svc, store, testID := newFixture(t, n, docs...)
	_, err := svc.AddQuestionsToTest(context.Background(), testID, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: ids,
	})
	require.NoError(t, err)
	return svc, store, testID, ids
}

func TestRemoveQuestionResequences(t *testing.T) {
	svc, _, id, ids := seededTest(t, 4)

	updated, err := svc.RemoveQuestion(context.Background(), id, ids[1])
	require.NoError(t, err)
	require.Len(t, updated.TestQuestions, 3)

	wantOrder := []string{ids[0], ids[2], ids[3]}
	for i, ref := range updated.TestQuestions {
		require.Equal(t, i+1, ref.Seq)
		require.Equal(t, wantOrder[i], ref.QuestionID)
	}
}

func TestReorderRejectsGaps(t *testing.T) {
	svc, _, id, ids := seededTest(t, 3)

	_, err := svc.ReorderQuestions(context.Background(), id, &dto.ReorderQuestionsRequest{
		SectionID: "sec_phy",
		Items: []dto.ReorderItem{
			{QuestionID: ids[0], Seq: 5},
		},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

func TestReorderAppliesPermutation(t *testing.T) {
	svc, _, id, ids := seededTest(t, 3)

	updated, err := svc.ReorderQuestions(context.Background(), id, &dto.ReorderQuestionsRequest{
		SectionID: "sec_phy",
		Items: []dto.ReorderItem{
			{QuestionID: ids[0], Seq: 3},
			{QuestionID: ids[2], Seq: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, ids[2], updated.TestQuestions[0].QuestionID)
	require.Equal(t, ids[1], updated.TestQuestions[1].QuestionID)
	require.Equal(t, ids[0], updated.TestQuestions[2].QuestionID)
}

func TestReplaceQuestionCarriesMarksAndSeq(t *testing.T) {
	docs := []qmodel.QuestionModel{
		physicsQuestion("q1", 2), physicsQuestion("q2", 3), physicsQuestion("q_new", 4),
	}
	svc, _, id := newFixture(t, 2, docs...)
	_, err := svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q1", "q2"},
	})
	require.NoError(t, err)

	custom := 6.0
	_, err = svc.UpdateQuestionMarks(context.Background(), id, "q1", &dto.UpdateQuestionMarksRequest{Marks: &custom})
	require.NoError(t, err)

	ref, err := svc.ReplaceQuestion(context.Background(), id, &dto.ReplaceQuestionRequest{
		OldQuestionID:    "q1",
		NewQuestionID:    "q_new",
		PreserveSequence: true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, ref.Seq)
	require.Equal(t, 6.0, ref.Marks)
	require.Equal(t, "q_new", ref.QuestionID)
}

func TestReplaceQuestionWithoutPreserveRejectsMiddleSlot(t *testing.T) {
	docs := []qmodel.QuestionModel{
		physicsQuestion("q1", 2), physicsQuestion("q2", 3),
		physicsQuestion("q3", 4), physicsQuestion("q_new", 1),
	}
	svc, _, id := newFixture(t, 3, docs...)
	_, err := svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q1", "q2", "q3"},
	})
	require.NoError(t, err)

	// replacing a middle question appends the new one at the end, which
	// leaves a hole at the old slot
	_, err = svc.ReplaceQuestion(context.Background(), id, &dto.ReplaceQuestionRequest{
		OldQuestionID: "q2",
		NewQuestionID: "q_new",
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
	require.Contains(t, err.Error(), "contiguous")

	stored, err := svc.GetTest(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored.ReferenceByQuestionID("q2"))
	require.Nil(t, stored.ReferenceByQuestionID("q_new"))
}

func TestReplaceQuestionWithoutPreserveAcceptsLastSlot(t *testing.T) {
	docs := []qmodel.QuestionModel{
		physicsQuestion("q1", 2), physicsQuestion("q2", 3), physicsQuestion("q_new", 1),
	}
	svc, _, id := newFixture(t, 2, docs...)
	_, err := svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q1", "q2"},
	})
	require.NoError(t, err)

	ref, err := svc.ReplaceQuestion(context.Background(), id, &dto.ReplaceQuestionRequest{
		OldQuestionID: "q2",
		NewQuestionID: "q_new",
	})
	require.NoError(t, err)
	require.Equal(t, 2, ref.Seq)
}

// =======================
// Update test
// =======================

func TestUpdateTestRejectsSeriesChange(t *testing.T) {
	svc, _, id := newFixture(t, 2)
	_, err := svc.UpdateTest(context.Background(), id, &dto.UpdateTestRequest{
		SeriesID: strPtr("series_other"),
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

func TestUpdateTestRejectsSlugChange(t *testing.T) {
	svc, _, id := newFixture(t, 2)
	_, err := svc.UpdateTest(context.Background(), id, &dto.UpdateTestRequest{
		Slug: strPtr("another-slug"),
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

func TestUpdateTestRejectsPatternOrphaningReferences(t *testing.T) {
	svc, _, id, _ := seededTest(t, 2)

	newPattern := model.TestPattern{
		TotalQuestions: 2,
		Sections: []model.TestSection{
			{
				SectionID:      "sec_renamed",
				Name:           "Physics",
				SubjectID:      "subject_physics",
				TotalQuestions: 2,
				MarkingScheme: map[string]model.MarkingScheme{
					"single_choice": {Correct: 4, Incorrect: -1},
				},
			},
		},
	}
	_, err := svc.UpdateTest(context.Background(), id, &dto.UpdateTestRequest{Pattern: &newPattern})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

// =======================
// Reports and release gate
// =======================

func TestValidateTestDetectsDriftAndCountMismatch(t *testing.T) {
	docs := []qmodel.QuestionModel{physicsQuestion("q1", 2)}
	svc, store, id := newFixture(t, 2, docs...)
	_, err := svc.AddQuestionsToTest(context.Background(), id, &dto.AddQuestionsRequest{
		SectionID:   "sec_phy",
		QuestionIDs: []string{"q1"},
	})
	require.NoError(t, err)

	// simulate an edit that moved the question to another subject
	stored := store.tests[id]
	qsrc := svc.questions.(*memQuestionSource)
	doc := qsrc.docs["q1"]
	doc.QuestionSubjectID = strPtr("subject_chemistry")
	qsrc.docs["q1"] = doc
	store.tests[id] = stored

	result, err := svc.ValidateTest(context.Background(), id)
	require.NoError(t, err)
	require.False(t, result.IsValid)

	foundDrift := false
	foundCount := false
	for _, issue := range result.Issues {
		if issue == "Question q1 subject changed since it was added (was subject_physics, now subject_chemistry)" {
			foundDrift = true
		}
		if issue == "Question count 1 does not match pattern total 2" {
			foundCount = true
		}
	}
	require.True(t, foundDrift)
	require.True(t, foundCount)
}

func TestTestStatsAggregates(t *testing.T) {
	svc, _, id, _ := seededTest(t, 3)

	stats, err := svc.TestStats(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalQuestions)
	require.Equal(t, 3, stats.TypeHistogram["single_choice"])
	require.Equal(t, 3, stats.TopicCoverage["topic_mechanics"])
	require.Len(t, stats.Sections, 1)
	require.Equal(t, 3, stats.Sections[0].Count)
}

func TestSolutionsReleaseGate(t *testing.T) {
	svc, store, id, _ := seededTest(t, 2)

	cases := []struct {
		name    string
		cfg     model.SolutionsConfig
		allowed bool
	}{
		{"disabled", model.SolutionsConfig{HasSolutions: false, ReleaseMode: model.ReleaseModeAfterSubmission}, false},
		{"never", model.SolutionsConfig{HasSolutions: true, ReleaseMode: model.ReleaseModeNever}, false},
		{"after_submission", model.SolutionsConfig{HasSolutions: true, ReleaseMode: model.ReleaseModeAfterSubmission}, true},
		{"manual", model.SolutionsConfig{HasSolutions: true, ReleaseMode: model.ReleaseModeManual}, false},
		{"scheduled_unset", model.SolutionsConfig{HasSolutions: true, ReleaseMode: model.ReleaseModeScheduled}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stored := store.tests[id]
			stored.TestSolutions = tc.cfg
			store.tests[id] = stored

			_, err := svc.GetAnswerKey(context.Background(), id)
			if tc.allowed {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.Equal(t, helper.ErrAuthorization, helper.KindOf(err))
			}
		})
	}
}

func TestSolutionsScheduledRelease(t *testing.T) {
	svc, store, id, _ := seededTest(t, 2)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	stored := store.tests[id]
	stored.TestSolutions = model.SolutionsConfig{
		HasSolutions: true, ReleaseMode: model.ReleaseModeScheduled, ReleaseAt: &future,
	}
	store.tests[id] = stored
	_, err := svc.GetTestWithSolutions(context.Background(), id)
	require.Error(t, err)
	require.Equal(t, helper.ErrAuthorization, helper.KindOf(err))

	stored.TestSolutions.ReleaseAt = &past
	store.tests[id] = stored
	out, err := svc.GetTestWithSolutions(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)
	require.NotNil(t, out.Entries[0].Question.AnswerKey)
}
