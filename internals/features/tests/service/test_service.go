package service

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	qmodel "qbank_backend/internals/features/questions/model"
	"qbank_backend/internals/features/tests/dto"
	"qbank_backend/internals/features/tests/model"
	helper "qbank_backend/internals/helpers"
)

// =======================
// Store contracts
// =======================

type TestFilter struct {
	SeriesID string
	Status   string
}

// Store is the persistence contract for test aggregates. Lookups return
// (nil, nil) when the aggregate does not exist.
type Store interface {
	Insert(ctx context.Context, t *model.TestModel) error
	Update(ctx context.Context, t *model.TestModel) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.TestModel, error)
	FindByCode(ctx context.Context, code string) (*model.TestModel, error)
	FindBySlug(ctx context.Context, slug string) (*model.TestModel, error)
	FindBySeriesAndNumber(ctx context.Context, seriesID string, number int) (*model.TestModel, error)
	List(ctx context.Context, f TestFilter, skip, limit int) ([]model.TestModel, int64, error)
	CountBySeries(ctx context.Context, seriesID string) (int64, error)
}

type CandidateCriteria struct {
	SubjectID    string
	TopicIDs     []string
	Difficulties []int
	Types        []string
}

type CandidateOrder string

const (
	OrderByDifficulty CandidateOrder = "difficulty"
	OrderByID         CandidateOrder = "id"
)

// QuestionSource resolves question documents for composition. Only active,
// published questions qualify as bulk-add candidates.
type QuestionSource interface {
	FindByIDs(ctx context.Context, ids []string) ([]qmodel.QuestionModel, error)
	FindCandidates(ctx context.Context, c CandidateCriteria, order CandidateOrder, limit int) ([]qmodel.QuestionModel, error)
	SampleCandidates(ctx context.Context, c CandidateCriteria, limit int, seedPoint float64) ([]qmodel.QuestionModel, error)
}

type SubjectSource interface {
	SubjectExists(ctx context.Context, id string) (bool, error)
}

type SeriesSource interface {
	SeriesExists(ctx context.Context, id string) (bool, error)
}

type TestService struct {
	store     Store
	questions QuestionSource
	subjects  SubjectSource
	series    SeriesSource
	now       func() time.Time
	randF     func() float64
}

func NewTestService(store Store, questions QuestionSource, subjects SubjectSource, series SeriesSource) *TestService {
	return &TestService{
		store:     store,
		questions: questions,
		subjects:  subjects,
		series:    series,
		now:       time.Now,
		randF:     rand.Float64,
	}
}

// =======================
// Invariant checks
// =======================

func (s *TestService) validatePattern(ctx context.Context, p *model.TestPattern) error {
	if len(p.Sections) == 0 {
		return helper.Validationf("Pattern requires at least one section")
	}
	seen := make(map[string]struct{}, len(p.Sections))
	capSum := 0
	for i := range p.Sections {
		sec := &p.Sections[i]
		if sec.SectionID == "" {
			return helper.Validationf("Sections require a section_id")
		}
		if _, dup := seen[sec.SectionID]; dup {
			return helper.Validationf("Duplicate section id: %s", sec.SectionID)
		}
		seen[sec.SectionID] = struct{}{}
		if sec.TotalQuestions < 1 {
			return helper.Validationf("Section %s requires a positive total_questions", sec.SectionID)
		}
		ok, err := s.subjects.SubjectExists(ctx, sec.SubjectID)
		if err != nil {
			return err
		}
		if !ok {
			return helper.NotFoundf("Subject not found: %s", sec.SubjectID)
		}
		capSum += sec.TotalQuestions
	}
	if capSum != p.TotalQuestions {
		return helper.Validationf("Section capacities sum to %d but pattern declares %d total questions", capSum, p.TotalQuestions)
	}
	return nil
}

// validateQuestionSet runs the whole-test structural checks: unique question
// ids, known sections, per-section and total capacity, subject agreement,
// and a contiguous 1..N sequence permutation.
func validateQuestionSet(t *model.TestModel) error {
	seenQ := make(map[string]struct{}, len(t.TestQuestions))
	sectionCounts := make(map[string]int)
	seqs := make(map[int]struct{}, len(t.TestQuestions))

	for i := range t.TestQuestions {
		ref := &t.TestQuestions[i]
		if _, dup := seenQ[ref.QuestionID]; dup {
			return helper.Validationf("Duplicate question in test: %s", ref.QuestionID)
		}
		seenQ[ref.QuestionID] = struct{}{}

		section := t.SectionByID(ref.SectionID)
		if section == nil {
			return helper.Validationf("Question %s references unknown section: %s", ref.QuestionID, ref.SectionID)
		}
		if ref.SubjectID == nil || *ref.SubjectID != section.SubjectID {
			return helper.Validationf("Question %s subject does not match section %s subject", ref.QuestionID, section.SectionID)
		}
		sectionCounts[ref.SectionID]++

		if ref.Seq < 1 {
			return helper.Validationf("Sequence numbers must be >= 1")
		}
		if _, dup := seqs[ref.Seq]; dup {
			return helper.Validationf("Duplicate sequence number: %d", ref.Seq)
		}
		seqs[ref.Seq] = struct{}{}
	}

	for i := range t.TestPattern.Sections {
		sec := &t.TestPattern.Sections[i]
		if n := sectionCounts[sec.SectionID]; n > sec.TotalQuestions {
			return helper.Validationf("Section %s exceeds total_questions (%d > %d)", sec.SectionID, n, sec.TotalQuestions)
		}
	}
	if len(t.TestQuestions) > t.TestPattern.TotalQuestions {
		return helper.Validationf("Test exceeds total_questions (%d > %d)", len(t.TestQuestions), t.TestPattern.TotalQuestions)
	}
	for i := 1; i <= len(t.TestQuestions); i++ {
		if _, ok := seqs[i]; !ok {
			return helper.Validationf("Question sequence numbers must be contiguous 1..%d", len(t.TestQuestions))
		}
	}
	return nil
}

func sortRefs(t *model.TestModel) {
	sort.SliceStable(t.TestQuestions, func(i, j int) bool {
		return t.TestQuestions[i].Seq < t.TestQuestions[j].Seq
	})
}

// buildReference denormalizes a question document into a test reference,
// resolving marks from the section's marking scheme unless overridden.
func buildReference(q *qmodel.QuestionModel, section *model.TestSection, seq int, marks, negativeMarks *float64, isBonus, isOptional bool) (model.QuestionReference, error) {
	if q.QuestionSubjectID == nil || *q.QuestionSubjectID != section.SubjectID {
		return model.QuestionReference{}, helper.Validationf(
			"Question %s subject does not match section %s subject", q.QuestionID, section.SectionID)
	}
	scheme, hasScheme := section.MarkingScheme[string(q.QuestionType)]
	if (marks == nil || negativeMarks == nil) && !hasScheme {
		return model.QuestionReference{}, helper.Validationf(
			"Section %s has no marking scheme for type %s", section.SectionID, q.QuestionType)
	}
	ref := model.QuestionReference{
		Seq:           seq,
		SectionID:     section.SectionID,
		QuestionID:    q.QuestionID,
		QuestionType:  string(q.QuestionType),
		SubjectID:     q.QuestionSubjectID,
		TopicIDs:      q.QuestionTopicIDs,
		Difficulty:    q.QuestionDifficulty,
		Marks:         scheme.Correct,
		NegativeMarks: scheme.Incorrect,
		IsBonus:       isBonus,
		IsOptional:    isOptional,
	}
	if marks != nil {
		ref.Marks = *marks
	}
	if negativeMarks != nil {
		ref.NegativeMarks = *negativeMarks
	}
	return ref, nil
}

// =======================
// CRUD
// =======================

func (s *TestService) CreateTest(ctx context.Context, req *dto.CreateTestRequest) (*model.TestModel, error) {
	if err := s.validatePattern(ctx, &req.Pattern); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, helper.Conflictf("Test code already exists: %s", req.Code)
	}

	slug := req.Slug
	if slug == "" {
		slug = helper.Slugify(req.Title)
	}
	if !helper.IsValidSlug(slug) {
		return nil, helper.Validationf("Invalid slug: %s", slug)
	}
	if taken, err := s.store.FindBySlug(ctx, slug); err != nil {
		return nil, err
	} else if taken != nil {
		return nil, helper.Conflictf("Test slug already exists: %s", slug)
	}

	seriesID := ""
	testNumber := 1
	if req.SeriesID == nil || *req.SeriesID == "" {
		seriesID = model.StandaloneSeriesPrefix + uuid.NewString()
	} else {
		seriesID = *req.SeriesID
		if req.TestNumber == nil {
			return nil, helper.Validationf("test_number is required with an explicit series_id")
		}
		testNumber = *req.TestNumber
		if !strings.HasPrefix(seriesID, model.StandaloneSeriesPrefix) {
			ok, err := s.series.SeriesExists(ctx, seriesID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, helper.NotFoundf("Test series not found: %s", seriesID)
			}
		}
		taken, err := s.store.FindBySeriesAndNumber(ctx, seriesID, testNumber)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, helper.Conflictf("Test number %d already exists in series %s", testNumber, seriesID)
		}
	}

	now := s.now()
	t := &model.TestModel{
		TestID:          "test_" + uuid.NewString(),
		TestCode:        req.Code,
		TestSlug:        slug,
		TestTitle:       req.Title,
		TestDescription: req.Description,
		TestSeriesID:    seriesID,
		TestNumber:      testNumber,
		TestStatus:      model.TestStatusDraft,
		TestPattern:     req.Pattern,
		TestQuestions:   req.Questions,
		TestSolutions:   model.SolutionsConfig{ReleaseMode: model.ReleaseModeNever},
		TestCreatedAt:   now,
		TestUpdatedAt:   now,
	}
	if t.TestQuestions == nil {
		t.TestQuestions = []model.QuestionReference{}
	}
	if req.Settings != nil {
		t.TestSettings = *req.Settings
	}
	if req.Solutions != nil {
		t.TestSolutions = *req.Solutions
	}
	if req.Availability != nil {
		t.TestAvailability = *req.Availability
	}

	sortRefs(t)
	if err := validateQuestionSet(t); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TestService) GetTest(ctx context.Context, id string) (*model.TestModel, error) {
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, helper.NotFoundf("Test not found: %s", id)
	}
	return t, nil
}

func (s *TestService) ListTests(ctx context.Context, f TestFilter, skip, limit int) ([]model.TestModel, int64, error) {
	return s.store.List(ctx, f, skip, limit)
}

func (s *TestService) UpdateTest(ctx context.Context, id string, req *dto.UpdateTestRequest) (*model.TestModel, error) {
	if req.TestID != nil || req.SeriesID != nil || req.TestNumber != nil || req.Slug != nil {
		return nil, helper.Validationf("Changing test_id, series_id, test_number, or slug is not allowed")
	}
	t, err := s.GetTest(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil && *req.Code != t.TestCode {
		existing, err := s.store.FindByCode(ctx, *req.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.TestID != t.TestID {
			return nil, helper.Conflictf("Test code already exists: %s", *req.Code)
		}
		t.TestCode = *req.Code
	}
	if req.Title != nil {
		t.TestTitle = *req.Title
	}
	if req.Description != nil {
		t.TestDescription = req.Description
	}
	if req.Status != nil {
		t.TestStatus = *req.Status
	}
	if req.Pattern != nil {
		if err := s.validatePattern(ctx, req.Pattern); err != nil {
			return nil, err
		}
		t.TestPattern = *req.Pattern
	}
	if req.Settings != nil {
		t.TestSettings = *req.Settings
	}
	if req.Solutions != nil {
		t.TestSolutions = *req.Solutions
	}
	if req.Availability != nil {
		t.TestAvailability = *req.Availability
	}

	// a replaced pattern may orphan existing references; the full set check
	// catches that along with capacity and sequencing
	if err := validateQuestionSet(t); err != nil {
		return nil, err
	}
	t.TestUpdatedAt = s.now()
	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TestService) DeleteTest(ctx context.Context, id string) error {
	t, err := s.GetTest(ctx, id)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, t.TestID)
}
