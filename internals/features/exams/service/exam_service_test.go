package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"qbank_backend/internals/features/exams/dto"
	"qbank_backend/internals/features/exams/model"
	taxonomyModel "qbank_backend/internals/features/taxonomy/model"
	helper "qbank_backend/internals/helpers"
)

type memStore struct {
	exams map[string]model.ExamModel
}

func newMemStore() *memStore {
	return &memStore{exams: map[string]model.ExamModel{}}
}

func (s *memStore) GetExam(_ context.Context, id string) (*model.ExamModel, error) {
	e, ok := s.exams[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *memStore) GetExamByCode(_ context.Context, code string) (*model.ExamModel, error) {
	for id := range s.exams {
		if s.exams[id].ExamCode == code {
			e := s.exams[id]
			return &e, nil
		}
	}
	return nil, nil
}

func (s *memStore) InsertExam(_ context.Context, e *model.ExamModel) error {
	s.exams[e.ExamID] = *e
	return nil
}

func (s *memStore) UpdateExam(_ context.Context, e *model.ExamModel) error {
	s.exams[e.ExamID] = *e
	return nil
}

func (s *memStore) DeleteExam(_ context.Context, id string) error {
	delete(s.exams, id)
	return nil
}

func (s *memStore) ListExams(_ context.Context, activeOnly bool) ([]model.ExamModel, error) {
	var out []model.ExamModel
	for id := range s.exams {
		if activeOnly && !s.exams[id].ExamIsActive {
			continue
		}
		out = append(out, s.exams[id])
	}
	return out, nil
}

type memTaxonomy struct {
	subjects map[string]taxonomyModel.SubjectModel
	topics   map[string]taxonomyModel.TopicModel
}

func (m *memTaxonomy) GetSubject(_ context.Context, id string) (*taxonomyModel.SubjectModel, error) {
	s, ok := m.subjects[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memTaxonomy) GetTopic(_ context.Context, id string) (*taxonomyModel.TopicModel, error) {
	t, ok := m.topics[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func newSvc() (*ExamService, *memStore) {
	store := newMemStore()
	tax := &memTaxonomy{
		subjects: map[string]taxonomyModel.SubjectModel{
			"subject_physics":   {SubjectID: "subject_physics"},
			"subject_chemistry": {SubjectID: "subject_chemistry"},
		},
		topics: map[string]taxonomyModel.TopicModel{
			"topic_mechanics": {TopicID: "topic_mechanics", TopicSubjectID: "subject_physics"},
			"topic_organic":   {TopicID: "topic_organic", TopicSubjectID: "subject_chemistry"},
		},
	}
	return NewExamService(store, tax), store
}

func TestCreateExamValidatesSyllabus(t *testing.T) {
	svc, _ := newSvc()

	exam, err := svc.CreateExam(context.Background(), dto.CreateExamRequest{
		Code: "JEE-MAIN",
		Name: "JEE Main",
		Syllabus: []model.ExamSyllabusItem{
			{SubjectID: "subject_physics", TopicIDs: []string{"topic_mechanics"}},
		},
	})
	require.NoError(t, err)
	require.True(t, exam.ExamIsActive)
	require.Len(t, exam.ExamSyllabus, 1)
}

func TestCreateExamRejectsCrossSubjectTopic(t *testing.T) {
	svc, _ := newSvc()

	_, err := svc.CreateExam(context.Background(), dto.CreateExamRequest{
		Code: "JEE-MAIN",
		Name: "JEE Main",
		Syllabus: []model.ExamSyllabusItem{
			{SubjectID: "subject_physics", TopicIDs: []string{"topic_organic"}},
		},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

func TestCreateExamRejectsUnknownSubject(t *testing.T) {
	svc, _ := newSvc()

	_, err := svc.CreateExam(context.Background(), dto.CreateExamRequest{
		Code: "NEET",
		Name: "NEET UG",
		Syllabus: []model.ExamSyllabusItem{
			{SubjectID: "subject_biology"},
		},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

func TestCreateExamRejectsDuplicateCode(t *testing.T) {
	svc, _ := newSvc()

	_, err := svc.CreateExam(context.Background(), dto.CreateExamRequest{Code: "JEE-MAIN", Name: "JEE Main"})
	require.NoError(t, err)

	_, err = svc.CreateExam(context.Background(), dto.CreateExamRequest{Code: "JEE-MAIN", Name: "Copy"})
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))
}

func TestUpdateExamRevalidatesSyllabus(t *testing.T) {
	svc, _ := newSvc()

	exam, err := svc.CreateExam(context.Background(), dto.CreateExamRequest{Code: "JEE-MAIN", Name: "JEE Main"})
	require.NoError(t, err)

	_, err = svc.UpdateExam(context.Background(), exam.ExamID, dto.UpdateExamRequest{
		Syllabus: []model.ExamSyllabusItem{
			{SubjectID: "subject_chemistry", TopicIDs: []string{"topic_mechanics"}},
		},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))

	updated, err := svc.UpdateExam(context.Background(), exam.ExamID, dto.UpdateExamRequest{
		Syllabus: []model.ExamSyllabusItem{
			{SubjectID: "subject_chemistry", TopicIDs: []string{"topic_organic"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.ExamSyllabus, 1)
}

func TestGetExamSyllabus(t *testing.T) {
	svc, _ := newSvc()

	exam, err := svc.CreateExam(context.Background(), dto.CreateExamRequest{
		Code: "JEE-MAIN",
		Name: "JEE Main",
		Syllabus: []model.ExamSyllabusItem{
			{SubjectID: "subject_physics", TopicIDs: []string{"topic_mechanics"}},
		},
	})
	require.NoError(t, err)

	syllabus, err := svc.GetExamSyllabus(context.Background(), exam.ExamID)
	require.NoError(t, err)
	require.Equal(t, "subject_physics", syllabus[0].SubjectID)

	_, err = svc.GetExamSyllabus(context.Background(), "exam_ghost")
	require.Equal(t, helper.ErrNotFound, helper.KindOf(err))
}
