package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"qbank_backend/internals/features/exams/dto"
	"qbank_backend/internals/features/exams/model"
	taxonomyModel "qbank_backend/internals/features/taxonomy/model"
	helper "qbank_backend/internals/helpers"
)

// Store is the persistence contract for exams. Lookups return (nil, nil) when
// the record is absent.
type Store interface {
	GetExam(ctx context.Context, id string) (*model.ExamModel, error)
	GetExamByCode(ctx context.Context, code string) (*model.ExamModel, error)
	InsertExam(ctx context.Context, e *model.ExamModel) error
	UpdateExam(ctx context.Context, e *model.ExamModel) error
	DeleteExam(ctx context.Context, id string) error
	ListExams(ctx context.Context, activeOnly bool) ([]model.ExamModel, error)
}

// TaxonomyReader is the slice of the taxonomy registry the exam service needs
// for syllabus validation.
type TaxonomyReader interface {
	GetSubject(ctx context.Context, id string) (*taxonomyModel.SubjectModel, error)
	GetTopic(ctx context.Context, id string) (*taxonomyModel.TopicModel, error)
}

type ExamService struct {
	store    Store
	taxonomy TaxonomyReader
}

func NewExamService(store Store, taxonomy TaxonomyReader) *ExamService {
	return &ExamService{store: store, taxonomy: taxonomy}
}

// validateSyllabus ensures subjects and topics exist and each topic belongs to
// the listed subject.
func (s *ExamService) validateSyllabus(ctx context.Context, syllabus []model.ExamSyllabusItem) error {
	for _, item := range syllabus {
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

func (s *ExamService) CreateExam(ctx context.Context, req dto.CreateExamRequest) (*model.ExamModel, error) {
	if err := s.validateSyllabus(ctx, req.Syllabus); err != nil {
		return nil, err
	}
	if existing, err := s.store.GetExamByCode(ctx, req.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, helper.Conflictf("Exam code already exists")
	}

	now := time.Now().UTC()
	exam := &model.ExamModel{
		ExamID:          uuid.NewString(),
		ExamCode:        req.Code,
		ExamName:        req.Name,
		ExamDescription: req.Description,
		ExamSyllabus:    req.Syllabus,
		ExamVersion:     req.Version,
		ExamIsActive:    true,
		ExamMetadata:    req.Metadata,
		ExamCreatedBy:   req.CreatedBy,
		ExamCreatedAt:   now,
		ExamUpdatedAt:   now,
	}
	if req.IsActive != nil {
		exam.ExamIsActive = *req.IsActive
	}

	if err := s.store.InsertExam(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) GetExam(ctx context.Context, examID string) (*model.ExamModel, error) {
	exam, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, helper.NotFoundf("Exam not found")
	}
	return exam, nil
}

func (s *ExamService) ListExams(ctx context.Context, activeOnly bool) ([]model.ExamModel, error) {
	return s.store.ListExams(ctx, activeOnly)
}

func (s *ExamService) UpdateExam(ctx context.Context, examID string, req dto.UpdateExamRequest) (*model.ExamModel, error) {
	exam, err := s.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	if req.Code != nil && *req.Code != exam.ExamCode {
		existing, err := s.store.GetExamByCode(ctx, *req.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ExamID != examID {
			return nil, helper.Conflictf("Exam code already exists")
		}
		exam.ExamCode = *req.Code
	}
	if req.Syllabus != nil {
		if err := s.validateSyllabus(ctx, req.Syllabus); err != nil {
			return nil, err
		}
		exam.ExamSyllabus = req.Syllabus
	}
	if req.Name != nil {
		exam.ExamName = *req.Name
	}
	if req.Description != nil {
		exam.ExamDescription = req.Description
	}
	if req.Version != nil {
		exam.ExamVersion = req.Version
	}
	if req.IsActive != nil {
		exam.ExamIsActive = *req.IsActive
	}
	if req.Metadata != nil {
		exam.ExamMetadata = req.Metadata
	}
	exam.ExamUpdatedAt = time.Now().UTC()

	if err := s.store.UpdateExam(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) DeleteExam(ctx context.Context, examID string) error {
	if _, err := s.GetExam(ctx, examID); err != nil {
		return err
	}
	return s.store.DeleteExam(ctx, examID)
}

// GetExamSyllabus returns only the syllabus section of an exam.
func (s *ExamService) GetExamSyllabus(ctx context.Context, examID string) ([]model.ExamSyllabusItem, error) {
	exam, err := s.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	return exam.ExamSyllabus, nil
}
