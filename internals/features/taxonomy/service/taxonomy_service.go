package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"qbank_backend/internals/features/taxonomy/dto"
	"qbank_backend/internals/features/taxonomy/model"
	helper "qbank_backend/internals/helpers"
)

// SubjectFilter carries semantic list filters; the store translates them to
// whatever query language it speaks.
type SubjectFilter struct {
	IsActive *bool
	Search   string
	Tags     []string
}

// Store is the persistence contract the registry consumes. Lookups return
// (nil, nil) when the record is absent.
type Store interface {
	GetSubject(ctx context.Context, id string) (*model.SubjectModel, error)
	GetSubjectBySlug(ctx context.Context, slug string) (*model.SubjectModel, error)
	InsertSubject(ctx context.Context, s *model.SubjectModel) error
	UpdateSubject(ctx context.Context, s *model.SubjectModel) error
	DeleteSubject(ctx context.Context, id string) error
	ListSubjects(ctx context.Context, f SubjectFilter, p helper.PageParams) ([]model.SubjectModel, int64, error)
	CountTopicsForSubject(ctx context.Context, subjectID string) (int64, error)

	GetTopic(ctx context.Context, id string) (*model.TopicModel, error)
	GetTopicBySlug(ctx context.Context, subjectID, slug string) (*model.TopicModel, error)
	InsertTopic(ctx context.Context, t *model.TopicModel) error
	UpdateTopic(ctx context.Context, t *model.TopicModel) error
	DeleteTopic(ctx context.Context, id string) error
	ListTopics(ctx context.Context, subjectID string) ([]model.TopicModel, error)
}

type TaxonomyService struct {
	store Store
}

func NewTaxonomyService(store Store) *TaxonomyService {
	return &TaxonomyService{store: store}
}

// =========================
// SUBJECTS
// =========================

func (s *TaxonomyService) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*model.SubjectModel, error) {
	subjectID := "subject_" + uuid.NewString()
	if req.ID != nil && *req.ID != "" {
		subjectID = *req.ID
	}

	if existing, err := s.store.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, helper.Conflictf("Subject id already exists")
	}
	if existing, err := s.store.GetSubjectBySlug(ctx, req.Slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, helper.Conflictf("Subject slug already exists")
	}

	now := time.Now().UTC()
	subject := &model.SubjectModel{
		SubjectID:          subjectID,
		SubjectName:        req.Name,
		SubjectSlug:        req.Slug,
		SubjectDescription: req.Description,
		SubjectTags:        req.Tags,
		SubjectMetadata:    req.Metadata,
		SubjectIsActive:    true,
		SubjectCreatedAt:   now,
		SubjectUpdatedAt:   now,
	}
	if req.IsActive != nil {
		subject.SubjectIsActive = *req.IsActive
	}

	if err := s.store.InsertSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *TaxonomyService) GetSubject(ctx context.Context, subjectID string) (*model.SubjectModel, error) {
	subject, err := s.store.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, helper.NotFoundf("Subject not found")
	}
	return subject, nil
}

func (s *TaxonomyService) ListSubjects(ctx context.Context, f SubjectFilter, p helper.PageParams) ([]model.SubjectModel, int64, error) {
	return s.store.ListSubjects(ctx, f, p)
}

func (s *TaxonomyService) UpdateSubject(ctx context.Context, subjectID string, req dto.UpdateSubjectRequest) (*model.SubjectModel, error) {
	subject, err := s.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil && *req.Slug != subject.SubjectSlug {
		existing, err := s.store.GetSubjectBySlug(ctx, *req.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.SubjectID != subjectID {
			return nil, helper.Conflictf("Subject slug already exists")
		}
		subject.SubjectSlug = *req.Slug
	}
	if req.Name != nil {
		subject.SubjectName = *req.Name
	}
	if req.Description != nil {
		subject.SubjectDescription = req.Description
	}
	if req.Tags != nil {
		subject.SubjectTags = req.Tags
	}
	if req.Metadata != nil {
		subject.SubjectMetadata = req.Metadata
	}
	if req.IsActive != nil {
		subject.SubjectIsActive = *req.IsActive
	}
	subject.SubjectUpdatedAt = time.Now().UTC()

	if err := s.store.UpdateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *TaxonomyService) DeleteSubject(ctx context.Context, subjectID string) error {
	if _, err := s.GetSubject(ctx, subjectID); err != nil {
		return err
	}
	count, err := s.store.CountTopicsForSubject(ctx, subjectID)
	if err != nil {
		return err
	}
	if count > 0 {
		return helper.Conflictf("Cannot delete subject with existing topics. Delete topics first.")
	}
	return s.store.DeleteSubject(ctx, subjectID)
}

// =========================
// TOPICS
// =========================

// validateTopicReferences ensures every referenced topic exists and belongs to
// the same subject as the topic carrying the reference.
func (s *TaxonomyService) validateTopicReferences(ctx context.Context, subjectID string, refIDs []string) error {
	for _, refID := range refIDs {
		refTopic, err := s.store.GetTopic(ctx, refID)
		if err != nil {
			return err
		}
		if refTopic == nil {
			return helper.Validationf("Referenced topic %s not found", refID)
		}
		if refTopic.TopicSubjectID != subjectID {
			return helper.Validationf("Topic %s does not belong to subject %s", refID, subjectID)
		}
	}
	return nil
}

func (s *TaxonomyService) CreateTopic(ctx context.Context, req dto.CreateTopicRequest) (*model.TopicModel, error) {
	subject, err := s.store.GetSubject(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, helper.NotFoundf("Subject not found")
	}

	topicID := "topic_" + uuid.NewString()
	if req.ID != nil && *req.ID != "" {
		topicID = *req.ID
	}
	if existing, err := s.store.GetTopic(ctx, topicID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, helper.Conflictf("Topic id already exists")
	}
	if existing, err := s.store.GetTopicBySlug(ctx, req.SubjectID, req.Slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, helper.Conflictf("Topic slug already exists for this subject")
	}

	now := time.Now().UTC()
	topic := &model.TopicModel{
		TopicID:                   topicID,
		TopicSubjectID:            req.SubjectID,
		TopicName:                 req.Name,
		TopicSlug:                 req.Slug,
		TopicDescription:          req.Description,
		TopicDifficultyWeight:     req.DifficultyWeight,
		TopicBloomLevel:           req.BloomLevel,
		TopicRelatedTopicIDs:      req.RelatedTopicIDs,
		TopicPrerequisiteTopicIDs: req.PrerequisiteTopicIDs,
		TopicTags:                 req.Tags,
		TopicMetadata:             req.Metadata,
		TopicIsActive:             true,
		TopicCreatedAt:            now,
		TopicUpdatedAt:            now,
	}
	if req.IsActive != nil {
		topic.TopicIsActive = *req.IsActive
	}

	if err := s.validateTopicReferences(ctx, topic.TopicSubjectID, topic.TopicRelatedTopicIDs); err != nil {
		return nil, err
	}
	if err := s.validateTopicReferences(ctx, topic.TopicSubjectID, topic.TopicPrerequisiteTopicIDs); err != nil {
		return nil, err
	}

	if err := s.store.InsertTopic(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *TaxonomyService) GetTopic(ctx context.Context, topicID string) (*model.TopicModel, error) {
	topic, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, helper.NotFoundf("Topic not found")
	}
	return topic, nil
}

func (s *TaxonomyService) ListTopics(ctx context.Context, subjectID string) ([]model.TopicModel, error) {
	return s.store.ListTopics(ctx, subjectID)
}

func (s *TaxonomyService) UpdateTopic(ctx context.Context, topicID string, req dto.UpdateTopicRequest) (*model.TopicModel, error) {
	topic, err := s.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	// subject_id is immutable after creation
	if req.SubjectID != nil && *req.SubjectID != topic.TopicSubjectID {
		return nil, helper.Validationf("Changing subject of a topic is not allowed")
	}

	if req.Slug != nil && *req.Slug != topic.TopicSlug {
		existing, err := s.store.GetTopicBySlug(ctx, topic.TopicSubjectID, *req.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.TopicID != topicID {
			return nil, helper.Conflictf("Topic slug already exists for this subject")
		}
		topic.TopicSlug = *req.Slug
	}
	if req.Name != nil {
		topic.TopicName = *req.Name
	}
	if req.Description != nil {
		topic.TopicDescription = req.Description
	}
	if req.DifficultyWeight != nil {
		topic.TopicDifficultyWeight = *req.DifficultyWeight
	}
	if req.BloomLevel != nil {
		topic.TopicBloomLevel = req.BloomLevel
	}
	if req.RelatedTopicIDs != nil {
		topic.TopicRelatedTopicIDs = req.RelatedTopicIDs
	}
	if req.PrerequisiteTopicIDs != nil {
		topic.TopicPrerequisiteTopicIDs = req.PrerequisiteTopicIDs
	}
	if req.Tags != nil {
		topic.TopicTags = req.Tags
	}
	if req.Metadata != nil {
		topic.TopicMetadata = req.Metadata
	}
	if req.IsActive != nil {
		topic.TopicIsActive = *req.IsActive
	}

	// re-validate the relationship graph against the merged lists
	if err := s.validateTopicReferences(ctx, topic.TopicSubjectID, topic.TopicRelatedTopicIDs); err != nil {
		return nil, err
	}
	if err := s.validateTopicReferences(ctx, topic.TopicSubjectID, topic.TopicPrerequisiteTopicIDs); err != nil {
		return nil, err
	}
	topic.TopicUpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTopic(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// UpdateTopicLinks patches only the relationship graph.
func (s *TaxonomyService) UpdateTopicLinks(ctx context.Context, topicID string, req dto.UpdateTopicLinksRequest) (*model.TopicModel, error) {
	return s.UpdateTopic(ctx, topicID, dto.UpdateTopicRequest{
		RelatedTopicIDs:      req.RelatedTopicIDs,
		PrerequisiteTopicIDs: req.PrerequisiteTopicIDs,
	})
}

func (s *TaxonomyService) DeleteTopic(ctx context.Context, topicID string) error {
	if _, err := s.GetTopic(ctx, topicID); err != nil {
		return err
	}
	return s.store.DeleteTopic(ctx, topicID)
}
