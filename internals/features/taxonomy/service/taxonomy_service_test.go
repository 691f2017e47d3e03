package service

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"qbank_backend/internals/features/taxonomy/dto"
	"qbank_backend/internals/features/taxonomy/model"
	helper "qbank_backend/internals/helpers"
)

// =======================
// In-memory store
// =======================

type memStore struct {
	subjects map[string]model.SubjectModel
	topics   map[string]model.TopicModel
}

func newMemStore() *memStore {
	return &memStore{
		subjects: map[string]model.SubjectModel{},
		topics:   map[string]model.TopicModel{},
	}
}

func (s *memStore) GetSubject(_ context.Context, id string) (*model.SubjectModel, error) {
	sub, ok := s.subjects[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (s *memStore) GetSubjectBySlug(_ context.Context, slug string) (*model.SubjectModel, error) {
	for id := range s.subjects {
		if s.subjects[id].SubjectSlug == slug {
			sub := s.subjects[id]
			return &sub, nil
		}
	}
	return nil, nil
}

func (s *memStore) InsertSubject(_ context.Context, sub *model.SubjectModel) error {
	s.subjects[sub.SubjectID] = *sub
	return nil
}

func (s *memStore) UpdateSubject(_ context.Context, sub *model.SubjectModel) error {
	s.subjects[sub.SubjectID] = *sub
	return nil
}

func (s *memStore) DeleteSubject(_ context.Context, id string) error {
	delete(s.subjects, id)
	return nil
}

func (s *memStore) ListSubjects(_ context.Context, f SubjectFilter, p helper.PageParams) ([]model.SubjectModel, int64, error) {
	var out []model.SubjectModel
	for id := range s.subjects {
		sub := s.subjects[id]
		if f.IsActive != nil && sub.SubjectIsActive != *f.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(sub.SubjectName), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectName < out[j].SubjectName })
	total := int64(len(out))
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, total, nil
}

func (s *memStore) CountTopicsForSubject(_ context.Context, subjectID string) (int64, error) {
	var n int64
	for id := range s.topics {
		if s.topics[id].TopicSubjectID == subjectID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) GetTopic(_ context.Context, id string) (*model.TopicModel, error) {
	t, ok := s.topics[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *memStore) GetTopicBySlug(_ context.Context, subjectID, slug string) (*model.TopicModel, error) {
	for id := range s.topics {
		if s.topics[id].TopicSubjectID == subjectID && s.topics[id].TopicSlug == slug {
			t := s.topics[id]
			return &t, nil
		}
	}
	return nil, nil
}

func (s *memStore) InsertTopic(_ context.Context, t *model.TopicModel) error {
	s.topics[t.TopicID] = *t
	return nil
}

func (s *memStore) UpdateTopic(_ context.Context, t *model.TopicModel) error {
	s.topics[t.TopicID] = *t
	return nil
}

func (s *memStore) DeleteTopic(_ context.Context, id string) error {
	delete(s.topics, id)
	return nil
}

func (s *memStore) ListTopics(_ context.Context, subjectID string) ([]model.TopicModel, error) {
	var out []model.TopicModel
	for id := range s.topics {
		if s.topics[id].TopicSubjectID == subjectID {
			out = append(out, s.topics[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TopicName < out[j].TopicName })
	return out, nil
}

// =======================
// Fixtures
// =======================

func strPtr(s string) *string { return &s }

func newSvc() (*TaxonomyService, *memStore) {
	store := newMemStore()
	return NewTaxonomyService(store), store
}

func mustSubject(t *testing.T, svc *TaxonomyService, name, slug string) *model.SubjectModel {
	t.Helper()
	sub, err := svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{
		Name: name, Slug: slug,
	})
	require.NoError(t, err)
	return sub
}

func mustTopic(t *testing.T, svc *TaxonomyService, subjectID, name, slug string) *model.TopicModel {
	t.Helper()
	topic, err := svc.CreateTopic(context.Background(), dto.CreateTopicRequest{
		SubjectID: subjectID, Name: name, Slug: slug,
	})
	require.NoError(t, err)
	return topic
}

// =======================
// Subjects
// =======================

func TestCreateSubjectGeneratesIDAndDefaults(t *testing.T) {
	svc, _ := newSvc()

	sub := mustSubject(t, svc, "Physics", "physics")
	require.Equal(t, "subject_", sub.SubjectID[:8])
	require.True(t, sub.SubjectIsActive)
}

func TestCreateSubjectRejectsDuplicateSlug(t *testing.T) {
	svc, _ := newSvc()
	mustSubject(t, svc, "Physics", "physics")

	_, err := svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{
		Name: "Physics II", Slug: "physics",
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))
}

func TestCreateSubjectRejectsDuplicateExplicitID(t *testing.T) {
	svc, _ := newSvc()
	_, err := svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{
		ID: strPtr("subject_physics"), Name: "Physics", Slug: "physics",
	})
	require.NoError(t, err)

	_, err = svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{
		ID: strPtr("subject_physics"), Name: "Other", Slug: "other",
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))
}

func TestUpdateSubjectSlugConflict(t *testing.T) {
	svc, _ := newSvc()
	mustSubject(t, svc, "Physics", "physics")
	chem := mustSubject(t, svc, "Chemistry", "chemistry")

	_, err := svc.UpdateSubject(context.Background(), chem.SubjectID, dto.UpdateSubjectRequest{
		Slug: strPtr("physics"),
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))

	// re-submitting the own slug is a no-op, not a conflict
	_, err = svc.UpdateSubject(context.Background(), chem.SubjectID, dto.UpdateSubjectRequest{
		Slug: strPtr("chemistry"),
	})
	require.NoError(t, err)
}

func TestDeleteSubjectBlockedByTopics(t *testing.T) {
	svc, _ := newSvc()
	sub := mustSubject(t, svc, "Physics", "physics")
	mustTopic(t, svc, sub.SubjectID, "Mechanics", "mechanics")

	err := svc.DeleteSubject(context.Background(), sub.SubjectID)
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))

	require.NoError(t, svc.DeleteTopic(context.Background(), mustListOnlyTopicID(t, svc, sub.SubjectID)))
	require.NoError(t, svc.DeleteSubject(context.Background(), sub.SubjectID))
}

func mustListOnlyTopicID(t *testing.T, svc *TaxonomyService, subjectID string) string {
	t.Helper()
	topics, err := svc.ListTopics(context.Background(), subjectID)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	return topics[0].TopicID
}

// =======================
// Topics
// =======================

func TestCreateTopicRequiresSubject(t *testing.T) {
	svc, _ := newSvc()
	_, err := svc.CreateTopic(context.Background(), dto.CreateTopicRequest{
		SubjectID: "subject_ghost", Name: "Mechanics", Slug: "mechanics",
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrNotFound, helper.KindOf(err))
}

func TestTopicSlugUniquePerSubject(t *testing.T) {
	svc, _ := newSvc()
	phy := mustSubject(t, svc, "Physics", "physics")
	chem := mustSubject(t, svc, "Chemistry", "chemistry")
	mustTopic(t, svc, phy.SubjectID, "Basics", "basics")

	// same slug under another subject is fine
	mustTopic(t, svc, chem.SubjectID, "Basics", "basics")

	_, err := svc.CreateTopic(context.Background(), dto.CreateTopicRequest{
		SubjectID: phy.SubjectID, Name: "Basics Again", Slug: "basics",
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrConflict, helper.KindOf(err))
}

func TestTopicSubjectIsImmutable(t *testing.T) {
	svc, _ := newSvc()
	phy := mustSubject(t, svc, "Physics", "physics")
	chem := mustSubject(t, svc, "Chemistry", "chemistry")
	topic := mustTopic(t, svc, phy.SubjectID, "Mechanics", "mechanics")

	_, err := svc.UpdateTopic(context.Background(), topic.TopicID, dto.UpdateTopicRequest{
		SubjectID: &chem.SubjectID,
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

func TestTopicReferencesMustShareSubject(t *testing.T) {
	svc, _ := newSvc()
	phy := mustSubject(t, svc, "Physics", "physics")
	chem := mustSubject(t, svc, "Chemistry", "chemistry")
	mech := mustTopic(t, svc, phy.SubjectID, "Mechanics", "mechanics")
	organic := mustTopic(t, svc, chem.SubjectID, "Organic", "organic")

	_, err := svc.CreateTopic(context.Background(), dto.CreateTopicRequest{
		SubjectID:            phy.SubjectID,
		Name:                 "Rotation",
		Slug:                 "rotation",
		PrerequisiteTopicIDs: []string{organic.TopicID},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))

	rot, err := svc.CreateTopic(context.Background(), dto.CreateTopicRequest{
		SubjectID:            phy.SubjectID,
		Name:                 "Rotation",
		Slug:                 "rotation",
		PrerequisiteTopicIDs: []string{mech.TopicID},
	})
	require.NoError(t, err)
	require.Equal(t, []string{mech.TopicID}, []string(rot.TopicPrerequisiteTopicIDs))
}

func TestTopicReferencesMustExist(t *testing.T) {
	svc, _ := newSvc()
	phy := mustSubject(t, svc, "Physics", "physics")

	_, err := svc.CreateTopic(context.Background(), dto.CreateTopicRequest{
		SubjectID:       phy.SubjectID,
		Name:            "Rotation",
		Slug:            "rotation",
		RelatedTopicIDs: []string{"topic_ghost"},
	})
	require.Error(t, err)
	require.Equal(t, helper.ErrValidation, helper.KindOf(err))
}

func TestUpdateTopicLinksPatchesGraphOnly(t *testing.T) {
	svc, _ := newSvc()
	phy := mustSubject(t, svc, "Physics", "physics")
	mech := mustTopic(t, svc, phy.SubjectID, "Mechanics", "mechanics")
	rot := mustTopic(t, svc, phy.SubjectID, "Rotation", "rotation")

	updated, err := svc.UpdateTopicLinks(context.Background(), rot.TopicID, dto.UpdateTopicLinksRequest{
		PrerequisiteTopicIDs: []string{mech.TopicID},
	})
	require.NoError(t, err)
	require.Equal(t, "Rotation", updated.TopicName)
	require.Equal(t, []string{mech.TopicID}, []string(updated.TopicPrerequisiteTopicIDs))
}

func TestListSubjectsFilters(t *testing.T) {
	svc, _ := newSvc()
	mustSubject(t, svc, "Physics", "physics")
	chem := mustSubject(t, svc, "Chemistry", "chemistry")
	inactive := false
	_, err := svc.UpdateSubject(context.Background(), chem.SubjectID, dto.UpdateSubjectRequest{
		IsActive: &inactive,
	})
	require.NoError(t, err)

	active := true
	subjects, total, err := svc.ListSubjects(context.Background(), SubjectFilter{IsActive: &active}, helper.PageParams{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Physics", subjects[0].SubjectName)
}
