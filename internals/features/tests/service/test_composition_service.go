package service

import (
	"context"
	"sort"
	"strings"

	qmodel "qbank_backend/internals/features/questions/model"
	"qbank_backend/internals/features/tests/dto"
	"qbank_backend/internals/features/tests/model"
	helper "qbank_backend/internals/helpers"
)

// =======================
// Add questions
// =======================

func (s *TestService) AddQuestionsToTest(ctx context.Context, testID string, req *dto.AddQuestionsRequest) ([]model.QuestionReference, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	section := t.SectionByID(req.SectionID)
	if section == nil {
		return nil, helper.NotFoundf("Section not found in test: %s", req.SectionID)
	}

	if err := rejectDuplicates(t, req.QuestionIDs); err != nil {
		return nil, err
	}
	byID, err := s.fetchAllQuestions(ctx, req.QuestionIDs)
	if err != nil {
		return nil, err
	}

	seq := t.NextSeq()
	if req.StartingSeq != nil {
		seq = *req.StartingSeq
	}

	newRefs := make([]model.QuestionReference, 0, len(req.QuestionIDs))
	for _, qid := range req.QuestionIDs {
		ref, err := buildReference(byID[qid], section, seq, req.Marks, req.NegativeMarks, req.IsBonus, req.IsOptional)
		if err != nil {
			return nil, err
		}
		newRefs = append(newRefs, ref)
		seq++
	}

	t.TestQuestions = append(t.TestQuestions, newRefs...)
	sortRefs(t)
	if err := validateQuestionSet(t); err != nil {
		return nil, err
	}
	t.TestUpdatedAt = s.now()
	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}
	return newRefs, nil
}

// =======================
// Bulk add by criteria
// =======================

func (s *TestService) BulkAddQuestions(ctx context.Context, testID string, req *dto.BulkAddQuestionsRequest) ([]model.QuestionReference, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	section := t.SectionByID(req.SectionID)
	if section == nil {
		return nil, helper.NotFoundf("Section not found in test: %s", req.SectionID)
	}
	if req.Criteria.SubjectID != section.SubjectID {
		return nil, helper.Validationf("Criteria subject must match the section subject")
	}

	criteria := CandidateCriteria{
		SubjectID:    req.Criteria.SubjectID,
		TopicIDs:     req.Criteria.TopicIDs,
		Difficulties: req.Criteria.Difficulties,
		Types:        req.Criteria.Types,
	}

	var candidates []qmodel.QuestionModel
	switch req.Strategy {
	case "random":
		candidates, err = s.questions.SampleCandidates(ctx, criteria, req.Count, s.randF())
	case "difficulty_sorted":
		candidates, err = s.questions.FindCandidates(ctx, criteria, OrderByDifficulty, req.Count)
	default:
		candidates, err = s.questions.FindCandidates(ctx, criteria, OrderByID, req.Count)
	}
	if err != nil {
		return nil, err
	}
	if len(candidates) < req.Count {
		return nil, helper.Validationf("Only %d questions match the criteria, %d required", len(candidates), req.Count)
	}
	candidates = candidates[:req.Count]

	ids := make([]string, 0, len(candidates))
	for i := range candidates {
		ids = append(ids, candidates[i].QuestionID)
	}
	if err := rejectDuplicates(t, ids); err != nil {
		return nil, err
	}

	seq := t.NextSeq()
	newRefs := make([]model.QuestionReference, 0, len(candidates))
	for i := range candidates {
		ref, err := buildReference(&candidates[i], section, seq, nil, nil, false, false)
		if err != nil {
			return nil, err
		}
		newRefs = append(newRefs, ref)
		seq++
	}

	t.TestQuestions = append(t.TestQuestions, newRefs...)
	sortRefs(t)
	resequence(t)
	if err := validateQuestionSet(t); err != nil {
		return nil, err
	}
	t.TestUpdatedAt = s.now()
	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}
	return newRefs, nil
}

// =======================
// Remove / reorder / replace
// =======================

func (s *TestService) RemoveQuestion(ctx context.Context, testID, questionID string) (*model.TestModel, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if t.ReferenceByQuestionID(questionID) == nil {
		return nil, helper.NotFoundf("Question not found in test: %s", questionID)
	}

	kept := t.TestQuestions[:0]
	for _, ref := range t.TestQuestions {
		if ref.QuestionID != questionID {
			kept = append(kept, ref)
		}
	}
	t.TestQuestions = kept
	sortRefs(t)
	resequence(t)

	if err := validateQuestionSet(t); err != nil {
		return nil, err
	}
	t.TestUpdatedAt = s.now()
	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TestService) ReorderQuestions(ctx context.Context, testID string, req *dto.ReorderQuestionsRequest) (*model.TestModel, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if t.SectionByID(req.SectionID) == nil {
		return nil, helper.NotFoundf("Section not found in test: %s", req.SectionID)
	}

	for _, item := range req.Items {
		ref := t.ReferenceByQuestionID(item.QuestionID)
		if ref == nil {
			return nil, helper.Validationf("Question %s is not in the test", item.QuestionID)
		}
		if ref.SectionID != req.SectionID {
			return nil, helper.Validationf("Question %s is not in section %s", item.QuestionID, req.SectionID)
		}
		ref.Seq = item.Seq
	}

	sortRefs(t)
	// the whole test must still be a contiguous permutation, not just the
	// touched section
	if err := validateQuestionSet(t); err != nil {
		return nil, err
	}
	t.TestUpdatedAt = s.now()
	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TestService) ReplaceQuestion(ctx context.Context, testID string, req *dto.ReplaceQuestionRequest) (*model.QuestionReference, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	old := t.ReferenceByQuestionID(req.OldQuestionID)
	if old == nil {
		return nil, helper.NotFoundf("Question not found in test: %s", req.OldQuestionID)
	}
	if req.NewQuestionID != req.OldQuestionID && t.ReferenceByQuestionID(req.NewQuestionID) != nil {
		return nil, helper.Conflictf("Question already in test: %s", req.NewQuestionID)
	}
	byID, err := s.fetchAllQuestions(ctx, []string{req.NewQuestionID})
	if err != nil {
		return nil, err
	}
	newDoc := byID[req.NewQuestionID]

	section := t.SectionByID(old.SectionID)
	if section == nil {
		return nil, helper.Validationf("Question %s references unknown section: %s", old.QuestionID, old.SectionID)
	}
	if newDoc.QuestionSubjectID == nil || *newDoc.QuestionSubjectID != section.SubjectID {
		return nil, helper.Validationf(
			"Question %s subject does not match section %s subject", newDoc.QuestionID, section.SectionID)
	}

	// the replacement keeps the old slot's marks, they are not recomputed
	// from the section's marking scheme
	newRef := model.QuestionReference{
		SectionID:     old.SectionID,
		QuestionID:    newDoc.QuestionID,
		QuestionType:  string(newDoc.QuestionType),
		SubjectID:     newDoc.QuestionSubjectID,
		TopicIDs:      newDoc.QuestionTopicIDs,
		Difficulty:    newDoc.QuestionDifficulty,
		Marks:         old.Marks,
		NegativeMarks: old.NegativeMarks,
		IsBonus:       old.IsBonus,
		IsOptional:    old.IsOptional,
	}
	oldSeq := old.Seq

	kept := t.TestQuestions[:0]
	for _, ref := range t.TestQuestions {
		if ref.QuestionID != req.OldQuestionID {
			kept = append(kept, ref)
		}
	}
	t.TestQuestions = kept

	if req.PreserveSequence {
		newRef.Seq = oldSeq
	} else {
		// the replacement goes to the end of the ordering; removing a
		// middle slot this way leaves a sequence gap, which the set
		// validation below rejects rather than silently renumbering
		newRef.Seq = t.NextSeq()
	}
	t.TestQuestions = append(t.TestQuestions, newRef)
	sortRefs(t)

	if err := validateQuestionSet(t); err != nil {
		return nil, err
	}
	t.TestUpdatedAt = s.now()
	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}
	return t.ReferenceByQuestionID(req.NewQuestionID), nil
}

func (s *TestService) UpdateQuestionMarks(ctx context.Context, testID, questionID string, req *dto.UpdateQuestionMarksRequest) (*model.QuestionReference, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	ref := t.ReferenceByQuestionID(questionID)
	if ref == nil {
		return nil, helper.NotFoundf("Question not found in test: %s", questionID)
	}

	if req.Marks != nil {
		ref.Marks = *req.Marks
	}
	if req.NegativeMarks != nil {
		ref.NegativeMarks = *req.NegativeMarks
	}
	if req.IsBonus != nil {
		ref.IsBonus = *req.IsBonus
	}
	if req.IsOptional != nil {
		ref.IsOptional = *req.IsOptional
	}

	t.TestUpdatedAt = s.now()
	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}
	return ref, nil
}

// =======================
// Shared helpers
// =======================

// resequence renumbers references to 1..N preserving their current seq order.
func resequence(t *model.TestModel) {
	sort.SliceStable(t.TestQuestions, func(i, j int) bool {
		return t.TestQuestions[i].Seq < t.TestQuestions[j].Seq
	})
	for i := range t.TestQuestions {
		t.TestQuestions[i].Seq = i + 1
	}
}

// rejectDuplicates fails when any given id is already referenced by the
// test, or appears twice in the input, reporting every offender.
func rejectDuplicates(t *model.TestModel, ids []string) error {
	var dups []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		_, inReq := seen[id]
		if inReq || t.ReferenceByQuestionID(id) != nil {
			dups = append(dups, id)
		}
		seen[id] = struct{}{}
	}
	if len(dups) > 0 {
		return helper.Conflictf("Questions already in test: %s", strings.Join(dups, ", "))
	}
	return nil
}

// fetchAllQuestions resolves every id or fails listing all missing ids.
func (s *TestService) fetchAllQuestions(ctx context.Context, ids []string) (map[string]*qmodel.QuestionModel, error) {
	docs, err := s.questions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*qmodel.QuestionModel, len(docs))
	for i := range docs {
		byID[docs[i].QuestionID] = &docs[i]
	}
	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, helper.NotFoundf("Questions not found: %s", strings.Join(missing, ", "))
	}
	return byID, nil
}
