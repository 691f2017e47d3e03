package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	qdto "qbank_backend/internals/features/questions/dto"
	qmodel "qbank_backend/internals/features/questions/model"
	"qbank_backend/internals/features/tests/dto"
	"qbank_backend/internals/features/tests/model"
	helper "qbank_backend/internals/helpers"
)

// =======================
// Validation report
// =======================

// ValidateTest inspects a stored test without mutating it, reporting every
// structural problem plus drift between references and the live question
// documents they point at.
func (s *TestService) ValidateTest(ctx context.Context, testID string) (*dto.ValidationResultDTO, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	result := &dto.ValidationResultDTO{Issues: []string{}, Warnings: []string{}}

	if len(t.TestQuestions) != t.TestPattern.TotalQuestions {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Question count %d does not match pattern total %d", len(t.TestQuestions), t.TestPattern.TotalQuestions))
	}

	sectionCounts := make(map[string]int)
	for i := range t.TestQuestions {
		sectionCounts[t.TestQuestions[i].SectionID]++
	}
	for i := range t.TestPattern.Sections {
		sec := &t.TestPattern.Sections[i]
		if n := sectionCounts[sec.SectionID]; n != sec.TotalQuestions {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"Section %s has %d questions, expected %d", sec.SectionID, n, sec.TotalQuestions))
		}
	}

	seqs := make(map[int]int)
	for i := range t.TestQuestions {
		seqs[t.TestQuestions[i].Seq]++
	}
	hasDup := false
	for _, n := range seqs {
		if n > 1 {
			hasDup = true
			break
		}
	}
	if hasDup {
		result.Issues = append(result.Issues, "Duplicate sequence numbers")
	}
	for i := 1; i <= len(t.TestQuestions); i++ {
		if _, ok := seqs[i]; !ok {
			result.Issues = append(result.Issues, "Sequence numbers are not contiguous")
			break
		}
	}

	ids := make([]string, 0, len(t.TestQuestions))
	for i := range t.TestQuestions {
		ids = append(ids, t.TestQuestions[i].QuestionID)
	}
	docs, err := s.questions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*qmodel.QuestionModel, len(docs))
	for i := range docs {
		byID[docs[i].QuestionID] = &docs[i]
	}

	var missing []string
	for i := range t.TestQuestions {
		ref := &t.TestQuestions[i]
		doc, ok := byID[ref.QuestionID]
		if !ok {
			missing = append(missing, ref.QuestionID)
			continue
		}
		// questions may have been edited since being referenced
		refSubject := ""
		if ref.SubjectID != nil {
			refSubject = *ref.SubjectID
		}
		docSubject := ""
		if doc.QuestionSubjectID != nil {
			docSubject = *doc.QuestionSubjectID
		}
		if refSubject != docSubject {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"Question %s subject changed since it was added (was %s, now %s)", ref.QuestionID, refSubject, docSubject))
		}
		if doc.QuestionStatus != qmodel.UsageStatusPublished || !doc.QuestionIsActive {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Question %s is not published and active", ref.QuestionID))
		}
	}
	if len(missing) > 0 {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"Questions no longer resolve: %s", strings.Join(missing, ", ")))
	}

	result.IsValid = len(result.Issues) == 0
	return result, nil
}

// =======================
// Stats
// =======================

func (s *TestService) TestStats(ctx context.Context, testID string) (*dto.TestStatsDTO, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	stats := &dto.TestStatsDTO{
		TestID:              t.TestID,
		TotalQuestions:      len(t.TestQuestions),
		DifficultyHistogram: map[string]int{},
		TypeHistogram:       map[string]int{},
		TopicCoverage:       map[string]int{},
	}

	sectionTypeCounts := make(map[string]map[string]int)
	sectionCounts := make(map[string]int)
	for i := range t.TestQuestions {
		ref := &t.TestQuestions[i]
		stats.DifficultyHistogram[strconv.Itoa(ref.Difficulty)]++
		stats.TypeHistogram[ref.QuestionType]++
		for _, topicID := range ref.TopicIDs {
			stats.TopicCoverage[topicID]++
		}
		sectionCounts[ref.SectionID]++
		if sectionTypeCounts[ref.SectionID] == nil {
			sectionTypeCounts[ref.SectionID] = map[string]int{}
		}
		sectionTypeCounts[ref.SectionID][ref.QuestionType]++
	}

	for i := range t.TestPattern.Sections {
		sec := &t.TestPattern.Sections[i]
		typeCounts := sectionTypeCounts[sec.SectionID]
		if typeCounts == nil {
			typeCounts = map[string]int{}
		}
		stats.Sections = append(stats.Sections, dto.SectionStatsDTO{
			SectionID:  sec.SectionID,
			Name:       sec.Name,
			Capacity:   sec.TotalQuestions,
			Count:      sectionCounts[sec.SectionID],
			TypeCounts: typeCounts,
		})
	}
	return stats, nil
}

// =======================
// Solutions release gate
// =======================

// checkSolutionsAccess decides whether solved content may be served for the
// test right now. Submission state lives in a separate attempt-tracking
// system, so after_submission behaves as open here.
func (s *TestService) checkSolutionsAccess(t *model.TestModel) error {
	cfg := t.TestSolutions
	if !cfg.HasSolutions || cfg.ReleaseMode == model.ReleaseModeNever {
		return helper.Authorizationf("Solutions are not available")
	}
	switch cfg.ReleaseMode {
	case model.ReleaseModeAfterSubmission:
		return nil
	case model.ReleaseModeScheduled:
		if cfg.ReleaseAt == nil {
			return helper.Authorizationf("Solutions release not scheduled")
		}
		if cfg.ReleaseAt.After(s.now()) {
			return helper.Authorizationf("Solutions not released yet")
		}
		return nil
	case model.ReleaseModeManual:
		return helper.Authorizationf("Solutions require manual release")
	}
	return nil
}

// =======================
// Projections
// =======================

func (s *TestService) GetTestPreview(ctx context.Context, testID string) (*dto.TestPreviewDTO, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	byID, err := s.fetchAllQuestions(ctx, questionIDs(t))
	if err != nil {
		return nil, err
	}

	out := &dto.TestPreviewDTO{TestDTO: dto.ToTestDTO(t), Entries: []dto.PreviewEntryDTO{}}
	for _, ref := range orderedRefs(t) {
		out.Entries = append(out.Entries, dto.PreviewEntryDTO{
			QuestionReference: ref,
			Question:          qdto.ToQuestionPublicDTO(byID[ref.QuestionID]),
		})
	}
	return out, nil
}

func (s *TestService) GetTestWithSolutions(ctx context.Context, testID string) (*dto.TestWithSolutionsDTO, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSolutionsAccess(t); err != nil {
		return nil, err
	}
	byID, err := s.fetchAllQuestions(ctx, questionIDs(t))
	if err != nil {
		return nil, err
	}

	out := &dto.TestWithSolutionsDTO{TestDTO: dto.ToTestDTO(t), Entries: []dto.SolvedEntryDTO{}}
	for _, ref := range orderedRefs(t) {
		out.Entries = append(out.Entries, dto.SolvedEntryDTO{
			QuestionReference: ref,
			Question:          qdto.ToQuestionFullDTO(byID[ref.QuestionID], true),
		})
	}
	return out, nil
}

func (s *TestService) GetAnswerKey(ctx context.Context, testID string) ([]dto.AnswerKeyEntryDTO, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if err := s.checkSolutionsAccess(t); err != nil {
		return nil, err
	}
	byID, err := s.fetchAllQuestions(ctx, questionIDs(t))
	if err != nil {
		return nil, err
	}

	entries := make([]dto.AnswerKeyEntryDTO, 0, len(t.TestQuestions))
	for _, ref := range orderedRefs(t) {
		doc := byID[ref.QuestionID]
		entry := dto.AnswerKeyEntryDTO{
			Seq:        ref.Seq,
			QuestionID: ref.QuestionID,
			Type:       string(doc.QuestionType),
		}
		if key := doc.QuestionAnswerKey; key != nil {
			switch key.Type {
			case qmodel.AnswerKeySingle:
				entry.OptionID = key.OptionID
			case qmodel.AnswerKeyMulti:
				entry.OptionIDs = key.OptionIDs
			case qmodel.AnswerKeyValue:
				entry.Value = key.Value
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func questionIDs(t *model.TestModel) []string {
	ids := make([]string, 0, len(t.TestQuestions))
	for i := range t.TestQuestions {
		ids = append(ids, t.TestQuestions[i].QuestionID)
	}
	return ids
}

func orderedRefs(t *model.TestModel) []model.QuestionReference {
	refs := make([]model.QuestionReference, len(t.TestQuestions))
	copy(refs, t.TestQuestions)
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Seq < refs[j].Seq })
	return refs
}
