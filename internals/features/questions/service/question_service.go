package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"qbank_backend/internals/features/questions/dto"
	"qbank_backend/internals/features/questions/model"
	helper "qbank_backend/internals/helpers"
)

const (
	DiscoverMaxLimit     = 200
	DiscoverDefaultLimit = 50
	SampleMaxLimit       = 50
)

// =======================
// Store contract
// =======================

type QuestionFilter struct {
	SubjectID     string
	TopicIDs      []string
	TargetExamIDs []string
	DifficultyMin *int
	DifficultyMax *int
	Tags          []string
	Status        string
	IsActive      *bool
}

type SortSpec struct {
	By   string
	Desc bool
}

// Store is the persistence contract for question documents. Lookups return
// (nil, nil) when the document does not exist.
type Store interface {
	Insert(ctx context.Context, q *model.QuestionModel) error
	Update(ctx context.Context, q *model.QuestionModel) error
	FindByID(ctx context.Context, id string) (*model.QuestionModel, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.QuestionModel, error)
	FindMany(ctx context.Context, f QuestionFilter, searchTerms []string, sort SortSpec, skip, limit int) ([]model.QuestionModel, int64, error)
	Sample(ctx context.Context, f QuestionFilter, limit int, seedPoint float64) ([]model.QuestionModel, error)
	Delete(ctx context.Context, id string) error
}

var allowedSortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"difficulty": "difficulty",
}

var expectedKeyType = map[model.QuestionType]model.AnswerKeyType{
	model.QuestionTypeSingleChoice: model.AnswerKeySingle,
	model.QuestionTypeTrueFalse:    model.AnswerKeySingle,
	model.QuestionTypeMultiChoice:  model.AnswerKeyMulti,
	model.QuestionTypeInteger:      model.AnswerKeyValue,
	model.QuestionTypeShortText:    model.AnswerKeyValue,
}

func isChoiceType(t model.QuestionType) bool {
	switch t {
	case model.QuestionTypeSingleChoice, model.QuestionTypeMultiChoice, model.QuestionTypeTrueFalse:
		return true
	}
	return false
}

type QuestionService struct {
	store Store
	now   func() time.Time
	randF func() float64
}

func NewQuestionService(store Store) *QuestionService {
	return &QuestionService{store: store, now: time.Now, randF: rand.Float64}
}

// =======================
// Document validation
// =======================

func validateOptions(t model.QuestionType, options []model.Option) error {
	if isChoiceType(t) {
		if len(options) < 2 {
			return helper.Validationf("Choice questions require at least 2 options")
		}
	} else if len(options) > 0 {
		return helper.Validationf("Question type %s does not take options", t)
	}
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		if opt.ID == "" || opt.Text == "" {
			return helper.Validationf("Options require both id and text")
		}
		if _, dup := seen[opt.ID]; dup {
			return helper.Validationf("Duplicate option id: %s", opt.ID)
		}
		seen[opt.ID] = struct{}{}
	}
	return nil
}

func validateAnswerKey(q *model.QuestionModel) error {
	key := q.QuestionAnswerKey
	if key == nil {
		return helper.Validationf("Answer key is required")
	}
	want := expectedKeyType[q.QuestionType]
	if key.Type != want {
		return helper.Validationf("Question type %s requires answer key type %s", q.QuestionType, want)
	}
	optionIDs := q.OptionIDSet()
	switch key.Type {
	case model.AnswerKeySingle:
		if key.OptionID == "" {
			return helper.Validationf("Answer key requires option_id")
		}
		if _, ok := optionIDs[key.OptionID]; !ok {
			return helper.Validationf("Answer key references unknown option: %s", key.OptionID)
		}
	case model.AnswerKeyMulti:
		if len(key.OptionIDs) == 0 {
			return helper.Validationf("Answer key requires at least one option id")
		}
		seen := make(map[string]struct{}, len(key.OptionIDs))
		for _, id := range key.OptionIDs {
			if _, dup := seen[id]; dup {
				return helper.Validationf("Duplicate option id in answer key: %s", id)
			}
			seen[id] = struct{}{}
			if _, ok := optionIDs[id]; !ok {
				return helper.Validationf("Answer key references unknown option: %s", id)
			}
		}
	case model.AnswerKeyValue:
		if strings.TrimSpace(key.Value) == "" {
			return helper.Validationf("Answer key requires a value")
		}
	}
	return nil
}

func validateDocument(q *model.QuestionModel) error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return helper.Validationf("Question text must not be empty")
	}
	if q.QuestionDifficulty < 1 || q.QuestionDifficulty > 5 {
		return helper.Validationf("Difficulty must be between 1 and 5")
	}
	if err := validateOptions(q.QuestionType, q.QuestionOptions); err != nil {
		return err
	}
	if err := validateAnswerKey(q); err != nil {
		return err
	}
	if q.QuestionStatus == model.UsageStatusPublished {
		if q.QuestionSubjectID == nil || *q.QuestionSubjectID == "" {
			return helper.Validationf("Published questions require a subject")
		}
	}
	return nil
}

// buildSearchBlob produces the lowercased, whitespace-collapsed match target
// for substring search over text, option texts, tags, and taxonomy ids.
func buildSearchBlob(q *model.QuestionModel) string {
	parts := []string{q.QuestionText}
	for _, opt := range q.QuestionOptions {
		parts = append(parts, opt.Text)
	}
	parts = append(parts, q.QuestionTags...)
	if q.QuestionSubjectID != nil {
		parts = append(parts, *q.QuestionSubjectID)
	}
	parts = append(parts, q.QuestionTopicIDs...)
	parts = append(parts, q.QuestionTargetExamIDs...)
	return strings.Join(strings.Fields(strings.ToLower(strings.Join(parts, " "))), " ")
}

// SearchTerms splits a raw query into lowercased terms for scoring.
func SearchTerms(raw string) []string {
	return strings.Fields(strings.ToLower(raw))
}

// =======================
// Create / Update
// =======================

func (s *QuestionService) CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest) (*model.QuestionModel, error) {
	now := s.now()
	q := &model.QuestionModel{
		QuestionID:            "q_" + uuid.NewString(),
		QuestionText:          req.Text,
		QuestionType:          req.Type,
		QuestionOptions:       optionsFromRequest(req.Options),
		QuestionAnswerKey:     answerKeyFromRequest(req.AnswerKey),
		QuestionSolution:      solutionFromRequest(req.Solution),
		QuestionDifficulty:    req.Difficulty,
		QuestionTags:          req.Tags,
		QuestionLanguage:      "en",
		QuestionTopicIDs:      []string{},
		QuestionTargetExamIDs: []string{},
		QuestionStatus:        model.UsageStatusDraft,
		QuestionIsActive:      true,
		QuestionVisibility:    model.VisibilityPublic,
		QuestionVersion:       1,
		QuestionSchemaVersion: model.SchemaVersionV2,
		QuestionRandKey:       s.randF(),
		QuestionCreatedAt:     now,
		QuestionUpdatedAt:     now,
	}
	if req.Language != "" {
		q.QuestionLanguage = req.Language
	}
	if req.Taxonomy != nil {
		q.QuestionSubjectID = req.Taxonomy.SubjectID
		if req.Taxonomy.TopicIDs != nil {
			q.QuestionTopicIDs = req.Taxonomy.TopicIDs
		}
		if req.Taxonomy.TargetExamIDs != nil {
			q.QuestionTargetExamIDs = req.Taxonomy.TargetExamIDs
		}
	}
	if req.Usage != nil {
		applyUsagePatch(q, req.Usage)
	}
	if req.Meta != nil {
		applyMetaPatch(&q.QuestionMeta, req.Meta)
	}
	if err := validateDocument(q); err != nil {
		return nil, err
	}
	q.QuestionSearchBlob = buildSearchBlob(q)
	if err := s.store.Insert(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, req *dto.UpdateQuestionRequest) (*model.QuestionModel, error) {
	q, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, helper.NotFoundf("Question not found: %s", id)
	}

	blobDirty := false
	if req.Text != nil {
		q.QuestionText = *req.Text
		blobDirty = true
	}
	if req.Type != nil {
		q.QuestionType = *req.Type
	}
	if req.Options != nil {
		q.QuestionOptions = optionsFromRequest(req.Options)
		blobDirty = true
	}
	if req.AnswerKey != nil {
		q.QuestionAnswerKey = answerKeyFromRequest(req.AnswerKey)
	}
	if req.Solution != nil {
		q.QuestionSolution = solutionFromRequest(req.Solution)
	}
	if req.Difficulty != nil {
		q.QuestionDifficulty = *req.Difficulty
	}
	if req.Tags != nil {
		q.QuestionTags = req.Tags
		blobDirty = true
	}
	if req.Language != nil {
		q.QuestionLanguage = *req.Language
	}
	if req.Taxonomy != nil {
		if req.Taxonomy.SubjectID != nil {
			q.QuestionSubjectID = req.Taxonomy.SubjectID
		}
		if req.Taxonomy.TopicIDs != nil {
			q.QuestionTopicIDs = req.Taxonomy.TopicIDs
		}
		if req.Taxonomy.TargetExamIDs != nil {
			q.QuestionTargetExamIDs = req.Taxonomy.TargetExamIDs
		}
		blobDirty = true
	}
	if req.Usage != nil {
		applyUsagePatch(q, req.Usage)
	}
	if req.Meta != nil {
		applyMetaPatch(&q.QuestionMeta, req.Meta)
	}

	if err := validateDocument(q); err != nil {
		return nil, err
	}
	if blobDirty {
		q.QuestionSearchBlob = buildSearchBlob(q)
	}
	q.QuestionVersion++
	q.QuestionUpdatedAt = s.now()
	if err := s.store.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	q, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return helper.NotFoundf("Question not found: %s", id)
	}
	return s.store.Delete(ctx, id)
}

// =======================
// Reads
// =======================

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*model.QuestionModel, error) {
	q, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, helper.NotFoundf("Question not found: %s", id)
	}
	return q, nil
}

func (s *QuestionService) DiscoverQuestions(ctx context.Context, req *dto.DiscoverQuestionsRequest) ([]model.QuestionModel, int64, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DiscoverDefaultLimit
	}
	if limit > DiscoverMaxLimit {
		limit = DiscoverMaxLimit
	}
	skip := req.Skip
	if skip < 0 {
		skip = 0
	}

	sort := SortSpec{By: "created_at", Desc: true}
	if req.SortBy != "" {
		col, ok := allowedSortFields[req.SortBy]
		if !ok {
			return nil, 0, helper.Validationf("Unsupported sort field: %s", req.SortBy)
		}
		sort.By = col
		sort.Desc = req.SortOrder != "asc"
	}

	terms := SearchTerms(req.Search)
	if len(terms) > 0 {
		// relevance ranking overrides explicit sort
		sort = SortSpec{By: "created_at", Desc: true}
	}

	f := filterFromDiscover(req)
	return s.store.FindMany(ctx, f, terms, sort, skip, limit)
}

func (s *QuestionService) SampleQuestions(ctx context.Context, req *dto.SampleQuestionsRequest) ([]model.QuestionModel, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 1
	}
	if limit > SampleMaxLimit {
		limit = SampleMaxLimit
	}
	point := s.randF()
	if req.Seed != "" {
		point = helper.SeedFraction(req.Seed)
	}
	f := QuestionFilter{
		SubjectID:     req.SubjectID,
		TopicIDs:      req.TopicIDs,
		TargetExamIDs: req.TargetExamIDs,
		DifficultyMin: req.DifficultyMin,
		DifficultyMax: req.DifficultyMax,
		Tags:          req.Tags,
		Status:        string(model.UsageStatusPublished),
		IsActive:      boolPtr(true),
	}
	return s.store.Sample(ctx, f, limit, point)
}

// FetchAll resolves the given ids and reports every missing one in a single
// error so callers can fix the whole batch at once.
func (s *QuestionService) FetchAll(ctx context.Context, ids []string) (map[string]*model.QuestionModel, error) {
	docs, err := s.store.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.QuestionModel, len(docs))
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

// =======================
// Patch helpers
// =======================

func optionsFromRequest(in []dto.OptionRequest) []model.Option {
	out := make([]model.Option, 0, len(in))
	for _, o := range in {
		out = append(out, model.Option{ID: o.ID, Text: o.Text})
	}
	return out
}

func answerKeyFromRequest(in *dto.AnswerKeyRequest) *model.AnswerKey {
	if in == nil {
		return nil
	}
	return &model.AnswerKey{
		Type:      in.Type,
		OptionID:  in.OptionID,
		OptionIDs: in.OptionIDs,
		Value:     in.Value,
	}
}

func solutionFromRequest(in *dto.SolutionRequest) *model.Solution {
	if in == nil {
		return nil
	}
	return &model.Solution{
		Explanation: in.Explanation,
		Steps:       in.Steps,
		References:  in.References,
	}
}

func applyUsagePatch(q *model.QuestionModel, patch *dto.UsageRequest) {
	if patch.Status != nil {
		q.QuestionStatus = *patch.Status
	}
	if patch.IsActive != nil {
		q.QuestionIsActive = *patch.IsActive
	}
	if patch.Visibility != nil {
		q.QuestionVisibility = *patch.Visibility
	}
}

func applyMetaPatch(meta *model.Meta, patch *dto.MetaRequest) {
	if patch.EstimatedTimeSec != nil {
		meta.EstimatedTimeSec = patch.EstimatedTimeSec
	}
	if patch.Source != nil {
		meta.Source = patch.Source
	}
	if patch.CreatedBy != nil {
		meta.CreatedBy = patch.CreatedBy
	}
}

// filterFromDiscover maps a discover request to the store filter. Discovery
// is scoped to live content unless the caller asks otherwise: status falls
// back to published and is_active to true.
func filterFromDiscover(req *dto.DiscoverQuestionsRequest) QuestionFilter {
	f := QuestionFilter{
		SubjectID:     req.SubjectID,
		TopicIDs:      req.TopicIDs,
		TargetExamIDs: req.TargetExamIDs,
		DifficultyMin: req.DifficultyMin,
		DifficultyMax: req.DifficultyMax,
		Tags:          req.Tags,
		Status:        req.Status,
		IsActive:      req.IsActive,
	}
	if f.Status == "" {
		f.Status = string(model.UsageStatusPublished)
	}
	if f.IsActive == nil {
		f.IsActive = boolPtr(true)
	}
	return f
}

func boolPtr(b bool) *bool { return &b }
