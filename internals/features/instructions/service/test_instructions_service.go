package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"qbank_backend/internals/features/instructions/dto"
	"qbank_backend/internals/features/instructions/model"
	helper "qbank_backend/internals/helpers"
)

type Store interface {
	Insert(ctx context.Context, m *model.TestInstructionsModel) error
	Update(ctx context.Context, m *model.TestInstructionsModel) error
	FindByTestID(ctx context.Context, testID string) (*model.TestInstructionsModel, error)
	DeleteByTestID(ctx context.Context, testID string) error
}

type TestSource interface {
	TestExists(ctx context.Context, id string) (bool, error)
}

type TestInstructionsService struct {
	store Store
	tests TestSource
	now   func() time.Time
}

func NewTestInstructionsService(store Store, tests TestSource) *TestInstructionsService {
	return &TestInstructionsService{store: store, tests: tests, now: time.Now}
}

// UpsertInstructions replaces the instruction sheet for a test. An existing
// sheet keeps its id and creation time.
func (s *TestInstructionsService) UpsertInstructions(ctx context.Context, testID string, req *dto.UpsertInstructionsRequest) (*model.TestInstructionsModel, error) {
	ok, err := s.tests.TestExists(ctx, testID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, helper.NotFoundf("Test not found: %s", testID)
	}

	now := s.now()
	existing, err := s.store.FindByTestID(ctx, testID)
	if err != nil {
		return nil, err
	}

	m := &model.TestInstructionsModel{
		InstructionID:        "instr_" + uuid.NewString(),
		InstructionTestID:    testID,
		GeneralInstructions:  req.GeneralInstructions,
		SectionInstructions:  req.SectionInstructions,
		ImportantNotes:       req.ImportantNotes,
		InstructionCreatedAt: now,
		InstructionUpdatedAt: now,
	}
	if existing != nil {
		m.InstructionID = existing.InstructionID
		m.InstructionCreatedAt = existing.InstructionCreatedAt
		if err := s.store.Update(ctx, m); err != nil {
			return nil, err
		}
		return m, nil
	}
	if err := s.store.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TestInstructionsService) GetInstructions(ctx context.Context, testID string) (*model.TestInstructionsModel, error) {
	m, err := s.store.FindByTestID(ctx, testID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, helper.NotFoundf("Instructions not found for test: %s", testID)
	}
	return m, nil
}

func (s *TestInstructionsService) DeleteInstructions(ctx context.Context, testID string) error {
	if _, err := s.GetInstructions(ctx, testID); err != nil {
		return err
	}
	return s.store.DeleteByTestID(ctx, testID)
}
