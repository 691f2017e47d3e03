package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"qbank_backend/internals/features/instructions/dto"
	"qbank_backend/internals/features/instructions/model"
	helper "qbank_backend/internals/helpers"
)

type memStore struct {
	byTest map[string]model.TestInstructionsModel
}

func newMemStore() *memStore {
	return &memStore{byTest: map[string]model.TestInstructionsModel{}}
}

func (s *memStore) Insert(_ context.Context, m *model.TestInstructionsModel) error {
	s.byTest[m.InstructionTestID] = *m
	return nil
}

func (s *memStore) Update(_ context.Context, m *model.TestInstructionsModel) error {
	s.byTest[m.InstructionTestID] = *m
	return nil
}

func (s *memStore) FindByTestID(_ context.Context, testID string) (*model.TestInstructionsModel, error) {
	m, ok := s.byTest[testID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *memStore) DeleteByTestID(_ context.Context, testID string) error {
	delete(s.byTest, testID)
	return nil
}

type memTestSource map[string]bool

func (s memTestSource) TestExists(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

func newSvc() (*TestInstructionsService, *memStore) {
	store := newMemStore()
	return NewTestInstructionsService(store, memTestSource{"test_1": true}), store
}

func TestUpsertRequiresExistingTest(t *testing.T) {
	svc, _ := newSvc()
	_, err := svc.UpsertInstructions(context.Background(), "test_ghost", &dto.UpsertInstructionsRequest{})
	require.Error(t, err)
	require.Equal(t, helper.ErrNotFound, helper.KindOf(err))
}

func TestUpsertCreatesThenReplaces(t *testing.T) {
	svc, _ := newSvc()

	first, err := svc.UpsertInstructions(context.Background(), "test_1", &dto.UpsertInstructionsRequest{
		GeneralInstructions: []string{"Read every question carefully."},
		SectionInstructions: []model.SectionInstruction{
			{SectionID: "sec_phy", Items: []string{"25 questions, attempt all."}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "instr_", first.InstructionID[:6])

	second, err := svc.UpsertInstructions(context.Background(), "test_1", &dto.UpsertInstructionsRequest{
		GeneralInstructions: []string{"Calculators are not permitted."},
	})
	require.NoError(t, err)

	// replacement keeps identity and creation time, swaps the content
	require.Equal(t, first.InstructionID, second.InstructionID)
	require.Equal(t, first.InstructionCreatedAt, second.InstructionCreatedAt)
	require.Equal(t, []string{"Calculators are not permitted."}, []string(second.GeneralInstructions))
	require.Empty(t, second.SectionInstructions)
}

func TestGetAndDeleteInstructions(t *testing.T) {
	svc, store := newSvc()

	_, err := svc.GetInstructions(context.Background(), "test_1")
	require.Error(t, err)
	require.Equal(t, helper.ErrNotFound, helper.KindOf(err))

	_, err = svc.UpsertInstructions(context.Background(), "test_1", &dto.UpsertInstructionsRequest{
		ImportantNotes: []string{"Negative marking applies."},
	})
	require.NoError(t, err)

	got, err := svc.GetInstructions(context.Background(), "test_1")
	require.NoError(t, err)
	require.Equal(t, []string{"Negative marking applies."}, []string(got.ImportantNotes))

	require.NoError(t, svc.DeleteInstructions(context.Background(), "test_1"))
	_, ok := store.byTest["test_1"]
	require.False(t, ok)

	err = svc.DeleteInstructions(context.Background(), "test_1")
	require.Equal(t, helper.ErrNotFound, helper.KindOf(err))
}
