package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"qbank_backend/internals/features/questions/model"
)

func strPtr(s string) *string { return &s }

func TestUpgradeLegacyMCQ(t *testing.T) {
	q := model.QuestionModel{
		QuestionSchemaVersion: 1,
		LegacyType:            strPtr("MCQ"),
		LegacyCorrectOptionID: strPtr("b"),
		LegacySolutionText:    strPtr("Use F = ma."),
	}
	UpgradeLegacy(&q)

	require.Equal(t, model.QuestionTypeSingleChoice, q.QuestionType)
	require.NotNil(t, q.QuestionAnswerKey)
	require.Equal(t, model.AnswerKeySingle, q.QuestionAnswerKey.Type)
	require.Equal(t, "b", q.QuestionAnswerKey.OptionID)
	require.NotNil(t, q.QuestionSolution)
	require.Equal(t, "Use F = ma.", q.QuestionSolution.Explanation)
}

func TestUpgradeLegacyMSQ(t *testing.T) {
	q := model.QuestionModel{
		QuestionSchemaVersion:  1,
		LegacyType:             strPtr("MSQ"),
		LegacyCorrectOptionIDs: []string{"a", "c"},
	}
	UpgradeLegacy(&q)

	require.Equal(t, model.QuestionTypeMultiChoice, q.QuestionType)
	require.Equal(t, model.AnswerKeyMulti, q.QuestionAnswerKey.Type)
	require.Equal(t, []string{"a", "c"}, []string(q.QuestionAnswerKey.OptionIDs))
}

func TestUpgradeLegacyNAT(t *testing.T) {
	q := model.QuestionModel{
		QuestionSchemaVersion: 1,
		LegacyType:            strPtr("NAT"),
		LegacyAnswerValue:     strPtr("9.8"),
	}
	UpgradeLegacy(&q)

	require.Equal(t, model.QuestionTypeInteger, q.QuestionType)
	require.Equal(t, model.AnswerKeyValue, q.QuestionAnswerKey.Type)
	require.Equal(t, "9.8", q.QuestionAnswerKey.Value)
}

func TestUpgradeLegacySkipsCurrentSchema(t *testing.T) {
	q := model.QuestionModel{
		QuestionSchemaVersion: model.SchemaVersionV2,
		QuestionType:          model.QuestionTypeSingleChoice,
		QuestionAnswerKey:     &model.AnswerKey{Type: model.AnswerKeySingle, OptionID: "a"},
		LegacyType:            strPtr("NAT"),
		LegacyAnswerValue:     strPtr("7"),
	}
	UpgradeLegacy(&q)

	require.Equal(t, model.QuestionTypeSingleChoice, q.QuestionType)
	require.Equal(t, "a", q.QuestionAnswerKey.OptionID)
}

func TestUpgradeLegacyKeepsExistingSolution(t *testing.T) {
	q := model.QuestionModel{
		QuestionSchemaVersion: 1,
		LegacyType:            strPtr("MCQ"),
		LegacyCorrectOptionID: strPtr("a"),
		QuestionSolution:      &model.Solution{Explanation: "Edited after import."},
		LegacySolutionText:    strPtr("Original import text."),
	}
	UpgradeLegacy(&q)

	require.Equal(t, "Edited after import.", q.QuestionSolution.Explanation)
}

func TestSearchScoreCountsMatchedTerms(t *testing.T) {
	blob := "what is the si unit of force newton joule units subject_physics"
	require.Equal(t, 2, SearchScore(blob, []string{"force", "newton"}))
	require.Equal(t, 1, SearchScore(blob, []string{"force", "entropy"}))
	require.Equal(t, 0, SearchScore(blob, []string{"entropy"}))
	require.Equal(t, 0, SearchScore(blob, nil))
}
