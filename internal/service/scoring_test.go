package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcq(id uint, correctChoiceID uint, wrongChoiceID uint) model.Question {
	return model.Question{
		BaseModel: model.BaseModel{ID: id},
		Text:      "q",
		Type:      model.MultipleChoice,
		Choices: []model.AnswerChoice{
			{BaseModel: model.BaseModel{ID: correctChoiceID}, Text: "right", IsCorrect: true},
			{BaseModel: model.BaseModel{ID: wrongChoiceID}, Text: "wrong"},
		},
	}
}

func freeText(id uint) model.Question {
	return model.Question{
		BaseModel: model.BaseModel{ID: id},
		Text:      "essay",
		Type:      model.FreeText,
	}
}

func TestScoreSubmission_AllCorrect(t *testing.T) {
	questions := []model.Question{mcq(1, 11, 12), mcq(2, 21, 22)}

	score, err := ScoreSubmission(questions, map[uint]SubmittedAnswer{
		1: {ChoiceID: 11},
		2: {ChoiceID: 21},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, score)
}

func TestScoreSubmission_PartialAndRounding(t *testing.T) {
	questions := []model.Question{mcq(1, 11, 12), mcq(2, 21, 22), mcq(3, 31, 32)}

	// one of three correct: 33.333... rounds to 33.33
	score, err := ScoreSubmission(questions, map[uint]SubmittedAnswer{
		1: {ChoiceID: 11},
		2: {ChoiceID: 22},
	})
	require.NoError(t, err)
	assert.Equal(t, 33.33, score)

	// two of three: 66.666... rounds to 66.67
	score, err = ScoreSubmission(questions, map[uint]SubmittedAnswer{
		1: {ChoiceID: 11},
		2: {ChoiceID: 21},
	})
	require.NoError(t, err)
	assert.Equal(t, 66.67, score)
}

func TestScoreSubmission_MissingAnswersCountWrong(t *testing.T) {
	questions := []model.Question{mcq(1, 11, 12), mcq(2, 21, 22)}

	score, err := ScoreSubmission(questions, map[uint]SubmittedAnswer{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestScoreSubmission_FreeTextCarriesNoWeight(t *testing.T) {
	questions := []model.Question{mcq(1, 11, 12), freeText(2)}

	score, err := ScoreSubmission(questions, map[uint]SubmittedAnswer{
		1: {ChoiceID: 11},
		2: {Text: "an essay"},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, score)
}

func TestScoreSubmission_AllFreeTextNeedsManualGrading(t *testing.T) {
	questions := []model.Question{freeText(1), freeText(2)}

	_, err := ScoreSubmission(questions, map[uint]SubmittedAnswer{
		1: {Text: "a"},
	})
	assert.ErrorIs(t, err, util.ErrManualGradingRequired)
}

func TestScoreSubmission_UnknownQuestionRejected(t *testing.T) {
	questions := []model.Question{mcq(1, 11, 12)}

	_, err := ScoreSubmission(questions, map[uint]SubmittedAnswer{
		99: {ChoiceID: 11},
	})
	assert.ErrorIs(t, err, util.ErrInvalidSubmission)
}

func TestScoreSubmission_MalformedQuestionIsIntegrityViolation(t *testing.T) {
	noCorrect := model.Question{
		BaseModel: model.BaseModel{ID: 1},
		Type:      model.MultipleChoice,
		Choices: []model.AnswerChoice{
			{BaseModel: model.BaseModel{ID: 11}, Text: "a"},
			{BaseModel: model.BaseModel{ID: 12}, Text: "b"},
		},
	}

	_, err := ScoreSubmission([]model.Question{noCorrect}, nil)
	assert.ErrorIs(t, err, util.ErrIntegrityViolation)
}

func TestScoreSubmission_Deterministic(t *testing.T) {
	questions := []model.Question{mcq(1, 11, 12), mcq(2, 21, 22), mcq(3, 31, 32)}
	answers := map[uint]SubmittedAnswer{1: {ChoiceID: 11}, 3: {ChoiceID: 31}}

	first, err := ScoreSubmission(questions, answers)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ScoreSubmission(questions, answers)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestValidateQuestionChoices(t *testing.T) {
	ok := []model.AnswerChoice{{Text: "a", IsCorrect: true}, {Text: "b"}}
	assert.NoError(t, ValidateQuestionChoices(model.MultipleChoice, ok))

	tooFew := []model.AnswerChoice{{Text: "a", IsCorrect: true}}
	assert.ErrorIs(t, ValidateQuestionChoices(model.MultipleChoice, tooFew), util.ErrIntegrityViolation)

	twoCorrect := []model.AnswerChoice{{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true}}
	assert.ErrorIs(t, ValidateQuestionChoices(model.MultipleChoice, twoCorrect), util.ErrIntegrityViolation)

	noneCorrect := []model.AnswerChoice{{Text: "a"}, {Text: "b"}}
	assert.ErrorIs(t, ValidateQuestionChoices(model.MultipleChoice, noneCorrect), util.ErrIntegrityViolation)

	assert.NoError(t, ValidateQuestionChoices(model.FreeText, nil))
	assert.ErrorIs(t, ValidateQuestionChoices(model.FreeText, ok), util.ErrIntegrityViolation)

	assert.ErrorIs(t, ValidateQuestionChoices("bogus", nil), util.ErrIntegrityViolation)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 66.67, Round2(66.666666))
	assert.Equal(t, 33.33, Round2(33.333333))
	assert.Equal(t, 4.0, Round1(4.0))
	assert.Equal(t, 3.7, Round1(3.666666))
}
