package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"fmt"
	"math"
)

// SubmittedAnswer carries one answer from a quiz submission: a choice id
// for multiple-choice questions, free text otherwise.
type SubmittedAnswer struct {
	ChoiceID uint   `json:"choiceId,omitempty"`
	Text     string `json:"text,omitempty"`
}

// ScoreSubmission grades a submission against the quiz's question set and
// returns the percentage of auto-gradable (multiple-choice) questions
// answered correctly, rounded to two decimal places. Free-text questions
// carry no weight here; a quiz made up entirely of free-text questions
// has no automated score and is reported as ErrManualGradingRequired.
// Pure: no side effects, deterministic for identical inputs.
func ScoreSubmission(questions []model.Question, answers map[uint]SubmittedAnswer) (float64, error) {
	known := make(map[uint]*model.Question, len(questions))
	gradable := 0
	for i := range questions {
		q := &questions[i]
		known[q.ID] = q
		if q.Type == model.MultipleChoice {
			gradable++
		}
	}

	for questionID := range answers {
		if _, ok := known[questionID]; !ok {
			return 0, fmt.Errorf("%w: unknown question id %d", util.ErrInvalidSubmission, questionID)
		}
	}

	if gradable == 0 {
		return 0, util.ErrManualGradingRequired
	}

	correct := 0
	for i := range questions {
		q := &questions[i]
		if q.Type != model.MultipleChoice {
			continue
		}
		correctChoice, err := correctChoiceOf(q)
		if err != nil {
			return 0, err
		}
		if answer, ok := answers[q.ID]; ok && answer.ChoiceID == correctChoice.ID {
			correct++
		}
	}

	return Round2(float64(correct) / float64(gradable) * 100), nil
}

// correctChoiceOf returns the single choice flagged correct. Zero or
// multiple correct choices means the quiz escaped authoring validation.
func correctChoiceOf(q *model.Question) (*model.AnswerChoice, error) {
	var found *model.AnswerChoice
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			if found != nil {
				return nil, fmt.Errorf("%w: question %d has multiple correct choices", util.ErrIntegrityViolation, q.ID)
			}
			found = &q.Choices[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: question %d has no correct choice", util.ErrIntegrityViolation, q.ID)
	}
	return found, nil
}

// ValidateQuestionChoices enforces authoring invariants: a
// multiple-choice question needs at least two choices with exactly one
// flagged correct; a free-text question carries no choices.
func ValidateQuestionChoices(questionType model.QuestionType, choices []model.AnswerChoice) error {
	switch questionType {
	case model.MultipleChoice:
		if len(choices) < 2 {
			return fmt.Errorf("%w: multiple-choice question needs at least two choices", util.ErrIntegrityViolation)
		}
		correct := 0
		for i := range choices {
			if choices[i].IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("%w: multiple-choice question must have exactly one correct choice, got %d", util.ErrIntegrityViolation, correct)
		}
	case model.FreeText:
		if len(choices) > 0 {
			return fmt.Errorf("%w: free-text question cannot have answer choices", util.ErrIntegrityViolation)
		}
	default:
		return fmt.Errorf("%w: unknown question type %q", util.ErrIntegrityViolation, questionType)
	}
	return nil
}

// Round2 applies standard rounding to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 applies standard rounding to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
