package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/monitoring"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// attemptRetries bounds how often a grading transaction is replayed
// after losing an attempt-number race.
const attemptRetries = 3

// QuizService is the attempt ledger: it grades submissions, allocates
// attempt numbers and persists immutable attempt rows. It also owns quiz
// authoring, where choice invariants are enforced.
type QuizService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
	UserRepo    *repository.UserRepository
	LessonRepo  *repository.LessonRepository
	CourseRepo  *repository.CourseRepository
	Progress    *ProgressService
	DB          *gorm.DB
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.AttemptRepository,
	userRepo *repository.UserRepository,
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	progress *ProgressService,
	db *gorm.DB,
) *QuizService {
	return &QuizService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		UserRepo:    userRepo,
		LessonRepo:  lessonRepo,
		CourseRepo:  courseRepo,
		Progress:    progress,
		DB:          db,
	}
}

// RecordAttempt grades a submission and appends it to the attempt
// ledger. Attempt numbers per (student, quiz) are allocated inside the
// transaction; a duplicate-key collision with a concurrent submission
// replays the whole transaction. On a passing attempt the enrollment's
// progress is recomputed in the same transaction.
func (s *QuizService) RecordAttempt(studentID, quizID uint, answers map[uint]SubmittedAnswer) (*model.QuizAttempt, error) {
	if _, err := s.UserRepo.FindByID(studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	quiz, err := s.QuizRepo.FindWithQuestions(s.DB, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	score, err := ScoreSubmission(quiz.Questions, answers)
	if err != nil {
		return nil, err
	}
	passed := score >= float64(quiz.PassingScore)

	lesson, err := s.LessonRepo.FindByID(s.DB, quiz.LessonID)
	if err != nil {
		return nil, err
	}

	var attempt *model.QuizAttempt
	for i := 0; i < attemptRetries; i++ {
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			max, err := s.AttemptRepo.MaxAttemptNumber(tx, studentID, quizID)
			if err != nil {
				return err
			}

			attempt = &model.QuizAttempt{
				StudentID:     studentID,
				QuizID:        quizID,
				AttemptNumber: max + 1,
				Score:         score,
				Passed:        passed,
			}
			if err := s.AttemptRepo.Create(tx, attempt); err != nil {
				return err
			}

			if passed {
				return s.Progress.RecomputeForStudentCourse(tx, studentID, lesson.CourseID)
			}
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, util.ErrConflict
	}
	if err != nil {
		return nil, err
	}

	result := "failed"
	if passed {
		result = "passed"
	}
	monitoring.QuizAttemptsRecorded.WithLabelValues(result).Inc()

	return attempt, nil
}

// ListAttempts returns the student's attempt history for a quiz, oldest
// first.
func (s *QuizService) ListAttempts(studentID, quizID uint) ([]model.QuizAttempt, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return s.AttemptRepo.ListByStudentAndQuiz(studentID, quizID)
}

// GetQuizForStudent loads a quiz with questions and choices, with the
// correct-answer flags stripped.
func (s *QuizService) GetQuizForStudent(quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindWithQuestions(s.DB, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	for i := range quiz.Questions {
		for j := range quiz.Questions[i].Choices {
			quiz.Questions[i].Choices[j].IsCorrect = false
		}
	}
	return quiz, nil
}

type QuestionRequest struct {
	Text    string          `json:"text" binding:"required"`
	Type    string          `json:"type" binding:"required,oneof=mcq text"`
	Order   int             `json:"order"`
	Choices []ChoiceRequest `json:"choices"`
}

type ChoiceRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuizCreateRequest struct {
	Title        string            `json:"title" binding:"required"`
	Description  string            `json:"description"`
	PassingScore int               `json:"passingScore" binding:"min=0,max=100"`
	Questions    []QuestionRequest `json:"questions"`
}

// ownedLesson loads a lesson and checks its course belongs to the
// instructor.
func (s *QuizService) ownedLesson(instructorID, lessonID uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(s.DB, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	course, err := s.CourseRepo.FindByID(s.DB, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, util.ErrPermissionDenied
	}
	return lesson, nil
}

// CreateQuiz persists a quiz with its question set. Choice invariants
// (exactly one correct choice per multiple-choice question) are
// validated here, at authoring time, so grading never meets a malformed
// question.
func (s *QuizService) CreateQuiz(instructorID, lessonID uint, req QuizCreateRequest) (*model.Quiz, error) {
	if _, err := s.ownedLesson(instructorID, lessonID); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		LessonID:     lessonID,
		Title:        req.Title,
		Description:  req.Description,
		PassingScore: req.PassingScore,
	}
	for idx, q := range req.Questions {
		question, err := buildQuestion(q, idx)
		if err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, *question)
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

type QuizUpdateRequest struct {
	Title        *string `json:"title" binding:"omitempty,max=200"`
	Description  *string `json:"description"`
	PassingScore *int    `json:"passingScore" binding:"omitempty,min=0,max=100"`
}

// UpdateQuiz edits quiz metadata. A changed passing score applies to
// future attempts only; recorded attempts keep their pass flag.
func (s *QuizService) UpdateQuiz(instructorID, quizID uint, req QuizUpdateRequest) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if _, err := s.ownedLesson(instructorID, quiz.LessonID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// DeleteQuiz removes a quiz. Attempt rows are kept as history.
func (s *QuizService) DeleteQuiz(instructorID, quizID uint) error {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	if _, err := s.ownedLesson(instructorID, quiz.LessonID); err != nil {
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

// AddQuestion appends a validated question to an existing quiz.
func (s *QuizService) AddQuestion(instructorID, quizID uint, req QuestionRequest) (*model.Question, error) {
	quiz, err := s.QuizRepo.FindWithQuestions(s.DB, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if _, err := s.ownedLesson(instructorID, quiz.LessonID); err != nil {
		return nil, err
	}

	question, err := buildQuestion(req, len(quiz.Questions))
	if err != nil {
		return nil, err
	}
	question.QuizID = quizID

	if err := s.QuizRepo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes a question and its choices.
func (s *QuizService) DeleteQuestion(instructorID, questionID uint) error {
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}

	quiz, err := s.QuizRepo.FindByID(question.QuizID)
	if err != nil {
		return err
	}
	if _, err := s.ownedLesson(instructorID, quiz.LessonID); err != nil {
		return err
	}

	return s.QuizRepo.DeleteQuestion(questionID)
}

func buildQuestion(req QuestionRequest, index int) (*model.Question, error) {
	questionType := model.QuestionType(req.Type)

	choices := make([]model.AnswerChoice, 0, len(req.Choices))
	for _, c := range req.Choices {
		choices = append(choices, model.AnswerChoice{Text: c.Text, IsCorrect: c.IsCorrect})
	}

	if err := ValidateQuestionChoices(questionType, choices); err != nil {
		return nil, fmt.Errorf("question %d: %w", index+1, err)
	}

	order := req.Order
	if order == 0 {
		order = index + 1
	}

	return &model.Question{
		Text:    req.Text,
		Type:    questionType,
		Order:   order,
		Choices: choices,
	}, nil
}
