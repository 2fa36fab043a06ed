package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// MaxAttemptNumber returns the highest attempt number recorded for the
// (student, quiz) pair, or 0 when none exists.
func (r *AttemptRepository) MaxAttemptNumber(tx *gorm.DB, studentID, quizID uint) (int, error) {
	var max int
	err := tx.Model(&model.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&max).Error
	return max, err
}

func (r *AttemptRepository) Create(tx *gorm.DB, attempt *model.QuizAttempt) error {
	return tx.Create(attempt).Error
}

func (r *AttemptRepository) ListByStudentAndQuiz(studentID, quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Order("attempt_number ASC").
		Find(&attempts).Error
	return attempts, err
}

// PassedQuizIDs filters quizIDs down to those the student has at least
// one passing attempt for.
func (r *AttemptRepository) PassedQuizIDs(tx *gorm.DB, studentID uint, quizIDs []uint) (map[uint]bool, error) {
	passed := make(map[uint]bool, len(quizIDs))
	if len(quizIDs) == 0 {
		return passed, nil
	}
	var ids []uint
	err := tx.Model(&model.QuizAttempt{}).
		Where("student_id = ? AND quiz_id IN ? AND passed = ?", studentID, quizIDs, true).
		Distinct().
		Pluck("quiz_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		passed[id] = true
	}
	return passed, nil
}
