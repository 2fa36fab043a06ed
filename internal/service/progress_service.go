package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ProgressService derives an enrollment's completion percentage from
// lesson and quiz activity. Progress is monotonic: recomputation can
// only move it forward, and a completed enrollment never un-completes.
type ProgressService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	LessonRepo     *repository.LessonRepository
	AttemptRepo    *repository.AttemptRepository
	Certificates   *CertificateService
	Notifier       Notifier
	DB             *gorm.DB

	Now func() time.Time
}

func NewProgressService(
	enrollmentRepo *repository.EnrollmentRepository,
	lessonRepo *repository.LessonRepository,
	attemptRepo *repository.AttemptRepository,
	certificates *CertificateService,
	notifier Notifier,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		EnrollmentRepo: enrollmentRepo,
		LessonRepo:     lessonRepo,
		AttemptRepo:    attemptRepo,
		Certificates:   certificates,
		Notifier:       notifier,
		DB:             db,
		Now:            time.Now,
	}
}

// Recompute reevaluates one enrollment on demand (admin recompute or
// course-content changes).
func (s *ProgressService) Recompute(enrollmentID uint) (*model.Enrollment, error) {
	var result *model.Enrollment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		enrollment, err := s.EnrollmentRepo.FindByID(tx, enrollmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrEnrollmentNotFound
			}
			return err
		}
		result, err = s.recompute(tx, enrollment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecomputeForStudentCourse is the quiz-pass hook, running inside the
// attempt ledger's transaction. A student attempting a quiz without an
// enrollment has no progress to track, so that case is a no-op.
func (s *ProgressService) RecomputeForStudentCourse(tx *gorm.DB, studentID, courseID uint) error {
	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(tx, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	_, err = s.recompute(tx, enrollment)
	return err
}

// MarkLessonCompleted records explicit consumption of a lesson and
// recomputes the enrollment. Idempotent: completing the same lesson
// twice is absorbed by the (student, lesson) unique index.
func (s *ProgressService) MarkLessonCompleted(studentID, lessonID uint) (*model.Enrollment, error) {
	var result *model.Enrollment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		lesson, err := s.LessonRepo.FindByID(tx, lessonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrLessonNotFound
			}
			return err
		}

		enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(tx, studentID, lesson.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrEnrollmentNotFound
			}
			return err
		}

		completion := &model.LessonCompletion{StudentID: studentID, LessonID: lessonID}
		if err := s.LessonRepo.CreateCompletion(tx, completion); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		result, err = s.recompute(tx, enrollment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recompute applies the progress formula inside tx. A lesson counts as
// satisfied when it has no quizzes, or when the student holds at least
// one passing attempt for every quiz attached to it.
func (s *ProgressService) recompute(tx *gorm.DB, enrollment *model.Enrollment) (*model.Enrollment, error) {
	// Completed enrollments are pinned at 100; lessons added afterwards
	// do not claw back completion.
	if enrollment.Completed {
		if enrollment.Progress < 100 {
			enrollment.Progress = 100
			if err := s.EnrollmentRepo.Save(tx, enrollment); err != nil {
				return nil, err
			}
		}
		return enrollment, nil
	}

	lessons, err := s.LessonRepo.ListByCourse(tx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return enrollment, nil
	}

	var quizIDs []uint
	for i := range lessons {
		for j := range lessons[i].Quizzes {
			quizIDs = append(quizIDs, lessons[i].Quizzes[j].ID)
		}
	}

	passed, err := s.AttemptRepo.PassedQuizIDs(tx, enrollment.StudentID, quizIDs)
	if err != nil {
		return nil, err
	}

	satisfied := 0
	for i := range lessons {
		if lessonSatisfied(&lessons[i], passed) {
			satisfied++
		}
	}

	computed := Round2(float64(satisfied) / float64(len(lessons)) * 100)
	if computed <= enrollment.Progress {
		return enrollment, nil
	}

	enrollment.Progress = computed
	if computed >= 100 {
		now := s.Now()
		enrollment.Completed = true
		enrollment.CompletedAt = &now
	}
	if err := s.EnrollmentRepo.Save(tx, enrollment); err != nil {
		return nil, err
	}

	if enrollment.Completed {
		if _, err := s.Certificates.issue(tx, enrollment); err != nil {
			return nil, err
		}
		s.Notifier.EnrollmentCompleted(enrollment)
	}

	return enrollment, nil
}

func lessonSatisfied(lesson *model.Lesson, passed map[uint]bool) bool {
	if len(lesson.Quizzes) == 0 {
		return true
	}
	for i := range lesson.Quizzes {
		if !passed[lesson.Quizzes[i].ID] {
			return false
		}
	}
	return true
}
