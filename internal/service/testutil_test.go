package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB opens a private in-memory database with the full schema.
// The pool is pinned to one connection so every query sees the same
// memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Course{},
		&model.Lesson{},
		&model.LessonCompletion{},
		&model.Quiz{},
		&model.Question{},
		&model.AnswerChoice{},
		&model.Enrollment{},
		&model.QuizAttempt{},
		&model.Certificate{},
		&model.Review{},
	))

	return db
}

type testEnv struct {
	db *gorm.DB

	users       *repository.UserRepository
	courses     *repository.CourseRepository
	lessons     *repository.LessonRepository
	quizzes     *repository.QuizRepository
	enrollments *repository.EnrollmentRepository
	attempts    *repository.AttemptRepository
	certs       *repository.CertificateRepository
	reviews     *repository.ReviewRepository

	certificates *CertificateService
	progress     *ProgressService
	quizSvc      *QuizService
	enrollSvc    *EnrollmentService
	reviewSvc    *ReviewService
	courseSvc    *CourseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	e := &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		courses:     repository.NewCourseRepository(db),
		lessons:     repository.NewLessonRepository(db),
		quizzes:     repository.NewQuizRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		attempts:    repository.NewAttemptRepository(db),
		certs:       repository.NewCertificateRepository(db),
		reviews:     repository.NewReviewRepository(db),
	}

	notifier := LogNotifier{}
	e.certificates = NewCertificateService(e.certs, e.enrollments, notifier, db)
	e.progress = NewProgressService(e.enrollments, e.lessons, e.attempts, e.certificates, notifier, db)
	e.quizSvc = NewQuizService(e.quizzes, e.attempts, e.users, e.lessons, e.courses, e.progress, db)
	e.enrollSvc = NewEnrollmentService(e.enrollments, e.courses, e.certs, notifier, db)
	e.reviewSvc = NewReviewService(e.reviews, e.courses, e.users, db)
	// nil Redis client; the course cache is skipped in tests
	e.courseSvc = NewCourseService(e.courses, e.lessons, nil, db)

	return e
}

func (e *testEnv) createUser(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createCourse(t *testing.T, instructorID uint, slug string, published bool) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:        slug,
		Slug:         slug,
		InstructorID: instructorID,
		IsPublished:  published,
	}
	require.NoError(t, e.db.Create(course).Error)
	return course
}

func (e *testEnv) createLesson(t *testing.T, courseID uint, slug string, order int) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{
		CourseID: courseID,
		Title:    slug,
		Slug:     slug,
		Order:    order,
	}
	require.NoError(t, e.db.Create(lesson).Error)
	return lesson
}

// createMCQQuiz attaches a quiz holding questionCount multiple-choice
// questions; each question gets a correct and a wrong choice.
func (e *testEnv) createMCQQuiz(t *testing.T, lessonID uint, passingScore int, questionCount int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		LessonID:     lessonID,
		Title:        "quiz",
		PassingScore: passingScore,
	}
	for i := 0; i < questionCount; i++ {
		quiz.Questions = append(quiz.Questions, model.Question{
			Text:  "q",
			Type:  model.MultipleChoice,
			Order: i + 1,
			Choices: []model.AnswerChoice{
				{Text: "right", IsCorrect: true},
				{Text: "wrong"},
			},
		})
	}
	require.NoError(t, e.db.Create(quiz).Error)
	return quiz
}

// correctAnswers builds a full-marks submission for a quiz created by
// createMCQQuiz.
func correctAnswers(quiz *model.Quiz) map[uint]SubmittedAnswer {
	answers := make(map[uint]SubmittedAnswer, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		for j := range q.Choices {
			if q.Choices[j].IsCorrect {
				answers[q.ID] = SubmittedAnswer{ChoiceID: q.Choices[j].ID}
			}
		}
	}
	return answers
}

func (e *testEnv) enroll(t *testing.T, studentID, courseID uint) *model.Enrollment {
	t.Helper()
	enrollment := &model.Enrollment{StudentID: studentID, CourseID: courseID}
	require.NoError(t, e.db.Create(enrollment).Error)
	return enrollment
}

func fixedTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}
