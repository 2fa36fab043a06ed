package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkLessonCompleted_AdvancesProgress(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	plain := e.createLesson(t, course.ID, "reading", 1)
	gated := e.createLesson(t, course.ID, "checkpoint", 2)
	e.createMCQQuiz(t, gated.ID, 70, 1)
	e.enroll(t, student.ID, course.ID)

	enrollment, err := e.progress.MarkLessonCompleted(student.ID, plain.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, enrollment.Progress)
	assert.False(t, enrollment.Completed)
}

func TestMarkLessonCompleted_Idempotent(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	plain := e.createLesson(t, course.ID, "reading", 1)
	gated := e.createLesson(t, course.ID, "checkpoint", 2)
	e.createMCQQuiz(t, gated.ID, 70, 1)
	e.enroll(t, student.ID, course.ID)

	first, err := e.progress.MarkLessonCompleted(student.ID, plain.ID)
	require.NoError(t, err)
	second, err := e.progress.MarkLessonCompleted(student.ID, plain.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Progress, second.Progress)

	var completions int64
	require.NoError(t, e.db.Model(&model.LessonCompletion{}).Count(&completions).Error)
	assert.EqualValues(t, 1, completions)
}

func TestMarkLessonCompleted_MissingLessonOrEnrollment(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	lesson := e.createLesson(t, course.ID, "l1", 1)

	_, err := e.progress.MarkLessonCompleted(student.ID, 9999)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	_, err = e.progress.MarkLessonCompleted(student.ID, lesson.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

// A lesson with quizzes only counts once every attached quiz has a
// passing attempt; lessons without quizzes count immediately.
func TestRecompute_QuizGatedLessons(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	plain := e.createLesson(t, course.ID, "reading", 1)
	gated := e.createLesson(t, course.ID, "checkpoint", 2)
	quizA := e.createMCQQuiz(t, gated.ID, 70, 1)
	quizB := e.createMCQQuiz(t, gated.ID, 70, 1)
	e.enroll(t, student.ID, course.ID)

	enrollment, err := e.progress.MarkLessonCompleted(student.ID, plain.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, enrollment.Progress)

	// passing one of two quizzes is not enough for the gated lesson
	_, err = e.quizSvc.RecordAttempt(student.ID, quizA.ID, correctAnswers(quizA))
	require.NoError(t, err)
	var got model.Enrollment
	require.NoError(t, e.db.First(&got, enrollment.ID).Error)
	assert.Equal(t, 50.0, got.Progress)

	// passing the second quiz completes the lesson and the course
	_, err = e.quizSvc.RecordAttempt(student.ID, quizB.ID, correctAnswers(quizB))
	require.NoError(t, err)
	require.NoError(t, e.db.First(&got, enrollment.ID).Error)
	assert.Equal(t, 100.0, got.Progress)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
}

func TestRecompute_FailedRetakeDoesNotRevokeCompletion(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	e.createLesson(t, course.ID, "reading", 1)
	gated := e.createLesson(t, course.ID, "checkpoint", 2)
	quiz := e.createMCQQuiz(t, gated.ID, 70, 1)
	enrollment := e.enroll(t, student.ID, course.ID)

	passing, err := e.quizSvc.RecordAttempt(student.ID, quiz.ID, correctAnswers(quiz))
	require.NoError(t, err)
	assert.True(t, passing.Passed)

	var got model.Enrollment
	require.NoError(t, e.db.First(&got, enrollment.ID).Error)
	require.True(t, got.Completed)
	assert.Equal(t, 100.0, got.Progress)

	retake, err := e.quizSvc.RecordAttempt(student.ID, quiz.ID, map[uint]SubmittedAnswer{})
	require.NoError(t, err)
	assert.False(t, retake.Passed)
	assert.Equal(t, 2, retake.AttemptNumber)

	require.NoError(t, e.db.First(&got, enrollment.ID).Error)
	assert.True(t, got.Completed)
	assert.Equal(t, 100.0, got.Progress)

	var certs int64
	require.NoError(t, e.db.Model(&model.Certificate{}).
		Where("enrollment_id = ?", enrollment.ID).Count(&certs).Error)
	assert.EqualValues(t, 1, certs)
}

func TestRecompute_CompletedEnrollmentStaysPinned(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	l1 := e.createLesson(t, course.ID, "l1", 1)
	e.enroll(t, student.ID, course.ID)

	enrollment, err := e.progress.MarkLessonCompleted(student.ID, l1.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, enrollment.Progress)
	assert.True(t, enrollment.Completed)

	// a quiz lesson added after completion does not claw it back
	late := e.createLesson(t, course.ID, "late", 2)
	e.createMCQQuiz(t, late.ID, 70, 1)

	recomputed, err := e.progress.Recompute(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, recomputed.Progress)
	assert.True(t, recomputed.Completed)
}

func TestRecompute_PartialNeverDropsOnNewLessons(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	plain := e.createLesson(t, course.ID, "reading", 1)
	gated := e.createLesson(t, course.ID, "checkpoint", 2)
	e.createMCQQuiz(t, gated.ID, 70, 1)
	e.enroll(t, student.ID, course.ID)

	enrollment, err := e.progress.MarkLessonCompleted(student.ID, plain.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, enrollment.Progress)

	// a third lesson with an unpassed quiz would compute 33.33
	extra := e.createLesson(t, course.ID, "extra", 3)
	e.createMCQQuiz(t, extra.ID, 70, 1)

	recomputed, err := e.progress.Recompute(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, recomputed.Progress)
	assert.False(t, recomputed.Completed)
}

func TestRecompute_CompletionIssuesCertificate(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	l1 := e.createLesson(t, course.ID, "l1", 1)
	enrollment := e.enroll(t, student.ID, course.ID)

	_, err := e.progress.MarkLessonCompleted(student.ID, l1.ID)
	require.NoError(t, err)

	var cert model.Certificate
	require.NoError(t, e.db.Where("enrollment_id = ?", enrollment.ID).First(&cert).Error)
	assert.NotEmpty(t, cert.SerialNumber)
}

func TestRecompute_EmptyCourseStaysAtZero(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "empty", true)
	enrollment := e.enroll(t, student.ID, course.ID)

	recomputed, err := e.progress.Recompute(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, recomputed.Progress)
	assert.False(t, recomputed.Completed)
}

func TestRecompute_MissingEnrollment(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.progress.Recompute(12345)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}
