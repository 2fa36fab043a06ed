package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnroll_PublishedCourse(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)

	enrollment, err := e.enrollSvc.Enroll(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, enrollment.Progress)
	assert.False(t, enrollment.Completed)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestEnroll_UnpublishedCourseHidden(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	draft := e.createCourse(t, instructor.ID, "draft", false)

	_, err := e.enrollSvc.Enroll(student.ID, draft.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	_, err = e.enrollSvc.Enroll(student.ID, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEnroll_Duplicate(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)

	_, err := e.enrollSvc.Enroll(student.ID, course.ID)
	require.NoError(t, err)
	_, err = e.enrollSvc.Enroll(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	var count int64
	require.NoError(t, e.db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetProgress(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)

	_, err := e.enrollSvc.GetProgress(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	e.enroll(t, student.ID, course.ID)
	enrollment, err := e.enrollSvc.GetProgress(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, enrollment.CourseID)
}

func TestListStudentEnrollments(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	for _, slug := range []string{"c1", "c2", "c3"} {
		course := e.createCourse(t, instructor.ID, slug, true)
		e.enroll(t, student.ID, course.ID)
	}

	enrollments, err := e.enrollSvc.ListStudentEnrollments(student.ID)
	require.NoError(t, err)
	assert.Len(t, enrollments, 3)
}

func TestGetCertificate(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	lesson := e.createLesson(t, course.ID, "l1", 1)

	_, err := e.enrollSvc.GetCertificate(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	e.enroll(t, student.ID, course.ID)
	_, err = e.enrollSvc.GetCertificate(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCertificateNotFound)

	_, err = e.progress.MarkLessonCompleted(student.ID, lesson.ID)
	require.NoError(t, err)

	cert, err := e.enrollSvc.GetCertificate(student.ID, course.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, cert.SerialNumber)
}
