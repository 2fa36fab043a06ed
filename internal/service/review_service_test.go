package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) instructorRating(t *testing.T, instructorID uint) (float64, int) {
	t.Helper()
	var instructor model.User
	require.NoError(t, e.db.First(&instructor, instructorID).Error)
	return instructor.Rating, instructor.TotalReviews
}

func TestSubmitReview_StartsUnapproved(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)

	review, err := e.reviewSvc.SubmitReview(student.ID, course.ID, 5, "great")
	require.NoError(t, err)
	assert.False(t, review.Approved)

	// unapproved reviews leave the aggregate untouched
	rating, total := e.instructorRating(t, instructor.ID)
	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0, total)
}

func TestSubmitReview_Validation(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)

	_, err := e.reviewSvc.SubmitReview(student.ID, course.ID, 0, "")
	assert.ErrorIs(t, err, util.ErrInvalidSubmission)
	_, err = e.reviewSvc.SubmitReview(student.ID, course.ID, 6, "")
	assert.ErrorIs(t, err, util.ErrInvalidSubmission)

	_, err = e.reviewSvc.SubmitReview(student.ID, 9999, 4, "")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	_, err = e.reviewSvc.SubmitReview(student.ID, course.ID, 4, "once")
	require.NoError(t, err)
	_, err = e.reviewSvc.SubmitReview(student.ID, course.ID, 3, "twice")
	assert.ErrorIs(t, err, util.ErrReviewExists)
}

func TestApproveReview_RecomputesAcrossInstructorCourses(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	course1 := e.createCourse(t, instructor.ID, "c1", true)
	course2 := e.createCourse(t, instructor.ID, "c2", true)

	ratings := map[string]struct {
		course *model.Course
		stars  int
	}{
		"s1": {course1, 5},
		"s2": {course1, 4},
		"s3": {course2, 3},
		"s4": {course2, 1},
	}
	reviews := make(map[string]*model.Review)
	for name, r := range ratings {
		student := e.createUser(t, name, model.Student)
		review, err := e.reviewSvc.SubmitReview(student.ID, r.course.ID, r.stars, "")
		require.NoError(t, err)
		reviews[name] = review
	}

	// approve 5, 4 and 3; the 1-star review stays pending
	for _, name := range []string{"s1", "s2", "s3"} {
		require.NoError(t, e.reviewSvc.ApproveReview(reviews[name].ID))
	}

	rating, total := e.instructorRating(t, instructor.ID)
	assert.Equal(t, 4.0, rating)
	assert.Equal(t, 3, total)
}

func TestApproveReview_RoundsToOneDecimal(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	course := e.createCourse(t, instructor.ID, "go-101", true)

	for name, stars := range map[string]int{"s1": 5, "s2": 4, "s3": 4} {
		student := e.createUser(t, name, model.Student)
		review, err := e.reviewSvc.SubmitReview(student.ID, course.ID, stars, "")
		require.NoError(t, err)
		require.NoError(t, e.reviewSvc.ApproveReview(review.ID))
	}

	// mean 13/3 = 4.333... rounds to 4.3
	rating, total := e.instructorRating(t, instructor.ID)
	assert.Equal(t, 4.3, rating)
	assert.Equal(t, 3, total)
}

func TestUnapproveReview_RemovesFromAggregate(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student1 := e.createUser(t, "s1", model.Student)
	student2 := e.createUser(t, "s2", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)

	high, err := e.reviewSvc.SubmitReview(student1.ID, course.ID, 5, "")
	require.NoError(t, err)
	low, err := e.reviewSvc.SubmitReview(student2.ID, course.ID, 2, "")
	require.NoError(t, err)
	require.NoError(t, e.reviewSvc.ApproveReview(high.ID))
	require.NoError(t, e.reviewSvc.ApproveReview(low.ID))

	require.NoError(t, e.reviewSvc.UnapproveReview(low.ID))

	rating, total := e.instructorRating(t, instructor.ID)
	assert.Equal(t, 5.0, rating)
	assert.Equal(t, 1, total)
}

func TestDeleteReview_RecomputesOnlyWhenApproved(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student1 := e.createUser(t, "s1", model.Student)
	student2 := e.createUser(t, "s2", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)

	approved, err := e.reviewSvc.SubmitReview(student1.ID, course.ID, 4, "")
	require.NoError(t, err)
	require.NoError(t, e.reviewSvc.ApproveReview(approved.ID))
	pending, err := e.reviewSvc.SubmitReview(student2.ID, course.ID, 1, "")
	require.NoError(t, err)

	// deleting the pending review leaves the aggregate alone
	require.NoError(t, e.reviewSvc.DeleteReview(pending.ID))
	rating, total := e.instructorRating(t, instructor.ID)
	assert.Equal(t, 4.0, rating)
	assert.Equal(t, 1, total)

	// deleting the approved one clears it
	require.NoError(t, e.reviewSvc.DeleteReview(approved.ID))
	rating, total = e.instructorRating(t, instructor.ID)
	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0, total)
}

func TestApproveReview_AlreadyApprovedIsNoOp(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "s1", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)

	review, err := e.reviewSvc.SubmitReview(student.ID, course.ID, 5, "")
	require.NoError(t, err)
	require.NoError(t, e.reviewSvc.ApproveReview(review.ID))
	require.NoError(t, e.reviewSvc.ApproveReview(review.ID))

	rating, total := e.instructorRating(t, instructor.ID)
	assert.Equal(t, 5.0, rating)
	assert.Equal(t, 1, total)

	assert.ErrorIs(t, e.reviewSvc.ApproveReview(31337), util.ErrReviewNotFound)
}

func TestListCourseReviews_OnlyApproved(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student1 := e.createUser(t, "s1", model.Student)
	student2 := e.createUser(t, "s2", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)

	approved, err := e.reviewSvc.SubmitReview(student1.ID, course.ID, 5, "")
	require.NoError(t, err)
	require.NoError(t, e.reviewSvc.ApproveReview(approved.ID))
	_, err = e.reviewSvc.SubmitReview(student2.ID, course.ID, 2, "")
	require.NoError(t, err)

	reviews, count, err := e.reviewSvc.ListCourseReviews(course.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, reviews, 1)
	assert.Equal(t, approved.ID, reviews[0].ID)

	pending, count, err := e.reviewSvc.ListPendingReviews(1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, pending, 1)
	assert.Equal(t, student2.ID, pending[0].StudentID)

	_, _, err = e.reviewSvc.ListCourseReviews(9999, 1, 10)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
