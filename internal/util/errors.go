package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCourseNotFound      = errors.New("course not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrReviewNotFound      = errors.New("review not found")

	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrReviewExists    = errors.New("course already reviewed by this student")

	// ErrInvalidSubmission marks an answer payload that cannot be resolved
	// against the quiz's question set.
	ErrInvalidSubmission = errors.New("invalid quiz submission")

	// ErrManualGradingRequired is returned when a quiz holds no
	// auto-gradable questions and must be routed to an instructor.
	ErrManualGradingRequired = errors.New("quiz requires manual grading")

	// ErrNotEligible rejects certificate issuance before completion.
	ErrNotEligible = errors.New("course not complete")

	// ErrConflict: a concurrent allocation lost its race and exhausted its
	// retries. Recoverable by retrying the whole operation.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrIntegrityViolation: a uniqueness or authoring invariant would be
	// broken. Never silently ignored.
	ErrIntegrityViolation = errors.New("data integrity violation")
)
