package model

import "time"

// Enrollment links a student to a course, unique per pair. Progress and
// completion are mutated only by the progress tracker and never regress.
// swagger:model
type Enrollment struct {
	BaseModel
	StudentID   uint       `gorm:"not null;uniqueIndex:idx_student_course,priority:1" json:"studentId"`
	CourseID    uint       `gorm:"not null;uniqueIndex:idx_student_course,priority:2" json:"courseId"`
	Progress    float64    `gorm:"not null;default:0" json:"progress"` // 0.0 - 100.0
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// QuizAttempt is an immutable record of one graded submission. The
// (student, quiz, attempt_number) index backs attempt-number allocation
// under concurrent submissions.
// swagger:model
type QuizAttempt struct {
	BaseModel
	StudentID     uint    `gorm:"not null;uniqueIndex:idx_student_quiz_attempt,priority:1" json:"studentId"`
	QuizID        uint    `gorm:"not null;uniqueIndex:idx_student_quiz_attempt,priority:2" json:"quizId"`
	AttemptNumber int     `gorm:"not null;uniqueIndex:idx_student_quiz_attempt,priority:3" json:"attemptNumber"`
	Score         float64 `gorm:"type:decimal(5,2);not null;default:0" json:"score"` // 0.00 - 100.00
	Passed        bool    `gorm:"default:false" json:"passed"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// Certificate is the one-to-one proof of completion for an enrollment.
// SerialNumber is assigned exactly once and never regenerated.
// swagger:model
type Certificate struct {
	BaseModel
	EnrollmentID uint      `gorm:"not null;uniqueIndex" json:"enrollmentId"`
	SerialNumber string    `gorm:"size:100;unique;not null" json:"serialNumber"`
	IssuedAt     time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
