package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// EnrollmentService enrolls students into published courses and exposes
// their progression state.
type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	CertRepo       *repository.CertificateRepository
	Notifier       Notifier
	DB             *gorm.DB
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	certRepo *repository.CertificateRepository,
	notifier Notifier,
	db *gorm.DB,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		CertRepo:       certRepo,
		Notifier:       notifier,
		DB:             db,
	}
}

// Enroll creates an enrollment in a published course. A second enrollment
// in the same course is rejected by the unique (student, course) index.
func (s *EnrollmentService) Enroll(studentID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(s.DB, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotFound
	}

	enrollment := &model.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}

	s.Notifier.EnrollmentCreated(studentID, courseID)
	return enrollment, nil
}

// GetProgress returns the student's enrollment in a course, including
// the current progress percentage and completion state.
func (s *EnrollmentService) GetProgress(studentID, courseID uint) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(s.DB, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return enrollment, nil
}

// ListStudentEnrollments returns all of the student's enrollments,
// newest first.
func (s *EnrollmentService) ListStudentEnrollments(studentID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByStudent(studentID)
}

// GetCertificate returns the certificate for the student's enrollment in
// a course, if one has been issued.
func (s *EnrollmentService) GetCertificate(studentID, courseID uint) (*model.Certificate, error) {
	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(s.DB, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	cert, err := s.CertRepo.FindByEnrollment(s.DB, enrollment.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}
