package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/monitoring"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateService issues exactly one certificate per completed
// enrollment. The unique index on enrollment_id makes issuance safe
// under concurrent invocations.
type CertificateService struct {
	CertRepo       *repository.CertificateRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Notifier       Notifier
	DB             *gorm.DB

	// Injected for tests; default to wall clock and uuid v4.
	Now       func() time.Time
	NewSerial func() string
}

func NewCertificateService(
	certRepo *repository.CertificateRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	notifier Notifier,
	db *gorm.DB,
) *CertificateService {
	return &CertificateService{
		CertRepo:       certRepo,
		EnrollmentRepo: enrollmentRepo,
		Notifier:       notifier,
		DB:             db,
		Now:            time.Now,
		NewSerial:      uuid.NewString,
	}
}

// Issue creates the certificate for a completed enrollment, or returns
// the existing one unchanged. A non-completed enrollment is rejected
// with ErrNotEligible and nothing is written.
func (s *CertificateService) Issue(enrollmentID uint) (*model.Certificate, error) {
	var cert *model.Certificate
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		enrollment, err := s.EnrollmentRepo.FindByID(tx, enrollmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrEnrollmentNotFound
			}
			return err
		}
		cert, err = s.issue(tx, enrollment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cert, nil
}

// issue runs inside the caller's transaction so that certificate creation
// commits atomically with the enrollment's completed state.
func (s *CertificateService) issue(tx *gorm.DB, enrollment *model.Enrollment) (*model.Certificate, error) {
	if !enrollment.Completed {
		return nil, util.ErrNotEligible
	}

	existing, err := s.CertRepo.FindByEnrollment(tx, enrollment.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cert := &model.Certificate{
		EnrollmentID: enrollment.ID,
		SerialNumber: s.NewSerial(),
		IssuedAt:     s.Now(),
	}
	if err := s.CertRepo.Create(tx, cert); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race; converge on the winner's certificate
			winner, ferr := s.CertRepo.FindByEnrollment(tx, enrollment.ID)
			if ferr != nil {
				return nil, util.ErrConflict
			}
			return winner, nil
		}
		return nil, err
	}

	monitoring.CertificatesIssued.Inc()
	s.Notifier.CertificateIssued(enrollment, cert)
	return cert, nil
}

// Verify resolves a certificate by its public serial number.
func (s *CertificateService) Verify(serial string) (*model.Certificate, error) {
	cert, err := s.CertRepo.FindBySerial(serial)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}

// ListStudentCertificates returns every certificate held by a student.
func (s *CertificateService) ListStudentCertificates(studentID uint) ([]model.Certificate, error) {
	return s.CertRepo.ListByStudent(studentID)
}
