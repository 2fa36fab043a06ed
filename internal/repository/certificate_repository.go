package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) Create(tx *gorm.DB, cert *model.Certificate) error {
	return tx.Create(cert).Error
}

func (r *CertificateRepository) FindByEnrollment(tx *gorm.DB, enrollmentID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := tx.Where("enrollment_id = ?", enrollmentID).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) FindBySerial(serial string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Where("serial_number = ?", serial).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) ListByStudent(studentID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Joins("JOIN enrollments ON enrollments.id = certificates.enrollment_id").
		Where("enrollments.student_id = ?", studentID).
		Order("certificates.issued_at DESC").
		Find(&certs).Error
	return certs, err
}
