package service

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/pkg/logger"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Notifier receives progression events from the engine. Implementations
// must not block the calling transaction; delivery is best effort.
type Notifier interface {
	EnrollmentCreated(studentID, courseID uint)
	EnrollmentCompleted(enrollment *model.Enrollment)
	CertificateIssued(enrollment *model.Enrollment, cert *model.Certificate)
}

// LogNotifier writes events to the application log.
type LogNotifier struct{}

func (LogNotifier) EnrollmentCreated(studentID, courseID uint) {
	logger.Log.Info("enrollment created",
		zap.Uint("studentId", studentID),
		zap.Uint("courseId", courseID))
}

func (LogNotifier) EnrollmentCompleted(enrollment *model.Enrollment) {
	logger.Log.Info("enrollment completed",
		zap.Uint("enrollmentId", enrollment.ID),
		zap.Uint("studentId", enrollment.StudentID),
		zap.Uint("courseId", enrollment.CourseID))
}

func (LogNotifier) CertificateIssued(enrollment *model.Enrollment, cert *model.Certificate) {
	logger.Log.Info("certificate issued",
		zap.Uint("enrollmentId", enrollment.ID),
		zap.String("serialNumber", cert.SerialNumber))
}

// MailNotifier forwards events to SendGrid in addition to logging.
// Emails are sent on a separate goroutine so that a slow or failing mail
// provider never delays a grading or issuance transaction.
type MailNotifier struct {
	LogNotifier
	Cfg        *config.MailConfig
	UserRepo   *repository.UserRepository
	CourseRepo *repository.CourseRepository
	client     *sendgrid.Client
}

func NewMailNotifier(cfg *config.MailConfig, userRepo *repository.UserRepository, courseRepo *repository.CourseRepository) *MailNotifier {
	return &MailNotifier{
		Cfg:        cfg,
		UserRepo:   userRepo,
		CourseRepo: courseRepo,
		client:     sendgrid.NewSendClient(cfg.SendgridKey),
	}
}

func (n *MailNotifier) EnrollmentCreated(studentID, courseID uint) {
	n.LogNotifier.EnrollmentCreated(studentID, courseID)
	go n.send(studentID, courseID, "Enrollment confirmed",
		"You have successfully enrolled in %q. Good luck with your studies!")
}

func (n *MailNotifier) EnrollmentCompleted(enrollment *model.Enrollment) {
	n.LogNotifier.EnrollmentCompleted(enrollment)
	go n.send(enrollment.StudentID, enrollment.CourseID, "Course completed",
		"Congratulations, you have completed %q!")
}

func (n *MailNotifier) CertificateIssued(enrollment *model.Enrollment, cert *model.Certificate) {
	n.LogNotifier.CertificateIssued(enrollment, cert)
	go n.send(enrollment.StudentID, enrollment.CourseID, "Your certificate is ready",
		"Your certificate of completion for %q has been issued. Serial number: "+cert.SerialNumber)
}

func (n *MailNotifier) send(studentID, courseID uint, subject, bodyFormat string) {
	student, err := n.UserRepo.FindByID(studentID)
	if err != nil {
		logger.Log.Warn("mail notifier: student lookup failed", zap.Uint("studentId", studentID), zap.Error(err))
		return
	}
	course, err := n.CourseRepo.FindByID(n.CourseRepo.DB, courseID)
	if err != nil {
		logger.Log.Warn("mail notifier: course lookup failed", zap.Uint("courseId", courseID), zap.Error(err))
		return
	}

	from := mail.NewEmail(n.Cfg.FromName, n.Cfg.FromAddress)
	to := mail.NewEmail(student.Name, student.Email)
	body := fmt.Sprintf(bodyFormat, course.Title)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	if _, err := n.client.Send(message); err != nil {
		logger.Log.Warn("mail notifier: send failed",
			zap.String("to", student.Email),
			zap.String("subject", subject),
			zap.Error(err))
	}
}
