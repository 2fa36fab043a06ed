package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func (e *testEnv) completedEnrollment(t *testing.T) *model.Enrollment {
	t.Helper()
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	enrollment := e.enroll(t, student.ID, course.ID)
	now := fixedTime()
	enrollment.Progress = 100
	enrollment.Completed = true
	enrollment.CompletedAt = &now
	require.NoError(t, e.db.Save(enrollment).Error)
	return enrollment
}

func TestIssue_CreatesCertificateOnce(t *testing.T) {
	e := newTestEnv(t)
	enrollment := e.completedEnrollment(t)
	e.certificates.Now = fixedTime
	e.certificates.NewSerial = func() string { return "CERT-0001" }

	cert, err := e.certificates.Issue(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, "CERT-0001", cert.SerialNumber)
	assert.Equal(t, fixedTime(), cert.IssuedAt.UTC())
	assert.Equal(t, enrollment.ID, cert.EnrollmentID)
}

func TestIssue_SecondCallReturnsSameSerial(t *testing.T) {
	e := newTestEnv(t)
	enrollment := e.completedEnrollment(t)
	serials := []string{"CERT-0001", "CERT-0002"}
	e.certificates.NewSerial = func() string {
		s := serials[0]
		serials = serials[1:]
		return s
	}

	first, err := e.certificates.Issue(enrollment.ID)
	require.NoError(t, err)
	second, err := e.certificates.Issue(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, first.SerialNumber, second.SerialNumber)

	var count int64
	require.NoError(t, e.db.Model(&model.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIssue_ConcurrentCallsConverge(t *testing.T) {
	e := newTestEnv(t)
	enrollment := e.completedEnrollment(t)

	const callers = 2
	var wg sync.WaitGroup
	serials := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cert, err := e.certificates.Issue(enrollment.ID)
			errs[i] = err
			if err == nil {
				serials[i] = cert.SerialNumber
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, serials[0], serials[1])

	var count int64
	require.NoError(t, e.db.Model(&model.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIssue_LostRaceAdoptsWinnerSerial(t *testing.T) {
	e := newTestEnv(t)
	enrollment := e.completedEnrollment(t)
	e.certificates.NewSerial = func() string { return "CERT-LOSER" }

	// A rival issuer lands its certificate between this caller's
	// existence check and its insert. The unique index rejects the
	// second row and the caller must hand back the rival's serial.
	injected := false
	err := e.db.Callback().Create().Before("gorm:create").Register("rival_certificate", func(d *gorm.DB) {
		if injected || d.Statement.Table != "certificates" {
			return
		}
		injected = true
		now := fixedTime()
		if execErr := d.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO certificates (created_at, updated_at, enrollment_id, serial_number, issued_at) VALUES (?, ?, ?, ?, ?)",
			now, now, enrollment.ID, "CERT-WINNER", now).Error; execErr != nil {
			d.AddError(execErr)
		}
	})
	require.NoError(t, err)
	defer e.db.Callback().Create().Remove("rival_certificate")

	cert, err := e.certificates.Issue(enrollment.ID)
	require.NoError(t, err)
	assert.True(t, injected)
	assert.Equal(t, "CERT-WINNER", cert.SerialNumber)

	var count int64
	require.NoError(t, e.db.Model(&model.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	stored, err := e.certificates.Verify("CERT-WINNER")
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, stored.EnrollmentID)
}

func TestIssue_NotEligibleWritesNothing(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	course := e.createCourse(t, instructor.ID, "go-101", true)
	enrollment := e.enroll(t, student.ID, course.ID)

	_, err := e.certificates.Issue(enrollment.ID)
	assert.ErrorIs(t, err, util.ErrNotEligible)

	var count int64
	require.NoError(t, e.db.Model(&model.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestIssue_MissingEnrollment(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.certificates.Issue(4242)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestVerify_BySerial(t *testing.T) {
	e := newTestEnv(t)
	enrollment := e.completedEnrollment(t)
	e.certificates.NewSerial = func() string { return "CERT-VERIFY" }

	_, err := e.certificates.Issue(enrollment.ID)
	require.NoError(t, err)

	cert, err := e.certificates.Verify("CERT-VERIFY")
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, cert.EnrollmentID)

	_, err = e.certificates.Verify("CERT-NOPE")
	assert.ErrorIs(t, err, util.ErrCertificateNotFound)
}

func TestListStudentCertificates(t *testing.T) {
	e := newTestEnv(t)
	instructor := e.createUser(t, "inst", model.Instructor)
	student := e.createUser(t, "stud", model.Student)
	other := e.createUser(t, "other", model.Student)
	now := fixedTime()

	for _, slug := range []string{"c1", "c2"} {
		course := e.createCourse(t, instructor.ID, slug, true)
		enrollment := e.enroll(t, student.ID, course.ID)
		enrollment.Progress = 100
		enrollment.Completed = true
		enrollment.CompletedAt = &now
		require.NoError(t, e.db.Save(enrollment).Error)
		e.certificates.NewSerial = func() string { return slug + "-serial" }
		_, err := e.certificates.Issue(enrollment.ID)
		require.NoError(t, err)
	}

	certs, err := e.certificates.ListStudentCertificates(student.ID)
	require.NoError(t, err)
	assert.Len(t, certs, 2)

	certs, err = e.certificates.ListStudentCertificates(other.ID)
	require.NoError(t, err)
	assert.Empty(t, certs)
}
