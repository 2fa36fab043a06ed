package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
	ProgressService   *service.ProgressService
	CourseService     *service.CourseService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService, progressService *service.ProgressService, courseService *service.CourseService) *EnrollmentController {
	return &EnrollmentController{
		EnrollmentService: enrollmentService,
		ProgressService:   progressService,
		CourseService:     courseService,
	}
}

// Enroll godoc
// @Summary Enroll in a published course
// @Tags enrollments
// @Produce  json
// @Security ApiKeyAuth
// @Param   slug path string true "Course slug"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "Course missing or unpublished"
// @Failure 409 {object} util.Response "Already enrolled"
// @Router /api/courses/{slug}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	course, err := c.CourseService.GetCourse(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, course.ID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// ListEnrollments godoc
// @Summary Own enrollments
// @Tags enrollments
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.ListStudentEnrollments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// GetProgress godoc
// @Summary Progress in a course
// @Tags enrollments
// @Produce  json
// @Security ApiKeyAuth
// @Param   slug path string true "Course slug"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response
// @Router /api/courses/{slug}/progress [get]
func (c *EnrollmentController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	course, err := c.CourseService.GetCourse(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	enrollment, err := c.EnrollmentService.GetProgress(claims.UserID, course.ID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// CompleteLesson godoc
// @Summary Mark a lesson as completed
// @Description Records the completion and recomputes course progress
// @Tags enrollments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Lesson ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "Lesson or enrollment missing"
// @Router /api/lessons/{id}/complete [post]
func (c *EnrollmentController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.ProgressService.MarkLessonCompleted(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// GetCertificate godoc
// @Summary Certificate for a completed course
// @Tags enrollments
// @Produce  json
// @Security ApiKeyAuth
// @Param   slug path string true "Course slug"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 404 {object} util.Response "No certificate issued"
// @Router /api/courses/{slug}/certificate [get]
func (c *EnrollmentController) GetCertificate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	course, err := c.CourseService.GetCourse(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	cert, err := c.EnrollmentService.GetCertificate(claims.UserID, course.ID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}
