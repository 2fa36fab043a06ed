package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
	CourseService *service.CourseService
}

func NewReviewController(reviewService *service.ReviewService, courseService *service.CourseService) *ReviewController {
	return &ReviewController{
		ReviewService: reviewService,
		CourseService: courseService,
	}
}

// swagger:model ReviewRequest
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// SubmitReview godoc
// @Summary Review a course
// @Description One review per student per course; awaits moderation
// @Tags reviews
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   slug path string true "Course slug"
// @Param   body body ReviewRequest true "Rating and comment"
// @Success 201 {object} util.Response{data=model.Review}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Already reviewed"
// @Router /api/courses/{slug}/reviews [post]
func (c *ReviewController) SubmitReview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.GetCourse(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	review, err := c.ReviewService.SubmitReview(claims.UserID, course.ID, req.Rating, req.Comment)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, review)
}

// ListReviews godoc
// @Summary Approved reviews for a course
// @Tags reviews
// @Produce  json
// @Param   slug path string true "Course slug"
// @Param   page query int false "Page number"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 404 {object} util.Response
// @Router /api/courses/{slug}/reviews [get]
func (c *ReviewController) ListReviews(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	course, err := c.CourseService.GetCourse(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	reviews, total, err := c.ReviewService.ListCourseReviews(course.ID, page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  reviews,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ListPending godoc
// @Summary Reviews awaiting moderation
// @Tags reviews
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page number"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/reviews/pending [get]
func (c *ReviewController) ListPending(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	reviews, total, err := c.ReviewService.ListPendingReviews(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  reviews,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ApproveReview godoc
// @Summary Approve a review
// @Description Approval folds the rating into the instructor aggregate
// @Tags reviews
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Review ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/reviews/{id}/approve [put]
func (c *ReviewController) ApproveReview(ctx *gin.Context) {
	if err := c.ReviewService.ApproveReview(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UnapproveReview godoc
// @Summary Retract a review's approval
// @Tags reviews
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Review ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/reviews/{id}/unapprove [put]
func (c *ReviewController) UnapproveReview(ctx *gin.Context) {
	if err := c.ReviewService.UnapproveReview(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteReview godoc
// @Summary Delete a review
// @Tags reviews
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Review ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/reviews/{id} [delete]
func (c *ReviewController) DeleteReview(ctx *gin.Context) {
	if err := c.ReviewService.DeleteReview(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
