package app

import (
	"elearn_backend/docs"
	"elearn_backend/internal/config"
	"elearn_backend/internal/middleware"
	"elearn_backend/internal/model"
	"elearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/categories", c.course.ListCategories)
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:slug", c.course.GetCourse)
		public.GET("/courses/:slug/reviews", c.review.ListReviews)
		public.GET("/users/:id", c.user.GetUser)

		// Third parties verify certificates without an account.
		public.GET("/certificates/:serial/verify", c.certificate.Verify)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)

	rg.POST("/courses/:slug/enroll", c.enrollment.Enroll)
	rg.GET("/courses/:slug/progress", c.enrollment.GetProgress)
	rg.GET("/courses/:slug/certificate", c.enrollment.GetCertificate)
	rg.POST("/courses/:slug/reviews", c.review.SubmitReview)
	rg.GET("/enrollments", c.enrollment.ListEnrollments)
	rg.GET("/certificates", c.certificate.ListOwn)

	rg.POST("/lessons/:id/complete", c.enrollment.CompleteLesson)

	rg.GET("/quizzes/:id", c.quiz.GetQuiz)
	rg.POST("/quizzes/:id/attempts", c.quiz.SubmitAttempt)
	rg.GET("/quizzes/:id/attempts", c.quiz.ListAttempts)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/instructor")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		instructor.GET("/courses", c.course.ListOwnCourses)
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.PUT("/courses/:id/publish", c.course.PublishCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)
		instructor.POST("/courses/:id/lessons", c.course.AddLesson)
		instructor.POST("/courses/:id/thumbnail", c.course.UploadThumbnail)

		instructor.PUT("/lessons/:id", c.course.UpdateLesson)
		instructor.DELETE("/lessons/:id", c.course.DeleteLesson)

		instructor.POST("/lessons/:id/quizzes", c.quiz.CreateQuiz)
		instructor.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		instructor.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		instructor.POST("/quizzes/:id/questions", c.quiz.AddQuestion)
		instructor.DELETE("/questions/:id", c.quiz.DeleteQuestion)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/reviews/pending", c.review.ListPending)
		admin.PUT("/reviews/:id/approve", c.review.ApproveReview)
		admin.PUT("/reviews/:id/unapprove", c.review.UnapproveReview)
		admin.DELETE("/reviews/:id", c.review.DeleteReview)
	}
}
