package app

import (
	"ecolearn_backend/internal/config"
	"ecolearn_backend/internal/middleware"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerParentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		// legacy aliases kept for older clients
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.Me)
	rg.GET("/me", c.auth.Me)
	rg.PUT("/users/me", c.user.UpdateProfile)
	rg.PUT("/users/me/level", c.user.SetGradeLevel)
	rg.GET("/leaderboard", c.user.Leaderboard)
	rg.GET("/dashboard", c.dashboard.StudentDashboard)

	// catalog
	rg.GET("/courses", c.content.ListCourses)
	rg.GET("/courses/:id", c.content.GetCourse)
	rg.GET("/lessons/:id/exercises", c.content.ListExercises)
	rg.GET("/games", c.content.ListGames)

	// progress
	rg.POST("/courses/:id/exercises/:exerciseId", c.exercise.SubmitExercise)
	rg.POST("/games/:id/submit", c.exercise.SubmitGame)
	rg.GET("/users/me/submissions", c.exercise.SubmissionHistory)

	// placement test
	rg.GET("/level-test/status", c.levelTest.Status)
	rg.GET("/level-test/questions", c.levelTest.Questions)
	rg.POST("/level-test/submit", c.levelTest.Submit)

	// notifications
	rg.GET("/notifications", c.notification.List)
	rg.GET("/notifications/unread-count", c.notification.UnreadCount)
	rg.PUT("/notifications/:id/read", c.notification.MarkRead)

	// messaging, shared by teachers and parents
	rg.GET("/messages", c.message.Counterparts)
	rg.GET("/messages/:userId", c.message.Thread)
	rg.POST("/messages", c.message.Send)
}

func (a *App) registerParentRoutes(rg *gin.RouterGroup, c *controllers) {
	parents := rg.Group("/parents")
	parents.Use(middleware.RoleMiddleware(model.Parent))
	{
		parents.POST("/children", c.user.LinkChild)
		parents.GET("/children", c.user.Children)
		parents.GET("/dashboard", c.dashboard.ParentDashboard)
	}

	// parents and teachers both read student dashboards
	rg.GET("/students/:id/dashboard",
		middleware.RoleMiddleware(model.Parent, model.Teacher),
		c.dashboard.ChildDashboard)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teachers := rg.Group("")
	teachers.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teachers.POST("/courses", c.content.CreateCourse)
		teachers.PUT("/courses/:id", c.content.UpdateCourse)
		teachers.POST("/courses/:id/lessons", c.content.CreateLesson)
		teachers.POST("/lessons/:id/video", c.content.UploadLessonVideo)
		teachers.POST("/lessons/:id/exercises", c.content.CreateExercise)
		teachers.PUT("/exercises/:id/spec", c.content.UpdateExerciseSpec)
		teachers.POST("/games", c.content.CreateGame)
		teachers.GET("/teachers/roster", c.dashboard.TeacherRoster)
	}

	// the parent-keyed messaging surface is shared with parents, who reach
	// their teacher counterpart through the same endpoint pair
	messaging := rg.Group("/teachers")
	messaging.Use(middleware.RoleMiddleware(model.Teacher, model.Parent))
	{
		messaging.GET("/messages", c.message.TeacherThread)
		messaging.POST("/messages", c.message.TeacherSend)
	}
}
