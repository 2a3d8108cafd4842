package routes

import (
	"cognigenx/controllers"
	"cognigenx/internal/ratelimit"
	"cognigenx/middlewares"
	"cognigenx/services"

	"github.com/gin-gonic/gin"
)

// Services are the handlers' collaborators
type Services struct {
	Auth      *services.AuthService
	Activity  *services.ActivityService
	Questions *services.QuestionService
	Limiter   *ratelimit.RateLimiter
}

// SetupRoutes registers every route at the root and again under /api
func SetupRoutes(router *gin.Engine, svc Services) {
	setupGroup(router.Group("/"), svc)
	setupGroup(router.Group("/api"), svc)
}

func setupGroup(router *gin.RouterGroup, svc Services) {
	authController := controllers.NewAuthController(svc.Auth)
	activityController := controllers.NewActivityController(svc.Activity)
	triviaController := controllers.NewTriviaController(svc.Questions)
	userController := controllers.NewUserController(svc.Auth)

	requireSession := middlewares.AuthMiddleware(svc.Auth)
	limitAI := middlewares.RateLimitMiddleware(svc.Limiter)

	router.GET("/health", controllers.Health)

	SetupAuthRoutes(router, authController, requireSession)

	router.POST("/add-questions", triviaController.AddQuestions)
	router.GET("/questions", triviaController.GetQuestions)
	router.GET("/random-questions", triviaController.GetRandomQuestions)
	router.POST("/categorize", controllers.Categorize)

	router.GET("/users", userController.ListUsers)
	router.GET("/users/:id", userController.GetUser)

	protected := router.Group("/")
	protected.Use(requireSession)
	{
		protected.POST("/log-activity", activityController.LogActivity)
		protected.GET("/user-preferences", activityController.GetPreferences)
		protected.POST("/generate-questions", limitAI, triviaController.GenerateQuestions)
		protected.POST("/generate-explanation", limitAI, triviaController.GenerateExplanation)
	}
}
