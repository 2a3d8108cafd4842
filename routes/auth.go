package routes

import (
	"cognigenx/controllers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the account routes under /auth
func SetupAuthRoutes(router *gin.RouterGroup, ctrl *controllers.AuthController, requireSession gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", ctrl.SignUp)
		auth.POST("/login", ctrl.Login)
		auth.POST("/request-password-reset", ctrl.RequestPasswordReset)
		auth.POST("/reset-password", ctrl.ResetPassword)
		auth.GET("/get-user-id", requireSession, ctrl.GetUserID)
		auth.DELETE("/delete-account", requireSession, ctrl.DeleteAccount)
	}
}
