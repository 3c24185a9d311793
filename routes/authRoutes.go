package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kymani/dukahub-api/controllers"
)

func AuthRoutes(server *gin.Engine, auth *controllers.AuthController) {
	group := server.Group("/auth")
	{
		group.POST("/signup", auth.Signup)
		group.POST("/login", auth.Login)
		group.POST("/verify-email", auth.VerifyEmail)
		group.POST("/forgot-password", auth.ForgotPassword)
		group.POST("/reset-password", auth.ResetPassword)
	}
}
