package routes

import (
	"blogcms/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes mounts login, logout and signup. loginLimit guards the
// login endpoint only.
func RegisterAuthRoutes(router *gin.Engine, authController *controllers.AuthController, requireAuth, loginLimit gin.HandlerFunc) {
	authRoutes := router.Group("/api")
	{
		authRoutes.POST("/login", loginLimit, authController.LoginUser)
		authRoutes.POST("/signup", authController.SignupUser)
		authRoutes.POST("/logout", requireAuth, authController.LogoutUser)
	}
}
