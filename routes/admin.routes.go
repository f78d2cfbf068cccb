package routes

import (
	"blogcms/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterAdminRoutes(router *gin.Engine, dashboardController *controllers.DashboardController, accountController *controllers.AccountController, requireAuth gin.HandlerFunc) {
	adminRoutes := router.Group("/api/admin")
	adminRoutes.Use(requireAuth)
	{
		adminRoutes.GET("/dashboard", dashboardController.GetDashboard)

		adminRoutes.GET("/accounts", accountController.GetAccounts)
		adminRoutes.POST("/accounts", accountController.CreateAccount)
		adminRoutes.DELETE("/accounts/:id", accountController.DeleteAccount)
	}
}
