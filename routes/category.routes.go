package routes

import (
	"blogcms/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterCategoryRoutes(router *gin.Engine, categoryController *controllers.CategoryController, requireAuth gin.HandlerFunc) {
	router.GET("/api/categories", categoryController.GetCategories)
	router.POST("/api/admin/categories", requireAuth, categoryController.CreateCategory)
}
