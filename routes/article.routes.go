package routes

import (
	"blogcms/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterArticleRoutes(router *gin.Engine, articleController *controllers.ArticleController, requireAuth gin.HandlerFunc) {
	blogRoutes := router.Group("/api/blogs")
	{
		blogRoutes.GET("", articleController.GetPublishedArticles)
		blogRoutes.GET("/:id", articleController.GetPublishedArticle)
	}

	adminRoutes := router.Group("/api/admin/blogs")
	adminRoutes.Use(requireAuth)
	{
		adminRoutes.GET("", articleController.GetAdminArticles)
		adminRoutes.POST("", articleController.CreateArticle)
		adminRoutes.GET("/:id", articleController.GetAdminArticle)
		adminRoutes.PUT("/:id", articleController.UpdateArticle)
		adminRoutes.DELETE("/:id", articleController.DeleteArticle)
		adminRoutes.PATCH("/:id/publish", articleController.SetPublished)
		adminRoutes.POST("/:id/toggle-publish", articleController.TogglePublished)
	}
}
