package routes

import (
	"blogcms/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterMediaRoutes mounts the upload endpoint. When staticDir is set the
// stored files are also served from /uploads.
func RegisterMediaRoutes(router *gin.Engine, mediaController *controllers.MediaController, requireAuth gin.HandlerFunc, staticDir string) {
	router.POST("/api/admin/uploads", requireAuth, mediaController.UploadImage)

	if staticDir != "" {
		router.Static("/uploads", staticDir)
	}
}
