package routes

import (
	"blogcms/internal/controllers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterHealthRoutes(router *gin.Engine, healthController *controllers.HealthController) {
	router.GET("/health", healthController.Health)
	router.GET("/debug/database", healthController.DebugDatabase)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
