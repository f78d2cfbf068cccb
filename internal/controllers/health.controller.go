package controllers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type StatusReporter interface {
	GetStatus() map[string]interface{}
}

type HealthController struct {
	db      *gorm.DB
	redis   *redis.Client
	sweeper StatusReporter
	version string
}

func NewHealthController(db *gorm.DB, redisClient *redis.Client, sweeper StatusReporter, version string) *HealthController {
	return &HealthController{db: db, redis: redisClient, sweeper: sweeper, version: version}
}

func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "blogcms API is running",
		"version": hc.version,
		"status":  "healthy",
	})
}

func (hc *HealthController) DebugDatabase(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	sqlDB, err := hc.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"database_health": false,
			"error":           err.Error(),
		})
		return
	}

	var result int
	err = sqlDB.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	healthy := err == nil && result == 1
	stats := sqlDB.Stats()

	response := gin.H{
		"database_health": healthy,
		"dialect":         hc.db.Dialector.Name(),
		"pool": gin.H{
			"open":    stats.OpenConnections,
			"in_use":  stats.InUse,
			"idle":    stats.Idle,
			"max":     stats.MaxOpenConnections,
			"waiting": stats.WaitCount,
		},
		"goroutines": runtime.NumGoroutine(),
	}
	if hc.redis != nil {
		response["cache_health"] = hc.redis.Ping(ctx).Err() == nil
	}
	if hc.sweeper != nil {
		response["session_sweeper"] = hc.sweeper.GetStatus()
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}
