package controllers_test

import (
	"net/http"
	"testing"

	"blogcms/database"
	"blogcms/internal/controllers"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStatus map[string]interface{}

func (s staticStatus) GetStatus() map[string]interface{} { return s }

func TestHealthEndpoints(t *testing.T) {
	db, err := database.OpenSQLite("")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	controller := controllers.NewHealthController(db, client, staticStatus{"running": true}, "test")
	router := setupTestRouter()
	router.GET("/health", controller.Health)
	router.GET("/debug/database", controller.DebugDatabase)

	w := performRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = performRequest(router, http.MethodGet, "/debug/database", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, true, response["database_health"])
	assert.Equal(t, true, response["cache_health"])
	assert.Equal(t, "sqlite", response["dialect"])
	assert.Equal(t, true, response["session_sweeper"].(map[string]interface{})["running"])
}
