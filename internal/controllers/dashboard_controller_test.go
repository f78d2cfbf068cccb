package controllers_test

import (
	"errors"
	"net/http"
	"testing"

	"blogcms/internal/controllers"
	"blogcms/internal/mocks"
	"blogcms/internal/models"
	"blogcms/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetDashboard(t *testing.T) {
	articles := new(mocks.MockArticleRepository)
	categories := new(mocks.MockCategoryRepository)
	accounts := new(mocks.MockAccountRepository)
	controller := controllers.NewDashboardController(articles, categories, accounts)

	router := setupTestRouter()
	router.GET("/api/admin/dashboard", addAuthMiddleware(1, "sid"), controller.GetDashboard)

	articles.On("List", mock.Anything, repository.ArticleFilter{}).Return([]models.Article{
		*sampleArticle(3, false), *sampleArticle(2, true), *sampleArticle(1, true),
	}, nil)
	articles.On("Count", mock.Anything, true).Return(int64(2), nil)
	categories.On("Count", mock.Anything).Return(int64(4), nil)
	accounts.On("Count", mock.Anything).Return(int64(1), nil)

	w := performRequest(router, http.MethodGet, "/api/admin/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["articles"], 3)
	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, float64(3), totals["articles"])
	assert.Equal(t, float64(2), totals["published"])
	assert.Equal(t, float64(1), totals["drafts"])
	assert.Equal(t, float64(4), totals["categories"])
	assert.Equal(t, float64(1), totals["accounts"])
}

func TestGetDashboardFailure(t *testing.T) {
	articles := new(mocks.MockArticleRepository)
	controller := controllers.NewDashboardController(articles, new(mocks.MockCategoryRepository), new(mocks.MockAccountRepository))

	router := setupTestRouter()
	router.GET("/api/admin/dashboard", controller.GetDashboard)
	articles.On("List", mock.Anything, repository.ArticleFilter{}).Return(nil, errors.New("boom"))

	w := performRequest(router, http.MethodGet, "/api/admin/dashboard", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
