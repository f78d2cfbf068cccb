package controllers

import (
	"net/http"

	"blogcms/internal/repository"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	accounts   repository.AccountRepository
}

func NewDashboardController(articles repository.ArticleRepository, categories repository.CategoryRepository, accounts repository.AccountRepository) *DashboardController {
	return &DashboardController{articles: articles, categories: categories, accounts: accounts}
}

// GetDashboard godoc
// @Summary Admin dashboard
// @Description Every article newest first with its publish state, plus totals
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Dashboard retrieved successfully"
// @Router /admin/dashboard [get]
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	articles, err := dc.articles.List(ctx, repository.ArticleFilter{})
	if err != nil {
		dc.fail(c, err)
		return
	}
	published, err := dc.articles.Count(ctx, true)
	if err != nil {
		dc.fail(c, err)
		return
	}
	categories, err := dc.categories.Count(ctx)
	if err != nil {
		dc.fail(c, err)
		return
	}
	accounts, err := dc.accounts.Count(ctx)
	if err != nil {
		dc.fail(c, err)
		return
	}

	total := int64(len(articles))
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Dashboard retrieved successfully",
		"data": gin.H{
			"articles": toCards(articles),
			"totals": gin.H{
				"articles":   total,
				"published":  published,
				"drafts":     total - published,
				"categories": categories,
				"accounts":   accounts,
			},
		},
	})
}

func (dc *DashboardController) fail(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  "error",
		"message": "Failed to load dashboard",
		"error":   "Database query failed",
	})
}
