package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blogcms/internal/content"
	"blogcms/internal/models"
	"blogcms/internal/repository"

	"github.com/gin-gonic/gin"
)

const excerptLength = 160

type ArticleController struct {
	repo       repository.ArticleRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewArticleController(repo repository.ArticleRepository, categories repository.CategoryRepository, logger *slog.Logger) *ArticleController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleController{repo: repo, categories: categories, logger: logger}
}

type ArticleRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=200" example:"Getting started with Go"`
	Content     string `json:"content" example:"<h1>Intro</h1><p>Hello</p>"`
	Thumbnail   string `json:"thumbnail" binding:"max=2048" example:"/uploads/1700000000-ab12cd34.png"`
	Published   *bool  `json:"published" example:"false"`
	CategoryIDs []uint `json:"category_ids" binding:"dive,gt=0" example:"1,2"`
}

type PublishRequest struct {
	Published *bool `json:"published" binding:"required" example:"true"`
}

// ArticleCard is the list representation shown on the home page and in the
// admin list.
type ArticleCard struct {
	ID         uint              `json:"id"`
	Title      string            `json:"title"`
	Thumbnail  string            `json:"thumbnail"`
	Excerpt    string            `json:"excerpt"`
	Published  bool              `json:"published"`
	CreatedAt  time.Time         `json:"created_at"`
	Categories []models.Category `json:"categories"`
}

func toCards(articles []models.Article) []ArticleCard {
	cards := make([]ArticleCard, 0, len(articles))
	for _, a := range articles {
		categories := a.Categories
		if categories == nil {
			categories = []models.Category{}
		}
		cards = append(cards, ArticleCard{
			ID:         a.ID,
			Title:      a.Title,
			Thumbnail:  a.Thumbnail,
			Excerpt:    content.Excerpt(a.Content, excerptLength),
			Published:  a.Published,
			CreatedAt:  a.CreatedAt,
			Categories: categories,
		})
	}
	return cards
}

// filterFromQuery reads q and category. It answers 400 itself on a bad
// category id.
func filterFromQuery(c *gin.Context) (repository.ArticleFilter, bool) {
	filter := repository.ArticleFilter{TitleContains: strings.TrimSpace(c.Query("q"))}
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid category filter",
				"error":   "category must be a valid positive integer",
			})
			return filter, false
		}
		filter.CategoryID = uint(id)
	}
	return filter, true
}

// GetPublishedArticles godoc
// @Summary List published articles
// @Description Published articles, newest first, optionally filtered by title keyword and category
// @Tags blog
// @Produce json
// @Param q query string false "Title keyword"
// @Param category query int false "Category ID"
// @Success 200 {object} map[string]interface{} "Articles retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Invalid category filter"
// @Router /blogs [get]
func (ac *ArticleController) GetPublishedArticles(c *gin.Context) {
	filter, ok := filterFromQuery(c)
	if !ok {
		return
	}
	filter.PublishedOnly = true

	articles, err := ac.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve articles",
			"error":   "Database query failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Articles retrieved successfully",
		"data":    toCards(articles),
	})
}

// GetPublishedArticle godoc
// @Summary Get a published article
// @Description Article body with heading anchors and its table of contents. Drafts are reported as not found.
// @Tags blog
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} map[string]interface{} "Article retrieved successfully"
// @Failure 404 {object} map[string]interface{} "Article not found"
// @Router /blogs/{id} [get]
func (ac *ArticleController) GetPublishedArticle(c *gin.Context) {
	id, ok := parseID(c, "article")
	if !ok {
		return
	}

	article, err := ac.repo.FindPublishedByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":            "error",
				"message":           "Article not found",
				"error":             "No published article exists with the provided ID",
				"redirect":          "/",
				"redirect_after_ms": 3000,
			})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve article",
			"error":   "Database query failed",
		})
		return
	}

	body, toc := content.Outline(article.Content)
	article.Content = body

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article retrieved successfully",
		"data": gin.H{
			"article": article,
			"toc":     toc,
		},
	})
}

// GetAdminArticles godoc
// @Summary List all articles
// @Description Every article including drafts, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Title keyword"
// @Param category query int false "Category ID"
// @Param published query bool false "Only published (true) or only drafts (false)"
// @Success 200 {object} map[string]interface{} "Articles retrieved successfully"
// @Router /admin/blogs [get]
func (ac *ArticleController) GetAdminArticles(c *gin.Context) {
	filter, ok := filterFromQuery(c)
	if !ok {
		return
	}
	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid published filter",
				"error":   "published must be true or false",
			})
			return
		}
		filter.PublishedOnly = published
		filter.UnpublishedOnly = !published
	}

	articles, err := ac.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve articles",
			"error":   "Database query failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Articles retrieved successfully",
		"data":    toCards(articles),
	})
}

// GetAdminArticle godoc
// @Summary Load an article for editing
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} map[string]interface{} "Article retrieved successfully"
// @Failure 404 {object} map[string]interface{} "Article not found"
// @Router /admin/blogs/{id} [get]
func (ac *ArticleController) GetAdminArticle(c *gin.Context) {
	id, ok := parseID(c, "article")
	if !ok {
		return
	}

	article, err := ac.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		ac.respondError(c, err, "Failed to retrieve article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article retrieved successfully",
		"data": gin.H{
			"article":      article,
			"category_ids": article.CategoryIDs(),
		},
	})
}

// CreateArticle godoc
// @Summary Create a new article
// @Description Create an article with the provided data. The body is sanitized before it is stored.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param article body ArticleRequest true "Article data"
// @Success 201 {object} map[string]interface{} "Article created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Failed to create article"
// @Router /admin/blogs [post]
func (ac *ArticleController) CreateArticle(c *gin.Context) {
	var req ArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article := models.Article{
		Title:     strings.TrimSpace(req.Title),
		Content:   content.Sanitize(req.Content),
		Thumbnail: strings.TrimSpace(req.Thumbnail),
	}
	if req.Published != nil {
		article.Published = *req.Published
	}
	if !ac.checkCategories(c, req.CategoryIDs) {
		return
	}

	if err := ac.repo.Create(c.Request.Context(), &article, req.CategoryIDs); err != nil {
		ac.respondError(c, err, "Failed to create article")
		return
	}

	ac.logger.Info("article created", "article_id", article.ID, "account_id", c.GetUint("account_id"))
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Article created successfully",
		"data":    article,
	})
}

// UpdateArticle godoc
// @Summary Update an article
// @Description Replace title, body, thumbnail and categories. Published is kept unless supplied.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param article body ArticleRequest true "Article data"
// @Success 200 {object} map[string]interface{} "Article updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "Article not found"
// @Router /admin/blogs/{id} [put]
func (ac *ArticleController) UpdateArticle(c *gin.Context) {
	id, ok := parseID(c, "article")
	if !ok {
		return
	}

	var req ArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	if !ac.checkCategories(c, req.CategoryIDs) {
		return
	}

	article, err := ac.repo.Update(c.Request.Context(), id, repository.ArticleFields{
		Title:     strings.TrimSpace(req.Title),
		Content:   content.Sanitize(req.Content),
		Thumbnail: strings.TrimSpace(req.Thumbnail),
		Published: req.Published,
	}, req.CategoryIDs)
	if err != nil {
		ac.respondError(c, err, "Failed to update article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article updated successfully",
		"data":    article,
	})
}

// SetPublished godoc
// @Summary Set the published flag
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param body body PublishRequest true "New state"
// @Success 200 {object} map[string]interface{} "Publish state updated"
// @Failure 404 {object} map[string]interface{} "Article not found"
// @Router /admin/blogs/{id}/publish [patch]
func (ac *ArticleController) SetPublished(c *gin.Context) {
	id, ok := parseID(c, "article")
	if !ok {
		return
	}

	var req PublishRequest
	if !bindJSON(c, &req) {
		return
	}

	published, err := ac.repo.SetPublished(c.Request.Context(), id, *req.Published)
	if err != nil {
		ac.respondError(c, err, "Failed to update publish state")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Publish state updated",
		"data":    gin.H{"id": id, "published": published},
	})
}

// TogglePublished godoc
// @Summary Flip the published flag
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} map[string]interface{} "Publish state updated"
// @Failure 404 {object} map[string]interface{} "Article not found"
// @Router /admin/blogs/{id}/toggle-publish [post]
func (ac *ArticleController) TogglePublished(c *gin.Context) {
	id, ok := parseID(c, "article")
	if !ok {
		return
	}

	published, err := ac.repo.TogglePublished(c.Request.Context(), id)
	if err != nil {
		ac.respondError(c, err, "Failed to update publish state")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Publish state updated",
		"data":    gin.H{"id": id, "published": published},
	})
}

// DeleteArticle godoc
// @Summary Delete an article
// @Description Irreversible; requires confirm=true
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]interface{} "Article deleted successfully"
// @Failure 400 {object} map[string]interface{} "Deletion must be confirmed"
// @Failure 404 {object} map[string]interface{} "Article not found"
// @Router /admin/blogs/{id} [delete]
func (ac *ArticleController) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c, "article")
	if !ok {
		return
	}
	if !confirmed(c) {
		return
	}

	if err := ac.repo.Delete(c.Request.Context(), id); err != nil {
		ac.respondError(c, err, "Failed to delete article")
		return
	}

	ac.logger.Info("article deleted", "article_id", id, "account_id", c.GetUint("account_id"))
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article deleted successfully",
		"data":    nil,
	})
}

// checkCategories answers 400 itself, naming the ids that have no category.
func (ac *ArticleController) checkCategories(c *gin.Context, ids []uint) bool {
	if len(ids) == 0 {
		return true
	}
	found, err := ac.categories.FindByIDs(c.Request.Context(), ids)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to validate categories",
			"error":   "Database query failed",
		})
		return false
	}

	seen := make(map[uint]bool, len(found))
	for _, category := range found {
		seen[category.ID] = true
	}
	missing := make([]string, 0)
	for _, id := range ids {
		if !seen[id] {
			missing = append(missing, strconv.FormatUint(uint64(id), 10))
			seen[id] = true
		}
	}
	if len(missing) == 0 {
		return true
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "Validation failed",
		"error":   repository.ErrUnknownCategory.Error(),
		"fields":  map[string]string{"category_ids": "Unknown category: " + strings.Join(missing, ", ")},
	})
	return false
}

func (ac *ArticleController) respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, repository.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Article not found",
			"error":   "No article exists with the provided ID",
		})
	case errors.Is(err, repository.ErrUnknownCategory):
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Validation failed",
			"error":   err.Error(),
			"fields":  map[string]string{"category_ids": "Unknown category"},
		})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": message,
			"error":   "Database operation failed",
		})
	}
}
