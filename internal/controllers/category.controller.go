package controllers

import (
	"errors"
	"net/http"

	"blogcms/internal/repository"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	repo repository.CategoryRepository
}

func NewCategoryController(repo repository.CategoryRepository) *CategoryController {
	return &CategoryController{repo: repo}
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100" example:"golang"`
}

// GetCategories godoc
// @Summary List categories
// @Description All categories ordered by name
// @Tags blog
// @Produce json
// @Success 200 {object} map[string]interface{} "Categories retrieved successfully"
// @Router /categories [get]
func (cc *CategoryController) GetCategories(c *gin.Context) {
	categories, err := cc.repo.ListAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve categories",
			"error":   "Database query failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// CreateCategory godoc
// @Summary Add a category
// @Description Returns the existing category when the name is already taken
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body CategoryRequest true "Category name"
// @Success 201 {object} map[string]interface{} "Category created successfully"
// @Success 200 {object} map[string]interface{} "Category already exists"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Router /admin/categories [post]
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, created, err := cc.repo.FindOrCreate(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Validation failed",
				"error":   err.Error(),
				"fields":  map[string]string{"name": "This field is required"},
			})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create category",
			"error":   "Database operation failed",
		})
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Category already exists",
			"data":    category,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Category created successfully",
		"data":    category,
	})
}
