package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"blogcms/internal/repository"

	"github.com/gin-gonic/gin"
)

type AccountController struct {
	repo   repository.AccountRepository
	auth   AuthService
	logger *slog.Logger
}

func NewAccountController(repo repository.AccountRepository, auth AuthService, logger *slog.Logger) *AccountController {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountController{repo: repo, auth: auth, logger: logger}
}

// GetAccounts godoc
// @Summary List accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Accounts retrieved successfully"
// @Router /admin/accounts [get]
func (ac *AccountController) GetAccounts(c *gin.Context) {
	accounts, err := ac.repo.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve accounts",
			"error":   "Database query failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Accounts retrieved successfully",
		"data":    accounts,
	})
}

// CreateAccount godoc
// @Summary Create an account from the admin area
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account body SignupRequest true "New account"
// @Success 201 {object} map[string]interface{} "Account created successfully"
// @Failure 409 {object} map[string]interface{} "Username already exists"
// @Router /admin/accounts [post]
func (ac *AccountController) CreateAccount(c *gin.Context) {
	account, ok := signup(c, ac.auth)
	if !ok {
		return
	}

	ac.logger.Info("account created by admin", "account_id", account.ID, "created_by", c.GetUint("account_id"))
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Account created successfully",
		"data": gin.H{
			"account":  account,
			"redirect": "/admin/account-success",
		},
	})
}

// DeleteAccount godoc
// @Summary Delete an account
// @Description Irreversible; requires confirm=true. Open sessions of the account are revoked.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} map[string]interface{} "Account deleted successfully"
// @Failure 400 {object} map[string]interface{} "Deletion must be confirmed"
// @Failure 404 {object} map[string]interface{} "Account not found"
// @Router /admin/accounts/{id} [delete]
func (ac *AccountController) DeleteAccount(c *gin.Context) {
	id, ok := parseID(c, "account")
	if !ok {
		return
	}
	if !confirmed(c) {
		return
	}

	if err := ac.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Account not found",
				"error":   "No account exists with the provided ID",
			})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete account",
			"error":   "Database deletion failed",
		})
		return
	}

	ac.logger.Info("account deleted", "account_id", id, "deleted_by", c.GetUint("account_id"))
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Account deleted successfully",
		"data":    nil,
	})
}
