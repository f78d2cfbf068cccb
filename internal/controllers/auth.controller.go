package controllers

import (
	"context"
	"errors"
	"net/http"

	"blogcms/internal/models"
	"blogcms/internal/repository"
	"blogcms/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthService is the part of services.AuthService the HTTP layer uses.
type AuthService interface {
	Signup(ctx context.Context, username, password string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

type AuthController struct {
	auth AuthService
}

func NewAuthController(auth AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"correct horse"`
}

type SignupRequest struct {
	Username        string `json:"username" binding:"required,notblank,max=64" example:"editor"`
	Password        string `json:"password" binding:"required,min=8,max=72" example:"correct horse"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password" example:"correct horse"`
}

// LoginUser godoc
// @Summary Log in
// @Description Exchanges username and password for a bearer token. Every failure returns the same message.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{} "Login successful"
// @Failure 401 {object} map[string]interface{} "Invalid username or password"
// @Failure 429 {object} map[string]interface{} "Too many attempts"
// @Router /login [post]
func (ac *AuthController) LoginUser(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid username or password",
				"error":   "Authentication failed",
			})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to log in",
			"error":   "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Login successful",
		"data": gin.H{
			"token":      result.Token,
			"expires_at": result.ExpiresAt,
			"account":    result.Account,
			"redirect":   "/admin/dashboard",
		},
	})
}

// LogoutUser godoc
// @Summary Log out
// @Description Revokes the session behind the bearer token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Logged out"
// @Router /logout [post]
func (ac *AuthController) LogoutUser(c *gin.Context) {
	if err := ac.auth.Logout(c.Request.Context(), c.GetString("session_id")); err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to log out",
			"error":   "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out",
		"data":    gin.H{"redirect": "/login"},
	})
}

// SignupUser godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param account body SignupRequest true "New account"
// @Success 201 {object} map[string]interface{} "Account created successfully"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 409 {object} map[string]interface{} "Username already exists"
// @Router /signup [post]
func (ac *AuthController) SignupUser(c *gin.Context) {
	account, ok := signup(c, ac.auth)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Account created successfully",
		"data": gin.H{
			"account":  account,
			"redirect": "/account-success",
		},
	})
}

// signup binds a SignupRequest and creates the account, answering every
// failure itself.
func signup(c *gin.Context, auth AuthService) (*models.Account, bool) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return nil, false
	}

	account, err := auth.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": "Username already exists",
				"error":   err.Error(),
				"fields":  map[string]string{"username": "This username is already taken"},
			})
		case errors.Is(err, services.ErrWeakPassword), errors.Is(err, services.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Validation failed",
				"error":   err.Error(),
				"fields":  map[string]string{"password": err.Error()},
			})
		case errors.Is(err, services.ErrInvalidUsername):
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Validation failed",
				"error":   err.Error(),
				"fields":  map[string]string{"username": "This field is required"},
			})
		default:
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to create account",
				"error":   "Internal server error",
			})
		}
		return nil, false
	}
	return account, true
}
