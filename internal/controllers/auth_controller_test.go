package controllers_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"blogcms/internal/controllers"
	"blogcms/internal/mocks"
	"blogcms/internal/models"
	"blogcms/internal/repository"
	"blogcms/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAuthRouter() (*gin.Engine, *mocks.MockAuthService) {
	auth := new(mocks.MockAuthService)
	controller := controllers.NewAuthController(auth)

	router := setupTestRouter()
	router.POST("/api/auth/login", controller.LoginUser)
	router.POST("/api/auth/signup", controller.SignupUser)
	router.POST("/api/auth/logout", addAuthMiddleware(1, "session-1"), controller.LogoutUser)
	return router, auth
}

func TestLoginUser(t *testing.T) {
	tests := []struct {
		name            string
		body            map[string]interface{}
		setupMocks      func(*mocks.MockAuthService)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "success",
			body: map[string]interface{}{"username": "admin", "password": "correct horse"},
			setupMocks: func(m *mocks.MockAuthService) {
				m.On("Login", mock.Anything, "admin", "correct horse").Return(&services.LoginResult{
					Token:     "token",
					ExpiresAt: time.Now().Add(time.Hour),
					Account:   &models.Account{ID: 1, Username: "admin"},
				}, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Login successful",
		},
		{
			name: "unknown username",
			body: map[string]interface{}{"username": "ghost", "password": "whatever1"},
			setupMocks: func(m *mocks.MockAuthService) {
				m.On("Login", mock.Anything, "ghost", "whatever1").Return(nil, services.ErrInvalidCredentials)
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid username or password",
		},
		{
			name: "wrong password",
			body: map[string]interface{}{"username": "admin", "password": "nope"},
			setupMocks: func(m *mocks.MockAuthService) {
				m.On("Login", mock.Anything, "admin", "nope").Return(nil, services.ErrInvalidCredentials)
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid username or password",
		},
		{
			name:            "missing password",
			body:            map[string]interface{}{"username": "admin"},
			setupMocks:      func(*mocks.MockAuthService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Validation failed",
		},
		{
			name: "store failure",
			body: map[string]interface{}{"username": "admin", "password": "x"},
			setupMocks: func(m *mocks.MockAuthService) {
				m.On("Login", mock.Anything, "admin", "x").Return(nil, errors.New("db down"))
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Failed to log in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupAuthRouter()
			tt.setupMocks(auth)

			w := performRequest(router, http.MethodPost, "/api/auth/login", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			response := decode(t, w)
			assert.Equal(t, tt.expectedMessage, response["message"])
			if tt.expectedStatus == http.StatusOK {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "token", data["token"])
				assert.Equal(t, "/admin/dashboard", data["redirect"])
				assert.NotContains(t, data["account"], "password_hash")
			}
			auth.AssertExpectations(t)
		})
	}
}

func TestSignupUser(t *testing.T) {
	valid := map[string]interface{}{
		"username":         "editor",
		"password":         "correct horse",
		"confirm_password": "correct horse",
	}

	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
		expectedField  string
	}{
		{
			name: "success",
			body: valid,
			setupMocks: func(m *mocks.MockAuthService) {
				m.On("Signup", mock.Anything, "editor", "correct horse").Return(&models.Account{ID: 2, Username: "editor"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "username taken",
			body: valid,
			setupMocks: func(m *mocks.MockAuthService) {
				m.On("Signup", mock.Anything, "editor", "correct horse").Return(nil, repository.ErrUsernameTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedField:  "username",
		},
		{
			name: "passwords differ",
			body: map[string]interface{}{
				"username":         "editor",
				"password":         "correct horse",
				"confirm_password": "correct horse!",
			},
			setupMocks:     func(*mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "confirm_password",
		},
		{
			name: "short password",
			body: map[string]interface{}{
				"username":         "editor",
				"password":         "short",
				"confirm_password": "short",
			},
			setupMocks:     func(*mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "password",
		},
		{
			name: "blank username",
			body: map[string]interface{}{
				"username":         "  ",
				"password":         "correct horse",
				"confirm_password": "correct horse",
			},
			setupMocks:     func(*mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "username",
		},
		{
			name: "multibyte password over bcrypt limit",
			body: map[string]interface{}{
				"username":         "editor",
				"password":         strings.Repeat("é", 72),
				"confirm_password": strings.Repeat("é", 72),
			},
			setupMocks: func(m *mocks.MockAuthService) {
				m.On("Signup", mock.Anything, "editor", strings.Repeat("é", 72)).Return(nil, services.ErrPasswordTooLong)
			},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupAuthRouter()
			tt.setupMocks(auth)

			w := performRequest(router, http.MethodPost, "/api/auth/signup", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			response := decode(t, w)
			if tt.expectedField != "" {
				assert.Contains(t, response["fields"], tt.expectedField)
			}
			if tt.expectedStatus == http.StatusCreated {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "/account-success", data["redirect"])
			}
			auth.AssertExpectations(t)
		})
	}
}

func TestLogoutUser(t *testing.T) {
	router, auth := setupAuthRouter()
	auth.On("Logout", mock.Anything, "session-1").Return(nil)

	w := performRequest(router, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	auth.AssertExpectations(t)
}
