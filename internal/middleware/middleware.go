package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"blogcms/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	ContextAccountID = "account_id"
	ContextUsername  = "username"
	ContextSessionID = "session_id"
)

// Authenticator resolves a bearer token to the caller behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Principal, error)
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authorization header is required",
				"error":   "Missing authorization token",
			})
			return
		}

		// Bearer {token}
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid authorization header format",
				"error":   "Use format: Bearer {token}",
			})
			return
		}

		principal, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSessionExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"status":  "error",
					"message": "Session expired, please log in again",
					"error":   err.Error(),
				})
			case errors.Is(err, services.ErrInvalidToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"status":  "error",
					"message": "Invalid or expired token",
					"error":   "Token validation failed",
				})
			default:
				c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"status":  "error",
					"message": "Failed to verify session",
					"error":   "Internal server error",
				})
			}
			return
		}

		c.Set(ContextAccountID, principal.AccountID)
		c.Set(ContextUsername, principal.Username)
		c.Set(ContextSessionID, principal.SessionID)
		c.Next()
	}
}
