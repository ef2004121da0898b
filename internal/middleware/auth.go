package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/advncdblog/backend/internal/auth"
)

// Context keys set for downstream handlers once the bearer token verifies.
const (
	UserKey   = "user"
	UserIDKey = "user_id"
)

// AuthMiddleware extracts the bearer token, verifies it and attaches the
// resolved user to the request context. Any failure short-circuits before the
// handler body runs.
func AuthMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access denied: no token provided",
			})
			return
		}

		user, err := tokens.Verify(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUserNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"success": false,
					"message": "User not found",
				})
			case errors.Is(err, auth.ErrInvalidToken):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Invalid token",
				})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "Server error",
				})
			}
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}
