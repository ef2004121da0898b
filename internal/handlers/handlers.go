package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/advncdblog/backend/internal/auth"
	"github.com/advncdblog/backend/internal/middleware"
	"github.com/advncdblog/backend/internal/store"
)

// Handler combines all handler types
type Handler struct {
	Auth *AuthHandler
	Blog *BlogHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, tokens *auth.TokenService) *Handler {
	return &Handler{
		Auth: NewAuthHandler(db, tokens),
		Blog: NewBlogHandler(store.NewBlogStore(db)),
	}
}

// Every response is a single success/failure envelope.

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func currentUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := raw.(int)
	return id, ok
}
