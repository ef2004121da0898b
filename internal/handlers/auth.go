package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/advncdblog/backend/internal/auth"
	"github.com/advncdblog/backend/internal/middleware"
	"github.com/advncdblog/backend/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

func NewAuthHandler(db *gorm.DB, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens}
}

// Register handles user registration and returns a token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	email := strings.ToLower(input.Email)

	var existing models.User
	if err := h.db.Where("username = ? OR email = ?", input.Username, email).
		First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "User already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}

	if err := h.db.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	pair, err := h.tokens.Issue(c.Request.Context(), &user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respond(c, http.StatusCreated, pair)
}

// Login checks credentials and returns a fresh token pair. Logging in
// overwrites the stored refresh token, invalidating any previous session.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", strings.ToLower(input.Email)).
		First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	pair, err := h.tokens.Issue(c.Request.Context(), &user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respond(c, http.StatusOK, pair)
}

// Refresh exchanges a still-valid refresh token for a new pair. A refresh
// token superseded by a newer login is rejected.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input models.RefreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	pair, err := h.tokens.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, auth.ErrInvalidToken):
			respondError(c, http.StatusUnauthorized, "Invalid refresh token")
		default:
			respondError(c, http.StatusInternalServerError, "Server error")
		}
		return
	}

	respond(c, http.StatusOK, pair)
}

// GetMe returns the authenticated user attached by the access gate.
func (h *AuthHandler) GetMe(c *gin.Context) {
	raw, exists := c.Get(middleware.UserKey)
	if !exists {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, ok := raw.(*models.User)
	if !ok {
		respondError(c, http.StatusInternalServerError, "Server error")
		return
	}

	respond(c, http.StatusOK, user)
}
