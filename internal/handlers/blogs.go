package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/advncdblog/backend/internal/models"
	"github.com/advncdblog/backend/internal/store"
)

type BlogHandler struct {
	blogs *store.BlogStore
}

func NewBlogHandler(blogs *store.BlogStore) *BlogHandler {
	return &BlogHandler{blogs: blogs}
}

// parseID rejects malformed identifiers before any storage access.
func parseID(c *gin.Context, param string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// GetBlogs returns a paginated, newest-first listing. Missing or non-numeric
// page/limit fall back to page 1, limit 10.
func (h *BlogHandler) GetBlogs(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}

	result, err := h.blogs.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch blogs")
		return
	}

	respond(c, http.StatusOK, result)
}

// CreateBlog creates a new post for the authenticated user. All fields are
// required; the response comes back author-joined.
func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	authorID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	post, err := h.blogs.Create(c.Request.Context(), authorID, input.Title, input.Content, input.Category, input.Tags)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create blog")
		return
	}

	respond(c, http.StatusCreated, post)
}

// GetBlog returns a single post with its full comment/reply tree.
func (h *BlogHandler) GetBlog(c *gin.Context) {
	blogID, ok := parseID(c, "blogId")
	if !ok {
		return
	}

	post, err := h.blogs.GetEnriched(c.Request.Context(), blogID)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "Blog not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch blog")
		return
	}

	respond(c, http.StatusOK, post)
}

// UpdateBlog applies a partial field merge to an existing post.
func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	blogID, ok := parseID(c, "blogId")
	if !ok {
		return
	}

	var input models.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	post, err := h.blogs.Update(c.Request.Context(), blogID, input)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "Blog not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to update blog")
		return
	}

	respond(c, http.StatusOK, post)
}
