package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/advncdblog/backend/internal/models"
	"github.com/advncdblog/backend/internal/store"
)

// AddComment appends a comment to a post and returns the post re-run through
// the full nested reshape, reflecting the fresh comment.
func (h *BlogHandler) AddComment(c *gin.Context) {
	blogID, ok := parseID(c, "blogId")
	if !ok {
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	authorID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	post, err := h.blogs.AddComment(c.Request.Context(), blogID, authorID, input.Comment)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "Blog not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	respond(c, http.StatusCreated, post)
}

// AddReply appends a reply to a specific comment of a post.
func (h *BlogHandler) AddReply(c *gin.Context) {
	blogID, ok := parseID(c, "blogId")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "commentId")
	if !ok {
		return
	}

	var input models.CreateReplyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	authorID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	post, err := h.blogs.AddReply(c.Request.Context(), blogID, commentID, authorID, input.Reply)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "Blog not found")
		case errors.Is(err, store.ErrCommentNotFound):
			respondError(c, http.StatusNotFound, "Comment not found")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to add reply")
		}
		return
	}

	respond(c, http.StatusCreated, post)
}
