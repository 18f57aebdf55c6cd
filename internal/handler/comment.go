package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blogkit/backend/internal/model"
	"github.com/blogkit/backend/internal/service"
)

type CommentHandler struct {
	svc    *service.CommentService
	logger *slog.Logger
}

func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, logger: logger}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	authUserID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), authUserID, req.PostID, req.Content)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	comment, err := h.svc.GetComment(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// ListComments returns every comment, or the comments of one post when a
// postId query parameter is given.
func (h *CommentHandler) ListComments(c *gin.Context) {
	if raw := c.Query("postId"); raw != "" {
		postID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
			return
		}
		comments, err := h.svc.ListCommentsByPost(c.Request.Context(), postID)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, comments)
		return
	}

	comments, err := h.svc.ListComments(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	authUserID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	comment, err := h.svc.UpdateComment(c.Request.Context(), authUserID, id, req.Content)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	authUserID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), authUserID, id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "deleted"})
}
