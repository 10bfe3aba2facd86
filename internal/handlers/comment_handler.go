package handlers

import (
	"net/http"

	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	posts *services.PostService
	log   *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(posts *services.PostService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{posts: posts, log: log}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment, middleware.RequireUser)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID := c.Param("id")
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeFailure(c, h.log, err, "Failed to create comment")
	}

	comment, err := h.posts.CreateComment(c.Request().Context(), middleware.UserID(c), postID, req.Content)
	if err != nil {
		return writeFailure(c, h.log, err, "Failed to create comment", zap.String("post_id", postID))
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}
