package handlers

import (
	"net/http"

	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
	log   *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.POST("/posts", h.CreatePost, middleware.RequireUser)
	g.GET("/posts/:id", h.GetPostByID)
	g.DELETE("/posts/:id", h.DeletePost, middleware.RequireUser)
}

// GetPosts returns the global feed. Failures degrade to an empty page.
func (h *PostHandler) GetPosts(c echo.Context) error {
	page, err := h.posts.GetPosts(c.Request().Context(), c.QueryParam("cursor"), queryLimit(c))
	if err != nil {
		h.log.Error("failed to fetch posts", zap.Error(err))
		page = services.EmptyPage[models.PostView]()
	}
	return c.JSON(http.StatusOK, postPage(page))
}

// CreatePost handles creating a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeFailure(c, h.log, err, "Failed to create post")
	}

	post, err := h.posts.CreatePost(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return writeFailure(c, h.log, err, "Failed to create post")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": post})
}

// GetPostByID returns a post with its author, comments and likes
func (h *PostHandler) GetPostByID(c echo.Context) error {
	post, err := h.posts.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeFailure(c, h.log, err, "Failed to fetch post", zap.String("post_id", c.Param("id")))
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID := c.Param("id")
	if err := h.posts.DeletePost(c.Request().Context(), middleware.UserID(c), postID); err != nil {
		return writeFailure(c, h.log, err, "Failed to delete post", zap.String("post_id", postID))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
