package handlers

import (
	"net/http"

	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FeedHandler serves the per-user post feeds shown on profiles
type FeedHandler struct {
	posts *services.PostService
	log   *zap.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(posts *services.PostService, log *zap.Logger) *FeedHandler {
	return &FeedHandler{posts: posts, log: log}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/profile/:userId/posts", h.GetUserPosts)
	g.GET("/profile/:userId/likes", h.GetUserLikedPosts)
}

// GetUserPosts returns the posts authored by a user
func (h *FeedHandler) GetUserPosts(c echo.Context) error {
	userID := c.Param("userId")
	page, err := h.posts.GetUserPosts(c.Request().Context(), userID, c.QueryParam("cursor"), queryLimit(c))
	if err != nil {
		h.log.Error("failed to fetch user posts", zap.String("user_id", userID), zap.Error(err))
		page = services.EmptyPage[models.PostView]()
	}
	return c.JSON(http.StatusOK, postPage(page))
}

// GetUserLikedPosts returns the posts a user has liked
func (h *FeedHandler) GetUserLikedPosts(c echo.Context) error {
	userID := c.Param("userId")
	page, err := h.posts.GetUserLikedPosts(c.Request().Context(), userID, c.QueryParam("cursor"), queryLimit(c))
	if err != nil {
		h.log.Error("failed to fetch liked posts", zap.String("user_id", userID), zap.Error(err))
		page = services.EmptyPage[models.PostView]()
	}
	return c.JSON(http.StatusOK, postPage(page))
}
