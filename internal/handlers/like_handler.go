package handlers

import (
	"net/http"

	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/anonto42/pigstar/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	posts *services.PostService
	log   *zap.Logger
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(posts *services.PostService, log *zap.Logger) *LikeHandler {
	return &LikeHandler{posts: posts, log: log}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike, middleware.RequireUser)
}

// ToggleLike likes the post, or unlikes it when already liked
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	postID := c.Param("id")
	result, err := h.posts.ToggleLike(c.Request().Context(), middleware.UserID(c), postID)
	if err != nil {
		return writeFailure(c, h.log, err, "Failed to toggle like", zap.String("post_id", postID))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
}
