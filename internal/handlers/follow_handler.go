package handlers

import (
	"net/http"

	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/anonto42/pigstar/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	profiles *services.ProfileService
	log      *zap.Logger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(profiles *services.ProfileService, log *zap.Logger) *FollowHandler {
	return &FollowHandler{profiles: profiles, log: log}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow, middleware.RequireUser)
	g.GET("/users/:id/follow", h.IsFollowing)
}

// ToggleFollow follows the user, or unfollows when already following
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	targetID := c.Param("id")
	result, err := h.profiles.ToggleFollow(c.Request().Context(), middleware.UserID(c), targetID)
	if err != nil {
		return writeFailure(c, h.log, err, "Failed to toggle follow", zap.String("target_id", targetID))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
}

// IsFollowing reports whether the caller follows the user. Anonymous callers follow nobody.
func (h *FollowHandler) IsFollowing(c echo.Context) error {
	following, err := h.profiles.IsFollowing(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.log.Error("failed to check follow status", zap.Error(err))
		following = false
	}
	return c.JSON(http.StatusOK, echo.Map{"following": following})
}
