package handlers

import (
	"net/http"

	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler handles profile and account HTTP requests
type UserHandler struct {
	profiles *services.ProfileService
	log      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(profiles *services.ProfileService, log *zap.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, log: log}
}

// RegisterProfileRoutes registers profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.GetCurrentUser, middleware.RequireUser)
	g.GET("/profile/by-username/:username", h.GetProfileByUsername)
	g.PUT("/profile", h.UpdateProfile, middleware.RequireUser)
	g.GET("/users/suggestions", h.GetSuggestions)
}

// GetCurrentUser returns the caller's account
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	user, err := h.profiles.GetUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeFailure(c, h.log, err, "Failed to fetch user")
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfileByUsername returns a profile with follower, following and post counts
func (h *UserHandler) GetProfileByUsername(c echo.Context) error {
	username := c.Param("username")
	profile, err := h.profiles.GetProfileByUsername(c.Request().Context(), username)
	if err != nil {
		return writeFailure(c, h.log, err, "Failed to fetch profile", zap.String("username", username))
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the caller's display name, bio, location and website
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeFailure(c, h.log, err, "Failed to update profile")
	}

	user, err := h.profiles.UpdateProfile(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return writeFailure(c, h.log, err, "Failed to update profile")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// GetSuggestions proposes users to follow. Anonymous callers get none.
func (h *UserHandler) GetSuggestions(c echo.Context) error {
	users, err := h.profiles.GetSuggestions(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		h.log.Error("failed to fetch suggestions", zap.Error(err))
		users = []models.Suggestion{}
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}
