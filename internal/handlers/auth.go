package handlers

import (
	"net/http"

	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// AuthHandler exposes the identity sync endpoint. The session middleware has
// already verified the token and upserted the user by the time it runs.
type AuthHandler struct{}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/auth/sync", h.Sync, middleware.RequireUser)
}

// Sync returns the internal user mirrored from the caller's identity
func (h *AuthHandler) Sync(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": middleware.CurrentUser(c)})
}
