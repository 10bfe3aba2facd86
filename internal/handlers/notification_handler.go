package handlers

import (
	"net/http"

	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
	log           *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.POST("/notifications/read", h.MarkAsRead, middleware.RequireUser)
}

// GetNotifications lists the caller's notifications, newest first.
// Anonymous callers and failures get an empty list.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := middleware.UserID(c)
	empty := echo.Map{"notifications": []models.NotificationView{}, "nextCursor": nil, "unread": 0}
	if userID == "" {
		return c.JSON(http.StatusOK, empty)
	}

	ctx := c.Request().Context()
	page, err := h.notifications.List(ctx, userID, c.QueryParam("cursor"), queryLimit(c))
	if err != nil {
		h.log.Error("failed to fetch notifications", zap.String("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusOK, empty)
	}
	unread, err := h.notifications.UnreadCount(ctx, userID)
	if err != nil {
		h.log.Warn("failed to count unread notifications", zap.String("user_id", userID), zap.Error(err))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"notifications": page.Items,
		"nextCursor":    page.NextCursor,
		"unread":        unread,
	})
}

// MarkAsRead flags the given notifications of the caller as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	var req models.MarkReadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeFailure(c, h.log, err, "Failed to mark notifications as read")
	}

	updated, err := h.notifications.MarkRead(c.Request().Context(), middleware.UserID(c), req.IDs)
	if err != nil {
		return writeFailure(c, h.log, err, "Failed to mark notifications as read")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"updated": updated}})
}
