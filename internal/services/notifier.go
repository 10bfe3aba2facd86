package services

import (
	"context"
	"fmt"

	"github.com/anonto42/pigstar/backend/internal/metrics"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier writes notifications inside the caller's transaction.
type Notifier struct {
	notifications repositories.NotificationRepository
	log           *zap.Logger
}

func NewNotifier(notifications repositories.NotificationRepository, log *zap.Logger) *Notifier {
	return &Notifier{notifications: notifications, log: log}
}

// Notify records n within tx. Actions on one's own content produce nothing.
// An error must abort tx so the paired write is rolled back too.
func (n *Notifier) Notify(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	if notification.ActorID == notification.RecipientID {
		return nil
	}
	if err := n.notifications.WithTx(tx).CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("create %s notification: %w", notification.Type, err)
	}
	metrics.NotificationsTotal.WithLabelValues(string(notification.Type)).Inc()
	return nil
}

// NotificationService serves a user's notification inbox.
type NotificationService struct {
	notifications repositories.NotificationRepository
	log           *zap.Logger
}

func NewNotificationService(notifications repositories.NotificationRepository, log *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, log: log}
}

// List returns the notifications of userID, newest first.
func (s *NotificationService) List(ctx context.Context, userID, cursor string, limit int) (Page[models.NotificationView], error) {
	limit = NormalizeLimit(limit)
	rows, err := s.notifications.ListByRecipient(ctx, userID, cursor, limit+1)
	if err != nil {
		return Page[models.NotificationView]{}, fmt.Errorf("list notifications: %w", err)
	}
	return BuildPage(rows, limit,
		func(n models.Notification) string { return n.ID },
		models.NewNotificationView,
	), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notifications.GetUnreadCount(ctx, userID)
}

// MarkRead flags ids as read. Ids that belong to other users are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	changed, err := s.notifications.MarkAsRead(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	s.log.Debug("notifications marked read", zap.String("user_id", userID), zap.Int64("count", changed))
	return changed, nil
}
