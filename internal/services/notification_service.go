// Package services – NotificationService
//
// NotificationService is the notification sink. Lifecycle services call
// Notify after their own transaction committed; a failed write is logged and
// counted but never surfaces to the caller. Listing is per recipient,
// newest first.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/domain"
	"github.com/swadrive/swadrive-backend/internal/observability"
	"github.com/swadrive/swadrive-backend/internal/repo"
)

// Notifier is the sink other services emit events into.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// NotificationService persists and lists in-app notifications.
type NotificationService struct {
	DB *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Notify stores n as an unread notification. Errors are logged with the
// request-scoped logger from ctx and otherwise swallowed.
func (s *NotificationService) Notify(ctx context.Context, n domain.Notification) {
	if n.UserID == "" {
		return
	}
	n.ID = ""
	n.CreatedAt = time.Time{}
	if err := repo.CreateNotification(ctx, s.DB, &n); err != nil {
		observability.NotificationsDropped.WithLabelValues(string(n.Type)).Inc()
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("user_id", n.UserID).
			Str("type", string(n.Type)).
			Msg("notification dropped")
	}
}

// List returns all notifications addressed to userID, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return repo.ListNotifications(ctx, s.DB, userID)
}

// ListPage returns one page of notifications plus the total count.
func (s *NotificationService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountNotifications(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Notification{}, 0, nil
	}
	items, err := repo.ListNotificationsPage(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
	return items, total, err
}

// MarkRead flags a notification as read. Any authenticated customer may
// mark any notification; only unknown IDs fail (ErrNotificationNotFound).
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := repo.MarkNotificationRead(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// Stats returns the aggregates used to build the listing's ETag.
func (s *NotificationService) Stats(ctx context.Context, userID string) (count, unread int64, latest *time.Time, err error) {
	return repo.NotificationsStats(ctx, s.DB, userID)
}
