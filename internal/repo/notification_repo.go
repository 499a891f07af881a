package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

// CreateNotification appends an unread notification for n.UserID.
func CreateNotification(ctx context.Context, db *gorm.DB, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.IsRead = false
	return db.WithContext(ctx).Create(n).Error
}

// ListNotifications returns all of a user's notifications, newest first.
func ListNotifications(ctx context.Context, db *gorm.DB, userID string) ([]domain.Notification, error) {
	out := []domain.Notification{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// CountNotifications returns the number of notifications addressed to userID.
func CountNotifications(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListNotificationsPage returns a newest-first slice of a user's
// notifications. Use CountNotifications for pagination metadata.
func ListNotificationsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Notification, error) {
	out := []domain.Notification{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkNotificationRead sets is_read on the notification with the given ID,
// whoever it is addressed to. Returns ErrNotFound when the ID is unknown.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
