// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

// NotificationsStats returns the number of notifications addressed to
// userID, how many of them are unread, and the newest CreatedAt (nil when
// there are none). Marking one read changes unread, so the triple changes
// whenever the listing does.
func NotificationsStats(ctx context.Context, db *gorm.DB, userID string) (count, unread int64, latest *time.Time, err error) {
	scope := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.Notification{}).Where("user_id = ?", userID)
	}

	if err = scope().Count(&count).Error; err != nil {
		return 0, 0, nil, err
	}
	if count == 0 {
		return 0, 0, nil, nil
	}
	if err = scope().Where("is_read = ?", false).Count(&unread).Error; err != nil {
		return 0, 0, nil, err
	}

	// Latest row instead of MAX(), which SQLite returns as TEXT.
	var row struct {
		CreatedAt time.Time
	}
	if err = scope().Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, nil, err
	}
	return count, unread, &row.CreatedAt, nil
}

// ChatMessagesStats returns the number of messages in a chat and the
// greatest UpdatedAt among them (nil when the chat is empty).
func ChatMessagesStats(ctx context.Context, db *gorm.DB, chatID string) (count int64, maxUpdatedAt *time.Time, err error) {
	scope := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.ChatMessage{}).Where("chat_id = ?", chatID)
	}

	if err = scope().Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		UpdatedAt time.Time
	}
	if err = scope().Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
