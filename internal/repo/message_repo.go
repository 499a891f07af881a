// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for chat messages.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

// CreateChatMessage inserts a new message row.
func CreateChatMessage(ctx context.Context, db *gorm.DB, chatID, senderID string, role domain.Role, text string) (*domain.ChatMessage, error) {
	now := time.Now().UTC()
	m := &domain.ChatMessage{
		ID:         uuid.NewString(),
		ChatID:     chatID,
		SenderID:   senderID,
		SenderRole: role,
		Message:    text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return m, db.WithContext(ctx).Create(m).Error
}

// GetChatMessage fetches a message by ID.
func GetChatMessage(ctx context.Context, db *gorm.DB, id string) (*domain.ChatMessage, error) {
	var m domain.ChatMessage
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListChatMessages returns messages ordered deterministically (CreatedAt ASC, ID ASC).
func ListChatMessages(ctx context.Context, db *gorm.DB, chatID string) ([]domain.ChatMessage, error) {
	out := []domain.ChatMessage{}
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// CountChatMessages returns the number of messages in a chat.
func CountChatMessages(ctx context.Context, db *gorm.DB, chatID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("chat_id = ?", chatID).
		Count(&total).Error
	return total, err
}

// ListChatMessagesPage returns a paginated slice ordered (CreatedAt ASC, ID ASC).
func ListChatMessagesPage(ctx context.Context, db *gorm.DB, chatID string, offset, limit int) ([]domain.ChatMessage, error) {
	out := []domain.ChatMessage{}
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
