// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for task chats.
//
// Error semantics:
//   - When a chat is not found, functions return ErrNotFound.
//   - A second chat for the same (task, customer, helper) yields ErrDuplicate.
//   - Other DB errors are propagated unchanged.
//
// Usage:
//
//	chat, err := repo.FindChat(ctx, db, taskID, customerID, helperID)
//	if errors.Is(err, repo.ErrNotFound) {
//	    chat, err = repo.CreateChat(ctx, db, taskID, customerID, helperID)
//	}
//
// Participant checks live in services.ChatService.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

// ChatSummary is a chat row joined with the title of its task.
type ChatSummary struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	TaskTitle  string    `json:"task_title"`
	CustomerID string    `json:"customer_id"`
	HelperID   string    `json:"helper_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateChat inserts a chat between the task's customer and helper.
func CreateChat(ctx context.Context, db *gorm.DB, taskID, customerID, helperID string) (*domain.Chat, error) {
	c := &domain.Chat{
		ID:         uuid.NewString(),
		TaskID:     taskID,
		CustomerID: customerID,
		HelperID:   helperID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}

// FindChat returns the chat for the exact participant triple, or ErrNotFound.
func FindChat(ctx context.Context, db *gorm.DB, taskID, customerID, helperID string) (*domain.Chat, error) {
	var c domain.Chat
	err := db.WithContext(ctx).
		Where("task_id = ? AND customer_id = ? AND helper_id = ?", taskID, customerID, helperID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetChat fetches a single chat by ID. Callers check participation.
func GetChat(ctx context.Context, db *gorm.DB, id string) (*domain.Chat, error) {
	var c domain.Chat
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChatsForUser returns every chat in which userID participates on either
// side, with its task title, newest first.
func ListChatsForUser(ctx context.Context, db *gorm.DB, userID string) ([]ChatSummary, error) {
	out := []ChatSummary{}
	err := db.WithContext(ctx).
		Table("chats").
		Select("chats.id, chats.task_id, tasks.title AS task_title, chats.customer_id, chats.helper_id, chats.created_at").
		Joins("JOIN tasks ON tasks.id = chats.task_id").
		Where("chats.customer_id = ? OR chats.helper_id = ?", userID, userID).
		Order("chats.created_at desc").
		Scan(&out).Error
	return out, err
}
