// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Task model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. Ownership-scoped functions filter on
// owner_id so a task that exists but belongs to someone else is reported as
// ErrNotFound.
//
// Status changes go through TransitionTask, a single conditional UPDATE
// guarded by the expected current status. Concurrent callers racing on the
// same transition observe exactly one success.
package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

// TaskFields carries the user-editable columns of a task.
type TaskFields struct {
	Title        string
	Description  string
	Location     string
	RewardAmount decimal.Decimal
	Urgency      domain.Urgency
}

// CreateTask inserts a new open task owned by ownerID.
func CreateTask(ctx context.Context, db *gorm.DB, ownerID string, f TaskFields) (*domain.Task, error) {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Title:        f.Title,
		Description:  f.Description,
		Location:     f.Location,
		RewardAmount: f.RewardAmount,
		Urgency:      f.Urgency,
		Status:       domain.StatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetTask fetches a task by ID regardless of owner.
func GetTask(ctx context.Context, db *gorm.DB, id string) (*domain.Task, error) {
	var t domain.Task
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetOwnedTask fetches a task by ID and owner, or ErrNotFound.
func GetOwnedTask(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Task, error) {
	var t domain.Task
	err := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateOwnedTask overwrites the editable fields of a task owned by ownerID.
// Status is untouched. Returns ErrNotFound when no row matched.
func UpdateOwnedTask(ctx context.Context, db *gorm.DB, id, ownerID string, f TaskFields) error {
	res := db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]any{
			"title":         f.Title,
			"description":   f.Description,
			"location":      f.Location,
			"reward_amount": f.RewardAmount,
			"urgency":       f.Urgency,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteOwnedTask removes a task owned by ownerID. Dependent assignments,
// reviews and chats are removed by cascading foreign keys.
func DeleteOwnedTask(ctx context.Context, db *gorm.DB, id, ownerID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListTasksByOwner returns the owner's tasks, newest first. A non-empty
// status narrows the result.
func ListTasksByOwner(ctx context.Context, db *gorm.DB, ownerID string, status domain.TaskStatus) ([]domain.Task, error) {
	out := []domain.Task{}
	q := db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}

// ListTasksByStatus returns every task in the given status, newest first.
func ListTasksByStatus(ctx context.Context, db *gorm.DB, status domain.TaskStatus) ([]domain.Task, error) {
	out := []domain.Task{}
	err := db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// TransitionTask moves a task from one status to another in a single
// conditional UPDATE. It returns ErrNotFound when the task is missing or
// no longer in the from status; callers disambiguate with GetTask.
// Pairs outside open->assigned->completed fail with ErrIllegalTransition.
func TransitionTask(ctx context.Context, db *gorm.DB, id string, from, to domain.TaskStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	res := db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
