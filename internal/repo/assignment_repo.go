package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

// CreateAssignment records that helperID took taskID. A second assignment
// for the same task yields ErrDuplicate.
func CreateAssignment(ctx context.Context, db *gorm.DB, taskID, helperID string) (*domain.Assignment, error) {
	a := &domain.Assignment{
		ID:         uuid.NewString(),
		TaskID:     taskID,
		HelperID:   helperID,
		AssignedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return a, nil
}

// GetAssignmentForTask returns the assignment of taskID, or ErrNotFound.
func GetAssignmentForTask(ctx context.Context, db *gorm.DB, taskID string) (*domain.Assignment, error) {
	var a domain.Assignment
	if err := db.WithContext(ctx).Where("task_id = ?", taskID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// IsAssigned reports whether helperID holds the assignment for taskID.
func IsAssigned(ctx context.Context, db *gorm.DB, taskID, helperID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Where("task_id = ? AND helper_id = ?", taskID, helperID).
		Count(&n).Error
	return n > 0, err
}

// ListAssignedTasks returns the tasks assigned to helperID, most recently
// assigned first.
func ListAssignedTasks(ctx context.Context, db *gorm.DB, helperID string) ([]domain.Task, error) {
	out := []domain.Task{}
	err := db.WithContext(ctx).
		Model(&domain.Task{}).
		Select("tasks.*").
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.helper_id = ?", helperID).
		Order("task_assignments.assigned_at desc").
		Find(&out).Error
	return out, err
}
