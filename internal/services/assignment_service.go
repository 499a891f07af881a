// Package services – AssignmentService
//
// AssignmentService moves tasks through open -> assigned -> completed on
// behalf of helpers. Accept is a single conditional UPDATE guarded by
// status = 'open' followed by the assignment insert, both in one
// transaction; of any number of concurrent accepts exactly one succeeds and
// the rest see ErrAlreadyTaken.
//
// Owners are notified after the transaction commits. Notification failures
// never undo a transition.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/domain"
	"github.com/swadrive/swadrive-backend/internal/observability"
	"github.com/swadrive/swadrive-backend/internal/repo"
)

// AssignmentService implements helper-side task transitions.
type AssignmentService struct {
	DB     *gorm.DB
	Notify Notifier // optional
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(db *gorm.DB, n Notifier) *AssignmentService {
	return &AssignmentService{DB: db, Notify: n}
}

// Accept assigns an open task to helperID.
//
// Errors:
//   - ErrTaskNotFound: no such task.
//   - ErrAlreadyTaken: the task is assigned or completed, including when a
//     concurrent accept won.
func (s *AssignmentService) Accept(ctx context.Context, helperID, taskID string) (a *domain.Assignment, err error) {
	ctx, span := observability.StartSpan(ctx, "services/AssignmentService", "Accept",
		attribute.String("user.id", helperID), attribute.String("task.id", taskID))
	defer func() { observability.EndSpan(span, err) }()

	var task *domain.Task
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The conditional update goes first so the write lock is taken
		// before anything is read.
		if err := repo.TransitionTask(ctx, tx, taskID, domain.StatusOpen, domain.StatusAssigned); err != nil {
			if !errors.Is(err, repo.ErrNotFound) {
				return err
			}
			if _, gerr := repo.GetTask(ctx, tx, taskID); gerr != nil {
				if errors.Is(gerr, repo.ErrNotFound) {
					return ErrTaskNotFound
				}
				return gerr
			}
			return ErrAlreadyTaken
		}

		var err error
		if a, err = repo.CreateAssignment(ctx, tx, taskID, helperID); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrAlreadyTaken
			}
			return err
		}
		task, err = repo.GetTask(ctx, tx, taskID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyTaken) {
			observability.AcceptConflicts.Inc()
		}
		return nil, err
	}

	observability.TaskTransitions.WithLabelValues(string(domain.StatusAssigned)).Inc()
	s.emit(ctx, domain.Notification{
		UserID:  task.OwnerID,
		TaskID:  &task.ID,
		Type:    domain.NotifyAccepted,
		Title:   "Task accepted",
		Message: fmt.Sprintf("Your task %q was accepted by a helper.", task.Title),
	})
	return a, nil
}

// Complete marks a task assigned to helperID as completed.
//
// Errors:
//   - ErrTaskNotFound: no such task.
//   - ErrNotAssignedToYou: the task's assignment names someone else, or none.
//   - ErrInvalidTransition: the task is not currently assigned (e.g. already
//     completed).
func (s *AssignmentService) Complete(ctx context.Context, helperID, taskID string) (err error) {
	ctx, span := observability.StartSpan(ctx, "services/AssignmentService", "Complete",
		attribute.String("user.id", helperID), attribute.String("task.id", taskID))
	defer func() { observability.EndSpan(span, err) }()

	var task *domain.Task
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if task, err = repo.GetTask(ctx, tx, taskID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		mine, err := repo.IsAssigned(ctx, tx, taskID, helperID)
		if err != nil {
			return err
		}
		if !mine {
			return ErrNotAssignedToYou
		}
		if err := repo.TransitionTask(ctx, tx, taskID, domain.StatusAssigned, domain.StatusCompleted); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrInvalidTransition
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	observability.TaskTransitions.WithLabelValues(string(domain.StatusCompleted)).Inc()
	s.emit(ctx, domain.Notification{
		UserID:  task.OwnerID,
		TaskID:  &task.ID,
		Type:    domain.NotifyCompleted,
		Title:   "Task completed",
		Message: fmt.Sprintf("Your task %q has been marked completed. You can now leave a review.", task.Title),
	})
	return nil
}

// ListAssigned returns the tasks assigned to helperID.
func (s *AssignmentService) ListAssigned(ctx context.Context, helperID string) ([]domain.Task, error) {
	return repo.ListAssignedTasks(ctx, s.DB, helperID)
}

func (s *AssignmentService) emit(ctx context.Context, n domain.Notification) {
	if s.Notify != nil {
		s.Notify.Notify(ctx, n)
	}
}
