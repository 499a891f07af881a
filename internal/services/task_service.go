// Package services – TaskService
//
// TaskService owns customer-side task management: create, read, update,
// delete and listing, plus the helper's open-task feed. Titles may be given
// explicitly or derived from the structured category/component/problem
// fields. Update and delete are allowed in any status.
//
// Status changes are not made here; see AssignmentService.
package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/domain"
	"github.com/swadrive/swadrive-backend/internal/observability"
	"github.com/swadrive/swadrive-backend/internal/repo"
)

const (
	defaultCategory = "Service"
	defaultProblem  = "General Help"
)

// maxReward is the largest amount a DECIMAL(10,2) column holds.
var maxReward = decimal.RequireFromString("99999999.99")

// TaskInput is the user-supplied content of a task on create and update.
type TaskInput struct {
	Title           string
	Category        string
	Component       string
	SpecificProblem string
	Description     string
	Location        string
	Urgency         string
	RewardAmount    string // raw; numbers and numeric strings accepted
}

// DeriveTitle returns the explicit title when present, otherwise
// "<category> - <problem>" with "Service" and "General Help" filling gaps.
// Problem prefers SpecificProblem over Component.
func DeriveTitle(in TaskInput) string {
	if t := cleanLine(in.Title); t != "" {
		return t
	}
	category := cleanLine(in.Category)
	if category == "" {
		category = defaultCategory
	}
	problem := cleanLine(in.SpecificProblem)
	if problem == "" {
		problem = cleanLine(in.Component)
	}
	if problem == "" {
		problem = defaultProblem
	}
	return category + " - " + problem
}

// ParseReward coerces a raw reward to a two-decimal amount. Blank or
// non-numeric input yields zero; negative or oversized amounts are rejected.
func ParseReward(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(cleanLine(raw))
	if err != nil {
		return decimal.Zero, nil
	}
	if d.IsNegative() || d.GreaterThan(maxReward) {
		return decimal.Zero, ErrInvalidReward
	}
	return d.Round(2), nil
}

func (in TaskInput) fields() (repo.TaskFields, error) {
	urgency, ok := domain.ParseUrgency(in.Urgency)
	if !ok {
		return repo.TaskFields{}, ErrInvalidUrgency
	}
	reward, err := ParseReward(in.RewardAmount)
	if err != nil {
		return repo.TaskFields{}, err
	}
	return repo.TaskFields{
		Title:        DeriveTitle(in),
		Description:  cleanText(in.Description),
		Location:     cleanLine(in.Location),
		RewardAmount: reward,
		Urgency:      urgency,
	}, nil
}

// TaskService manages tasks on behalf of their owners and lists open tasks
// for helpers.
type TaskService struct {
	DB *gorm.DB
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *gorm.DB) *TaskService { return &TaskService{DB: db} }

// Create posts a new open task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID string, in TaskInput) (t *domain.Task, err error) {
	ctx, span := observability.StartSpan(ctx, "services/TaskService", "Create",
		attribute.String("user.id", ownerID))
	defer func() { observability.EndSpan(span, err) }()

	f, err := in.fields()
	if err != nil {
		return nil, err
	}
	return repo.CreateTask(ctx, s.DB, ownerID, f)
}

// Get returns a task the caller owns. Tasks of other owners are reported
// as ErrTaskNotFound.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	t, err := repo.GetOwnedTask(ctx, s.DB, taskID, ownerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetForHelper returns any task by ID, for helpers browsing before accept.
func (s *TaskService) GetForHelper(ctx context.Context, taskID string) (*domain.Task, error) {
	t, err := repo.GetTask(ctx, s.DB, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update replaces the editable fields of a task the caller owns. The title
// and reward are recomputed from in exactly as on Create.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, in TaskInput) (err error) {
	ctx, span := observability.StartSpan(ctx, "services/TaskService", "Update",
		attribute.String("user.id", ownerID), attribute.String("task.id", taskID))
	defer func() { observability.EndSpan(span, err) }()

	f, err := in.fields()
	if err != nil {
		return err
	}
	if err := repo.UpdateOwnedTask(ctx, s.DB, taskID, ownerID, f); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

// Delete removes a task the caller owns, together with its assignment,
// reviews and chats.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) (err error) {
	ctx, span := observability.StartSpan(ctx, "services/TaskService", "Delete",
		attribute.String("user.id", ownerID), attribute.String("task.id", taskID))
	defer func() { observability.EndSpan(span, err) }()

	if err := repo.DeleteOwnedTask(ctx, s.DB, taskID, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

// ListOwn returns every task the caller owns, newest first.
func (s *TaskService) ListOwn(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return repo.ListTasksByOwner(ctx, s.DB, ownerID, "")
}

// ListCompleted returns the caller's completed tasks, newest first.
func (s *TaskService) ListCompleted(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return repo.ListTasksByOwner(ctx, s.DB, ownerID, domain.StatusCompleted)
}

// ListOpen returns every open task, newest first.
func (s *TaskService) ListOpen(ctx context.Context) ([]domain.Task, error) {
	return repo.ListTasksByStatus(ctx, s.DB, domain.StatusOpen)
}
