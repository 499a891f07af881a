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

// ReviewService lets a customer rate the helper of a completed task.
type ReviewService struct {
	DB     *gorm.DB
	Notify Notifier // optional
}

// NewReviewService constructs a ReviewService.
func NewReviewService(db *gorm.DB, n Notifier) *ReviewService {
	return &ReviewService{DB: db, Notify: n}
}

// Submit records a review by customerID for taskID.
//
// The rating must be in 1..5 (ErrInvalidRating). The task must exist, be
// owned by the caller, be completed and have an assignment; otherwise the
// result wraps ErrNotEligible. Several reviews per task are accepted.
func (s *ReviewService) Submit(ctx context.Context, customerID, taskID string, rating int, comment string) (r *domain.Review, err error) {
	ctx, span := observability.StartSpan(ctx, "services/ReviewService", "Submit",
		attribute.String("user.id", customerID), attribute.String("task.id", taskID))
	defer func() { observability.EndSpan(span, err) }()

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var task *domain.Task
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		task, err = repo.GetTask(ctx, tx, taskID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return fmt.Errorf("%w: task not found", ErrNotEligible)
		case err != nil:
			return err
		case task.OwnerID != customerID:
			return fmt.Errorf("%w: not your task", ErrNotEligible)
		case task.Status != domain.StatusCompleted:
			return fmt.Errorf("%w: task is not completed", ErrNotEligible)
		}

		a, err := repo.GetAssignmentForTask(ctx, tx, taskID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("%w: task has no assigned helper", ErrNotEligible)
			}
			return err
		}
		r = &domain.Review{
			TaskID:     taskID,
			HelperID:   a.HelperID,
			CustomerID: customerID,
			Rating:     rating,
			Comment:    cleanText(comment),
		}
		return repo.CreateReview(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}

	if s.Notify != nil {
		s.Notify.Notify(ctx, domain.Notification{
			UserID:  r.HelperID,
			TaskID:  &task.ID,
			Type:    domain.NotifyReview,
			Title:   "New review",
			Message: fmt.Sprintf("You received a %d-star review for %q.", rating, task.Title),
		})
	}
	return r, nil
}
