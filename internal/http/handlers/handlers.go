// Package handlers exposes the REST endpoints of the marketplace. Handlers
// are transport-thin: they bind and validate input, call a service, and
// translate the result (or a service error) into the API's response shapes
// and status codes.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swadrive/swadrive-backend/internal/auth"
	"github.com/swadrive/swadrive-backend/internal/domain"
	"github.com/swadrive/swadrive-backend/internal/http/middleware"
	"github.com/swadrive/swadrive-backend/internal/repo"
	"github.com/swadrive/swadrive-backend/internal/services"
)

// AccountService registers and authenticates users.
type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

// TaskService manages tasks for their owners and the open-task feed.
type TaskService interface {
	Create(ctx context.Context, ownerID string, in services.TaskInput) (*domain.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error)
	GetForHelper(ctx context.Context, taskID string) (*domain.Task, error)
	Update(ctx context.Context, ownerID, taskID string, in services.TaskInput) error
	Delete(ctx context.Context, ownerID, taskID string) error
	ListOwn(ctx context.Context, ownerID string) ([]domain.Task, error)
	ListCompleted(ctx context.Context, ownerID string) ([]domain.Task, error)
	ListOpen(ctx context.Context) ([]domain.Task, error)
}

// AssignmentService moves tasks through their lifecycle on behalf of helpers.
type AssignmentService interface {
	Accept(ctx context.Context, helperID, taskID string) (*domain.Assignment, error)
	Complete(ctx context.Context, helperID, taskID string) error
	ListAssigned(ctx context.Context, helperID string) ([]domain.Task, error)
}

// ReviewService records customer reviews of helpers.
type ReviewService interface {
	Submit(ctx context.Context, customerID, taskID string, rating int, comment string) (*domain.Review, error)
}

// NotificationService lists and acknowledges in-app notifications.
type NotificationService interface {
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string) (count, unread int64, latest *time.Time, err error)
}

// ChatService runs the per-task message threads.
type ChatService interface {
	Start(ctx context.Context, caller auth.Identity, taskID string) (*domain.Chat, error)
	List(ctx context.Context, userID string) ([]repo.ChatSummary, error)
	Messages(ctx context.Context, userID, chatID string) ([]domain.ChatMessage, error)
	Message(ctx context.Context, userID, chatID, msgID string) (*domain.ChatMessage, error)
	MessagesPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.ChatMessage, int64, error)
	Send(ctx context.Context, caller auth.Identity, chatID, text string) (*domain.ChatMessage, error)
	Stats(ctx context.Context, userID, chatID string) (int64, *time.Time, error)
}

// Idempotency stores results of creating requests for replay.
type Idempotency interface {
	Remember(ctx context.Context, userID, scope, key, resourceID string, status int)
}

// Deps bundles the services the handlers depend on.
type Deps struct {
	Accounts      AccountService
	Tasks         TaskService
	Assignments   AssignmentService
	Reviews       ReviewService
	Notifications NotificationService
	Chats         ChatService
	Idempotency   Idempotency // optional
}

// Handlers groups all HTTP endpoints.
type Handlers struct {
	accounts      AccountService
	tasks         TaskService
	assignments   AssignmentService
	reviews       ReviewService
	notifications NotificationService
	chats         ChatService
	idem          Idempotency
}

// New constructs Handlers from d.
func New(d Deps) *Handlers {
	return &Handlers{
		accounts:      d.Accounts,
		tasks:         d.Tasks,
		assignments:   d.Assignments,
		reviews:       d.Reviews,
		notifications: d.Notifications,
		chats:         d.Chats,
		idem:          d.Idempotency,
	}
}

// caller returns the identity set by middleware.Authorize. Routes that reach
// a handler always passed it, so a missing identity yields the zero value.
func caller(c *gin.Context) auth.Identity {
	id, _ := middleware.IdentityFrom(c)
	return id
}

// pathID returns the :id parameter when it is a UUID.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// remember records a created resource under the request's Idempotency-Key.
func (h *Handlers) remember(c *gin.Context, resourceID string, status int) {
	if h.idem == nil {
		return
	}
	if key, scope, ok := middleware.IdempotencyKey(c); ok {
		h.idem.Remember(c.Request.Context(), caller(c).UserID, scope, key, resourceID, status)
	}
}
