// Package services – ChatService
//
// ChatService is the per-task two-party message thread between a task's
// owner and its assigned helper. A chat exists only once the task has an
// assignment. Start is idempotent per (task, customer, helper); concurrent
// starts converge on the same row through the unique index.
//
// Every read and write is gated on the caller being one of the two
// participants. Sending emits a best-effort notification to the other side.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/swadrive/swadrive-backend/internal/auth"
	"github.com/swadrive/swadrive-backend/internal/domain"
	"github.com/swadrive/swadrive-backend/internal/observability"
	"github.com/swadrive/swadrive-backend/internal/repo"
	"github.com/swadrive/swadrive-backend/internal/utils"
)

const (
	defaultMaxMessageRunes = 4000
	previewRunes           = 100
)

// ChatService manages chats and their messages.
type ChatService struct {
	DB     *gorm.DB
	Notify Notifier // optional

	// MaxMessageRunes caps a message's length; 0 disables the cap.
	MaxMessageRunes int
}

// NewChatService constructs a ChatService.
func NewChatService(db *gorm.DB, n Notifier) *ChatService {
	return &ChatService{DB: db, Notify: n, MaxMessageRunes: defaultMaxMessageRunes}
}

// Start returns the chat for taskID between its owner and assigned helper,
// creating it on first use.
//
// Errors:
//   - ErrTaskNotFound: no such task.
//   - ErrForbidden: the task has no assignment yet, or the caller is
//     neither its owner nor its helper.
func (s *ChatService) Start(ctx context.Context, caller auth.Identity, taskID string) (c *domain.Chat, err error) {
	ctx, span := observability.StartSpan(ctx, "services/ChatService", "Start",
		attribute.String("user.id", caller.UserID), attribute.String("task.id", taskID))
	defer func() { observability.EndSpan(span, err) }()

	task, err := repo.GetTask(ctx, s.DB, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	a, err := repo.GetAssignmentForTask(ctx, s.DB, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	switch caller.Role {
	case domain.RoleCustomer:
		if task.OwnerID != caller.UserID {
			return nil, ErrForbidden
		}
	case domain.RoleHelper:
		if a.HelperID != caller.UserID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	c, err = repo.FindChat(ctx, s.DB, taskID, task.OwnerID, a.HelperID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	c, err = repo.CreateChat(ctx, s.DB, taskID, task.OwnerID, a.HelperID)
	if errors.Is(err, repo.ErrDuplicate) {
		// Lost a race with a concurrent start.
		return repo.FindChat(ctx, s.DB, taskID, task.OwnerID, a.HelperID)
	}
	return c, err
}

// List returns every chat the user participates in, newest first, with the
// task title.
func (s *ChatService) List(ctx context.Context, userID string) ([]repo.ChatSummary, error) {
	return repo.ListChatsForUser(ctx, s.DB, userID)
}

// participantChat loads a chat and checks that userID belongs to it.
func (s *ChatService) participantChat(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	c, err := repo.GetChat(ctx, s.DB, chatID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if !c.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	return c, nil
}

// Messages returns the whole thread in chronological order.
func (s *ChatService) Messages(ctx context.Context, userID, chatID string) ([]domain.ChatMessage, error) {
	if _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return repo.ListChatMessages(ctx, s.DB, chatID)
}

// Message returns one message of the thread.
func (s *ChatService) Message(ctx context.Context, userID, chatID, msgID string) (*domain.ChatMessage, error) {
	if _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	m, err := repo.GetChatMessage(ctx, s.DB, msgID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if m.ChatID != chatID {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

// MessagesPage returns one chronological page of the thread plus its total.
func (s *ChatService) MessagesPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.ChatMessage, int64, error) {
	if _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	total, err := repo.CountChatMessages(ctx, s.DB, chatID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ChatMessage{}, 0, nil
	}
	items, err := repo.ListChatMessagesPage(ctx, s.DB, chatID, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Send appends a message from the caller and notifies the other participant.
//
// Errors: ErrEmptyMessage, ErrMessageTooLong, ErrChatNotFound, ErrForbidden.
func (s *ChatService) Send(ctx context.Context, caller auth.Identity, chatID, text string) (m *domain.ChatMessage, err error) {
	ctx, span := observability.StartSpan(ctx, "services/ChatService", "Send",
		attribute.String("user.id", caller.UserID), attribute.String("chat.id", chatID))
	defer func() { observability.EndSpan(span, err) }()

	text = cleanText(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if s.MaxMessageRunes > 0 && utf8.RuneCountInString(text) > s.MaxMessageRunes {
		return nil, ErrMessageTooLong
	}

	c, err := s.participantChat(ctx, caller.UserID, chatID)
	if err != nil {
		return nil, err
	}
	if m, err = repo.CreateChatMessage(ctx, s.DB, chatID, caller.UserID, caller.Role, text); err != nil {
		return nil, err
	}

	if s.Notify != nil {
		taskID := c.TaskID
		s.Notify.Notify(ctx, domain.Notification{
			UserID:  c.Counterpart(caller.UserID),
			TaskID:  &taskID,
			Type:    domain.NotifyChatMessage,
			Title:   "New message",
			Message: fmt.Sprintf("New message: %s", utils.Preview(text, previewRunes)),
		})
	}
	return m, nil
}

// Stats returns the aggregates used to build a thread's ETag after checking
// participation.
func (s *ChatService) Stats(ctx context.Context, userID, chatID string) (count int64, maxUpdatedAt *time.Time, err error) {
	if _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return 0, nil, err
	}
	return repo.ChatMessagesStats(ctx, s.DB, chatID)
}
