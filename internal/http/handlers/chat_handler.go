// Chat endpoints, open to both roles and gated on participation:
//   - POST /chats/start                (idempotent per task and participants)
//   - GET  /chats
//   - GET  /chats/{id}/messages        (optional paging, ETag support)
//   - POST /chats/{id}/messages        (Idempotency-Key aware)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swadrive/swadrive-backend/internal/http/middleware"
	"github.com/swadrive/swadrive-backend/internal/services"
	"github.com/swadrive/swadrive-backend/internal/utils"
)

const (
	defaultMessagePageSize = 50
	maxMessagePageSize     = 200
)

// failChat maps the chat errors shared by the thread endpoints.
func failChat(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, services.ErrChatNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Chat not found")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "You are not a participant of this chat")
	case errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "Message cannot be empty")
	case errors.Is(err, services.ErrMessageTooLong):
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "Message is too long")
	default:
		failInternal(c, err, internalMsg)
	}
}

// StartChat godoc
// @ID          startChat
// @Summary     Open the chat for a task
// @Description Returns the chat between the task's owner and its assigned helper, creating it on first use.
// @Tags        Chats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body      handlers.StartChatRequest  true  "Task to chat about"
// @Success     200   {object}  handlers.StartChatResponse
// @Failure     403   {object}  handlers.ErrorResponse  "Not a participant, or no helper assigned yet"
// @Failure     404   {object}  handlers.ErrorResponse  "Task not found"
// @Router      /chats/start [post]
func (h *Handlers) StartChat(c *gin.Context) {
	var req StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "task_id is required")
		return
	}
	taskID := strings.TrimSpace(req.TaskID)
	if _, err := uuid.Parse(taskID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid task id")
		return
	}

	chat, err := h.chats.Start(c.Request.Context(), caller(c), taskID)
	switch {
	case err == nil:
		ok(c, http.StatusOK, StartChatResponse{ChatID: chat.ID, Chat: chat})
	case errors.Is(err, services.ErrTaskNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Task not found")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "You are not a participant of this task")
	default:
		failInternal(c, err, "Failed to start chat")
	}
}

// ListChats godoc
// @ID          listChats
// @Summary     List my chats
// @Description Chats where the caller is customer or helper, newest first, with the task title.
// @Tags        Chats
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}  repo.ChatSummary
// @Router      /chats [get]
func (h *Handlers) ListChats(c *gin.Context) {
	chats, err := h.chats.List(c.Request.Context(), caller(c).UserID)
	if err != nil {
		failInternal(c, err, "Failed to load chats")
		return
	}
	ok(c, http.StatusOK, chats)
}

// ListMessages godoc
// @ID          listMessages
// @Summary     Read a chat thread
// @Description Oldest first. Without page/page_size the whole thread is returned as an array.
// @Tags        Chats
// @Produce     json
// @Security    BearerAuth
// @Param       id         path   string  true   "Chat ID"  format(uuid)
// @Param       page       query  int     false  "Page number"     minimum(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1) maximum(200)
// @Success     200  {array}   domain.ChatMessage
// @Success     304  "Not modified"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Router      /chats/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	chatID, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid chat id")
		return
	}
	uid := caller(c).UserID
	page, paged := utils.ParsePage(c.Query("page"), c.Query("page_size"), defaultMessagePageSize, maxMessagePageSize)

	count, latest, err := h.chats.Stats(ctx, uid, chatID)
	if err != nil {
		failChat(c, err, "Failed to load messages")
		return
	}
	if notModified(c, weakETag("messages", chatID, count, latest, int64(page.Number), int64(page.Size))) {
		return
	}

	if !paged {
		msgs, err := h.chats.Messages(ctx, uid, chatID)
		if err != nil {
			failChat(c, err, "Failed to load messages")
			return
		}
		ok(c, http.StatusOK, msgs)
		return
	}

	msgs, total, err := h.chats.MessagesPage(ctx, uid, chatID, page.Number, page.Size)
	if err != nil {
		failChat(c, err, "Failed to load messages")
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   msgs,
		Pagination: newPagination(page.Number, page.Size, total),
	})
}

// SendMessage godoc
// @ID          sendMessage
// @Summary     Send a chat message
// @Description Appends a message and notifies the other participant. Supports the Idempotency-Key header.
// @Tags        Chats
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header  string                       false  "Idempotency key for safe retries"
// @Param       id               path    string                       true   "Chat ID"  format(uuid)
// @Param       body             body    handlers.SendMessageRequest  true   "Message"
// @Success     200  {object}  handlers.SendMessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or too long message"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Router      /chats/{id}/messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	chatID, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid chat id")
		return
	}
	me := caller(c)

	if rid, replay := middleware.ReplayedResource(c); replay {
		if msg, err := h.chats.Message(c.Request.Context(), me.UserID, chatID, rid); err == nil {
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusOK, SendMessageResponse{Message: msg})
			return
		}
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	msg, err := h.chats.Send(c.Request.Context(), me, chatID, req.Message)
	if err != nil {
		failChat(c, err, "Failed to send message")
		return
	}
	h.remember(c, msg.ID, http.StatusOK)
	ok(c, http.StatusOK, SendMessageResponse{Message: msg})
}
