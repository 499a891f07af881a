// Customer task endpoints:
//   - POST   /tasks                (create; Idempotency-Key aware)
//   - GET    /tasks/{id}           (owner only)
//   - PUT    /tasks/{id}           (owner only)
//   - DELETE /tasks/{id}           (owner only)
//   - GET    /my-tasks
//   - GET    /my-completed-tasks
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swadrive/swadrive-backend/internal/domain"
	"github.com/swadrive/swadrive-backend/internal/http/middleware"
	"github.com/swadrive/swadrive-backend/internal/services"
)

// failTaskInput maps input validation errors shared by create and update.
// It reports whether it wrote a response.
func failTaskInput(c *gin.Context, err error) bool {
	if errors.Is(err, services.ErrInvalidUrgency) || errors.Is(err, services.ErrInvalidReward) {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return true
	}
	return false
}

// CreateTask godoc
// @ID          createTask
// @Summary     Post a task
// @Description Creates an open task. The title is derived from category and problem when omitted.
// @Description Supports safe retries via the Idempotency-Key header.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header  string                 false  "Idempotency key for safe retries"
// @Param       body             body    handlers.TaskRequest   true   "Task payload"
// @Success     200  {object}  handlers.CreateTaskResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a customer"
// @Failure     500  {object}  handlers.ErrorResponse  "Task creation failed"
// @Router      /tasks [post]
func (h *Handlers) CreateTask(c *gin.Context) {
	me := caller(c)
	if rid, replay := middleware.ReplayedResource(c); replay {
		if t, err := h.tasks.Get(c.Request.Context(), me.UserID, rid); err == nil {
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusOK, CreateTaskResponse{Message: "Task created", TaskID: t.ID})
			return
		}
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	t, err := h.tasks.Create(c.Request.Context(), me.UserID, req.input())
	if err != nil {
		if !failTaskInput(c, err) {
			failInternal(c, err, "Task creation failed")
		}
		return
	}

	h.remember(c, t.ID, http.StatusOK)
	ok(c, http.StatusOK, CreateTaskResponse{Message: "Task created", TaskID: t.ID})
}

// GetTask godoc
// @ID          getTask
// @Summary     Get one of my tasks
// @Tags        Tasks
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Task ID"  format(uuid)
// @Success     200  {object}  domain.Task
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid task id"
// @Failure     404  {object}  handlers.ErrorResponse  "Task not found"
// @Router      /tasks/{id} [get]
func (h *Handlers) GetTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid task id")
		return
	}
	t, err := h.tasks.Get(c.Request.Context(), caller(c).UserID, id)
	switch {
	case err == nil:
		ok(c, http.StatusOK, t)
	case errors.Is(err, services.ErrTaskNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Task not found")
	default:
		failInternal(c, err, "Failed to load task")
	}
}

// UpdateTask godoc
// @ID          updateTask
// @Summary     Edit one of my tasks
// @Description Replaces title, description, location, reward and urgency. Status is unchanged.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path      string                true  "Task ID"  format(uuid)
// @Param       body  body      handlers.TaskRequest  true  "Task payload"
// @Success     200   {object}  handlers.MessageResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid input"
// @Failure     404   {object}  handlers.ErrorResponse  "Task not found or not yours"
// @Router      /tasks/{id} [put]
func (h *Handlers) UpdateTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid task id")
		return
	}
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	err := h.tasks.Update(c.Request.Context(), caller(c).UserID, id, req.input())
	switch {
	case err == nil:
		ok(c, http.StatusOK, MessageResponse{Message: "Task updated"})
	case errors.Is(err, services.ErrTaskNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Task not found or not yours")
	default:
		if !failTaskInput(c, err) {
			failInternal(c, err, "Task update failed")
		}
	}
}

// DeleteTask godoc
// @ID          deleteTask
// @Summary     Delete one of my tasks
// @Description Removes the task with its assignment, reviews and chats.
// @Tags        Tasks
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Task ID"  format(uuid)
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Task not found or not yours"
// @Router      /tasks/{id} [delete]
func (h *Handlers) DeleteTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid task id")
		return
	}
	err := h.tasks.Delete(c.Request.Context(), caller(c).UserID, id)
	switch {
	case err == nil:
		ok(c, http.StatusOK, MessageResponse{Message: "Task deleted"})
	case errors.Is(err, services.ErrTaskNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Task not found or not yours")
	default:
		failInternal(c, err, "Task delete failed")
	}
}

// MyTasks godoc
// @ID          myTasks
// @Summary     List my tasks
// @Tags        Tasks
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}   domain.Task
// @Router      /my-tasks [get]
func (h *Handlers) MyTasks(c *gin.Context) {
	h.listTasks(c, h.tasks.ListOwn, "Failed to load tasks")
}

// MyCompletedTasks godoc
// @ID          myCompletedTasks
// @Summary     List my completed tasks
// @Tags        Tasks
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}   domain.Task
// @Router      /my-completed-tasks [get]
func (h *Handlers) MyCompletedTasks(c *gin.Context) {
	h.listTasks(c, h.tasks.ListCompleted, "Failed to load completed tasks")
}

func (h *Handlers) listTasks(c *gin.Context, list func(ctx context.Context, userID string) ([]domain.Task, error), failMsg string) {
	tasks, err := list(c.Request.Context(), caller(c).UserID)
	if err != nil {
		failInternal(c, err, failMsg)
		return
	}
	ok(c, http.StatusOK, tasks)
}
