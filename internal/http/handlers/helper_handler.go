// Helper endpoints:
//   - GET  /open-tasks
//   - GET  /helper/tasks/{id}
//   - POST /tasks/{id}/accept
//   - POST /tasks/{id}/complete
//   - GET  /my-assigned-tasks
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swadrive/swadrive-backend/internal/services"
)

// OpenTasks godoc
// @ID          openTasks
// @Summary     List open tasks
// @Description Tasks nobody has accepted yet, newest first.
// @Tags        Helpers
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}  domain.Task
// @Failure     403  {object} handlers.ErrorResponse  "Not a helper"
// @Router      /open-tasks [get]
func (h *Handlers) OpenTasks(c *gin.Context) {
	tasks, err := h.tasks.ListOpen(c.Request.Context())
	if err != nil {
		failInternal(c, err, "Failed to load open tasks")
		return
	}
	ok(c, http.StatusOK, tasks)
}

// HelperTask godoc
// @ID          helperTask
// @Summary     View a task before accepting it
// @Tags        Helpers
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Task ID"  format(uuid)
// @Success     200  {object}  domain.Task
// @Failure     404  {object}  handlers.ErrorResponse  "Task not found"
// @Router      /helper/tasks/{id} [get]
func (h *Handlers) HelperTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid task id")
		return
	}
	t, err := h.tasks.GetForHelper(c.Request.Context(), id)
	switch {
	case err == nil:
		ok(c, http.StatusOK, t)
	case errors.Is(err, services.ErrTaskNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Task not found")
	default:
		failInternal(c, err, "Failed to load task")
	}
}

// AcceptTask godoc
// @ID          acceptTask
// @Summary     Accept an open task
// @Description Atomically assigns the task to the caller. Exactly one of several concurrent accepts wins.
// @Tags        Helpers
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Task ID"  format(uuid)
// @Success     200  {object}  handlers.MessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Task not found or already taken"
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to accept task"
// @Router      /tasks/{id}/accept [post]
func (h *Handlers) AcceptTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid task id")
		return
	}
	_, err := h.assignments.Accept(c.Request.Context(), caller(c).UserID, id)
	switch {
	case err == nil:
		ok(c, http.StatusOK, MessageResponse{Message: "Task accepted"})
	case errors.Is(err, services.ErrTaskNotFound):
		fail(c, http.StatusBadRequest, ErrCodeNotFound, "Task not found")
	case errors.Is(err, services.ErrAlreadyTaken):
		fail(c, http.StatusBadRequest, ErrCodeAlreadyTaken, "Task already taken")
	default:
		failInternal(c, err, "Failed to accept task")
	}
}

// CompleteTask godoc
// @ID          completeTask
// @Summary     Mark an assigned task completed
// @Tags        Helpers
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Task ID"  format(uuid)
// @Success     200  {object}  handlers.MessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Task is not in assigned state"
// @Failure     403  {object}  handlers.ErrorResponse  "Task is not assigned to you"
// @Failure     404  {object}  handlers.ErrorResponse  "Task not found"
// @Router      /tasks/{id}/complete [post]
func (h *Handlers) CompleteTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid task id")
		return
	}
	err := h.assignments.Complete(c.Request.Context(), caller(c).UserID, id)
	switch {
	case err == nil:
		ok(c, http.StatusOK, MessageResponse{Message: "Task marked as completed"})
	case errors.Is(err, services.ErrTaskNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Task not found")
	case errors.Is(err, services.ErrNotAssignedToYou):
		fail(c, http.StatusForbidden, ErrCodeNotAssigned, "Task is not assigned to you")
	case errors.Is(err, services.ErrInvalidTransition):
		fail(c, http.StatusBadRequest, ErrCodeInvalidState, "Task is not in assigned state")
	default:
		failInternal(c, err, "Failed to complete task")
	}
}

// MyAssignedTasks godoc
// @ID          myAssignedTasks
// @Summary     List tasks assigned to me
// @Tags        Helpers
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}  domain.Task
// @Router      /my-assigned-tasks [get]
func (h *Handlers) MyAssignedTasks(c *gin.Context) {
	h.listTasks(c, h.assignments.ListAssigned, "Failed to load assigned tasks")
}
