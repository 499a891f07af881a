package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swadrive/swadrive-backend/internal/services"
)

// ReviewTask godoc
// @ID          reviewTask
// @Summary     Review the helper of a completed task
// @Description Only the task's owner may review, and only once the task is completed.
// @Tags        Reviews
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path      string                  true  "Task ID"  format(uuid)
// @Param       body  body      handlers.ReviewRequest  true  "Rating 1-5 and optional comment"
// @Success     200   {object}  handlers.ReviewResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid rating or task not eligible"
// @Router      /tasks/{id}/review [post]
func (h *Handlers) ReviewTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid task id")
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	r, err := h.reviews.Submit(c.Request.Context(), caller(c).UserID, id, req.Rating, req.Comment)
	switch {
	case err == nil:
		ok(c, http.StatusOK, ReviewResponse{Message: "Review submitted", ReviewID: r.ID})
	case errors.Is(err, services.ErrInvalidRating):
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "Rating must be between 1 and 5")
	case errors.Is(err, services.ErrNotEligible):
		fail(c, http.StatusBadRequest, ErrCodeNotEligible, err.Error())
	default:
		failInternal(c, err, "Failed to submit review")
	}
}
