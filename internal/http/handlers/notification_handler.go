package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swadrive/swadrive-backend/internal/services"
	"github.com/swadrive/swadrive-backend/internal/utils"
)

const (
	defaultNotificationPageSize = 20
	maxNotificationPageSize     = 100
)

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List my notifications
// @Description Newest first. Without page/page_size the full list is returned as an array;
// @Description with them, a page plus pagination metadata. Supports If-None-Match.
// @Tags        Notifications
// @Produce     json
// @Security    BearerAuth
// @Param       page       query  int  false  "Page number"     minimum(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100)
// @Success     200  {array}   domain.Notification
// @Success     304  "Not modified"
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	uid := caller(c).UserID
	page, paged := utils.ParsePage(c.Query("page"), c.Query("page_size"), defaultNotificationPageSize, maxNotificationPageSize)

	if count, unread, latest, err := h.notifications.Stats(ctx, uid); err == nil {
		etag := weakETag("notifications", uid, count, latest, unread, int64(page.Number), int64(page.Size))
		if notModified(c, etag) {
			return
		}
	}

	if !paged {
		items, err := h.notifications.List(ctx, uid)
		if err != nil {
			failInternal(c, err, "Failed to load notifications")
			return
		}
		ok(c, http.StatusOK, items)
		return
	}

	items, total, err := h.notifications.ListPage(ctx, uid, page.Number, page.Size)
	if err != nil {
		failInternal(c, err, "Failed to load notifications")
		return
	}
	ok(c, http.StatusOK, ListNotificationsResponse{
		Notifications: items,
		Pagination:    newPagination(page.Number, page.Size, total),
	})
}

// MarkNotificationRead godoc
// @ID          markNotificationRead
// @Summary     Mark a notification as read
// @Tags        Notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      string  true  "Notification ID"  format(uuid)
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Notification not found"
// @Router      /notifications/{id}/read [put]
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid notification id")
		return
	}
	err := h.notifications.MarkRead(c.Request.Context(), id)
	switch {
	case err == nil:
		ok(c, http.StatusOK, MessageResponse{Message: "Notification marked as read"})
	case errors.Is(err, services.ErrNotificationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Notification not found")
	default:
		failInternal(c, err, "Failed to update notification")
	}
}
