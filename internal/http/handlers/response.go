// Package handlers provides HTTP handler implementations for the public API.
//
// This file holds the response helpers shared by every endpoint: the error
// envelope, success writers, pagination metadata and weak ETags for the
// polled listings (notifications, chat messages).
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swadrive/swadrive-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message
	Message string `json:"message" example:"Task not found"`
}

// MessageResponse is the body of actions that only report success.
type MessageResponse struct {
	Message string `json:"message" example:"Task updated"`
}

// Pagination carries pagination metadata for paged list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, size int, total int64) Pagination {
	pages := int((total + int64(size) - 1) / int64(size))
	return Pagination{Page: page, PageSize: size, Total: total, TotalPages: pages, HasNext: page < pages}
}

// fail aborts the request with the error envelope. Server errors are logged
// with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: middleware.RequestIDFrom(c),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported variant of fail for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failInternal answers 500 with a generic msg and records err for the
// access log; the client never sees err.
func failInternal(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, ErrCodeInternal, msg)
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// weakETag builds W/"<kind>:<scope>:<count>:<unix-nanos>[:<extra>]".
func weakETag(kind, scope string, count int64, latest *time.Time, extra ...int64) string {
	var ts int64
	if latest != nil {
		ts = latest.UnixNano()
	}
	tag := fmt.Sprintf("%s:%s:%d:%d", kind, scope, count, ts)
	for _, e := range extra {
		tag += fmt.Sprintf(":%d", e)
	}
	return `W/"` + tag + `"`
}

// notModified sets ETag and reports whether If-None-Match already matches,
// in which case a 304 has been written.
func notModified(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && (inm == etag || inm == "*") {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
