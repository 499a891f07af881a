// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the correlation ID, the access logger and panic
// recovery. Recommended order: RequestID, Logger (or RedactingLogger),
// Recovery, so panics and access lines carry the request ID.
//
// The access logger attaches a request-scoped zerolog.Logger both to the
// Gin context (LoggerFrom) and to the request's context.Context, so service
// code can log with zerolog.Ctx(ctx).
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey      = "requestID"
	requestIDHeader   = "X-Request-ID"
	loggerKey         = "logger"
	maxQueryLogLength = 2048
)

// RequestID reuses the caller's X-Request-ID or generates a UUID, echoes it
// on the response and stores it in the Gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the current request's correlation ID.
func RequestIDFrom(c *gin.Context) string {
	if rid := c.GetString(requestIDKey); rid != "" {
		return rid
	}
	return c.Writer.Header().Get(requestIDHeader)
}

// Logger writes one structured access line per request: info for 2xx/3xx,
// warn for 4xx, error for 5xx or when handlers recorded gin errors.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := routePath(c)

		l := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		attachLogger(c, &l)

		c.Next()

		status := c.Writer.Status()
		ev := levelFor(&l, status, len(c.Errors) > 0)
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("user_id", c.GetString(ctxKeyUserID)).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Msg("request")
	}
}

// Recovery turns a panic into a logged stack trace and a JSON 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, RequestIDFrom(c))
			abortJSON(c, http.StatusInternalServerError, codeInternal, "internal server error")
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger with a
// request_id field when none was attached.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Str("request_id", RequestIDFrom(c)).Logger()
	return &l
}

func attachLogger(c *gin.Context, l *zerolog.Logger) {
	c.Set(loggerKey, l)
	c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
}

func levelFor(l *zerolog.Logger, status int, hasErrors bool) *zerolog.Event {
	switch {
	case hasErrors || status >= 500:
		return l.Error()
	case status >= 400:
		return l.Warn()
	}
	return l.Info()
}

func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// truncate caps s at max bytes; max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
