// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for creating requests. The
// validator checks the Idempotency-Key header, resolves the scope of the
// route (e.g. one chat's messages), and asks a lookup whether the caller
// already completed this (scope, key). Handlers then either replay the
// stored resource or process the request and remember the result.
//
// The validator must run after Authorize; keys are scoped per user.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the client's key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set on responses served from a stored result.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey      = "idem.key"
	ctxKeyIdemScope    = "idem.scope"
	ctxKeyIdemResource = "idem.resource"
	ctxKeyRateBypass   = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyLookup returns the resource created by an earlier request with
// the same (userID, scope, key), if one is still on record. Errors are
// treated as a miss.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (resourceID string, found bool, err error)

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters; nil uses ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// Scope names the operation the key applies to. Nil uses the route path.
	Scope func(c *gin.Context) string
}

// IdempotencyValidator validates the Idempotency-Key header when present and
// marks replays. A malformed key is rejected with 400; requests without a
// key pass through unchanged.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}
	scopeOf := opts.Scope
	if scopeOf == nil {
		scopeOf = func(c *gin.Context) string { return c.FullPath() }
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abortJSON(c, http.StatusBadRequest, codeBadRequest, "invalid Idempotency-Key")
			return
		}

		scope := scopeOf(c)
		c.Set(ctxKeyIdemKey, key)
		c.Set(ctxKeyIdemScope, scope)

		if lookup != nil {
			uid := c.GetString(ctxKeyUserID)
			if rid, found, err := lookup(c.Request.Context(), uid, scope, key, time.Now().UTC()); err == nil && found {
				c.Set(ctxKeyIdemResource, rid)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

// IdempotencyKey returns the validated key and its scope.
func IdempotencyKey(c *gin.Context) (key, scope string, ok bool) {
	key = c.GetString(ctxKeyIdemKey)
	return key, c.GetString(ctxKeyIdemScope), key != ""
}

// ReplayedResource returns the resource ID of an earlier completed request
// with the same key, when the validator found one.
func ReplayedResource(c *gin.Context) (string, bool) {
	rid := c.GetString(ctxKeyIdemResource)
	return rid, rid != ""
}
