// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Authorize, the per-route access guard. It verifies
// the bearer token, checks the caller's role against the route's
// auth.Access, and stores the identity in the Gin context for handlers,
// rate limiting, idempotency and access logs.
//
// Rejections use the API's error envelope:
//   - 401 "No token provided" when the Authorization header is missing
//   - 401 "Invalid token" for malformed, forged or expired tokens
//   - 403 "Access denied: wrong role" when the role does not match
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swadrive/swadrive-backend/internal/auth"
	"github.com/swadrive/swadrive-backend/internal/domain"
	"github.com/swadrive/swadrive-backend/internal/observability"
)

const (
	ctxKeyUserID = "userID"
	ctxKeyRole   = "role"
)

// Authorize returns middleware enforcing access on a route. Public routes
// pass through untouched.
func Authorize(g *auth.Guard, access auth.Access) gin.HandlerFunc {
	return func(c *gin.Context) {
		if access == auth.Public {
			c.Next()
			return
		}

		id, err := g.Check(c.GetHeader("Authorization"), access)
		switch {
		case err == nil:
			c.Set(ctxKeyUserID, id.UserID)
			c.Set(ctxKeyRole, id.Role)
			c.Next()
		case errors.Is(err, auth.ErrUnauthenticated):
			observability.AuthFailures.WithLabelValues("missing").Inc()
			abortJSON(c, http.StatusUnauthorized, codeUnauthorized, "No token provided")
		case errors.Is(err, auth.ErrForbidden):
			observability.AuthFailures.WithLabelValues("role").Inc()
			c.Set(ctxKeyUserID, id.UserID)
			abortJSON(c, http.StatusForbidden, codeForbidden, "Access denied: wrong role")
		default:
			observability.AuthFailures.WithLabelValues("invalid").Inc()
			abortJSON(c, http.StatusUnauthorized, codeUnauthorized, "Invalid token")
		}
	}
}

// IdentityFrom returns the caller stored by Authorize.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	uid := c.GetString(ctxKeyUserID)
	if uid == "" {
		return auth.Identity{}, false
	}
	role, _ := c.Get(ctxKeyRole)
	r, _ := role.(domain.Role)
	return auth.Identity{UserID: uid, Role: r}, true
}
