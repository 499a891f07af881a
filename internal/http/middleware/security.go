// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// SecurityHeaders adds conservative response headers for a JSON API behind a
// reverse proxy. HSTS is opt-in and only sent on HTTPS requests.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	EnableHSTS   bool          // only when HTTPS end-to-end
	HSTSMaxAge   time.Duration // default 180 days
	NoStore      bool          // Cache-Control: no-store
	EnablePolicy bool          // Permissions-Policy and friends
}

// exposedHeaders are made readable to browser clients.
var exposedHeaders = []string{requestIDHeader, "ETag", HeaderIdempotencyReplayed, "Retry-After"}

// SecurityHeaders returns the hardening middleware.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	hsts := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			// Location data is sent in request bodies, never read by the browser.
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}
		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		exposeHeaders(h)

		c.Next()
	}
}

// exposeHeaders appends exposedHeaders to Access-Control-Expose-Headers
// without duplicating entries already present.
func exposeHeaders(h http.Header) {
	const hdr = "Access-Control-Expose-Headers"
	cur := h.Get(hdr)
	have := strings.ToLower(cur)
	var add []string
	for _, e := range exposedHeaders {
		if !strings.Contains(have, strings.ToLower(e)) {
			add = append(add, e)
		}
	}
	if len(add) == 0 {
		return
	}
	if cur != "" {
		add = append([]string{cur}, add...)
	}
	h.Set(hdr, strings.Join(add, ", "))
}

// isHTTPS reports TLS directly or via X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
