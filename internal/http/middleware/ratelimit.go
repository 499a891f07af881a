// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// RateLimiter is an in-memory, per-identity token bucket built on
// golang.org/x/time/rate. Buckets are keyed by authenticated user when
// Authorize ran first, by client IP otherwise, and idle buckets are evicted
// opportunistically. Idempotent replays do not consume tokens.
//
// The limiter is process-local; each replica enforces its own budget.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc maps a request to its bucket identity.
type KeyFunc func(*gin.Context) string

// KeyByUserOrIP keys by "user:<id>" when authenticated, else "ip:<addr>".
func KeyByUserOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(ctxKeyUserID); uid != "" {
			return "user:" + uid
		}
		return "ip:" + c.ClientIP()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds one token bucket per key. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn KeyFunc

	mu       sync.Mutex
	visitors map[string]*visitor
	ttl      time.Duration
	lookups  uint64
}

const gcEvery = 5000

// NewRateLimiter returns a limiter refilling rps tokens per second up to
// burst (coerced to at least 1).
func NewRateLimiter(rps float64, burst int, keyFn KeyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if keyFn == nil {
		keyFn = KeyByUserOrIP()
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
	}
}

// limiterFor returns the bucket for key. Every gcEvery lookups, buckets idle
// for at least ttl are dropped, before the requested one is touched.
func (rl *RateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= gcEvery {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.lookups = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// IsRateBypass reports whether IdempotencyValidator marked the request as a
// replay.
func IsRateBypass(c *gin.Context) bool {
	return c.GetBool(ctxKeyRateBypass)
}

// Handler returns middleware that answers 429 with a Retry-After hint when
// the caller's bucket is empty.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}
		now := time.Now()
		lim := rl.limiterFor(rl.keyFn(c), now)
		if lim.AllowN(now, 1) {
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter(rl.rps)))
		abortJSON(c, http.StatusTooManyRequests, codeRateLimited, "rate limit exceeded")
	}
}

// retryAfter is the whole seconds until one token refills.
func retryAfter(rps rate.Limit) int {
	if rps <= 0 || rps == rate.Inf {
		return 1
	}
	return int(math.Max(1, math.Ceil(1/float64(rps))))
}
