package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func newLimitedRouter(rl *RateLimiter, before ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(before...)
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, nil)
	r := newLimitedRouter(rl)

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes[i] = w.Code
		if w.Code == http.StatusTooManyRequests && w.Header().Get("Retry-After") == "" {
			t.Fatal("429 without Retry-After")
		}
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestRateLimiter_KeysByUser(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, KeyByUserOrIP())
	r := newLimitedRouter(rl, func(c *gin.Context) {
		c.Set(ctxKeyUserID, c.GetHeader("X-Test-User"))
		c.Next()
	})

	send := func(user string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Test-User", user)
		r.ServeHTTP(w, req)
		return w.Code
	}
	if send("alice") != 200 || send("bob") != 200 {
		t.Fatal("first request per user must pass")
	}
	if send("alice") != http.StatusTooManyRequests {
		t.Fatal("alice should be limited")
	}
}

func TestRateLimiter_ReplayBypass(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, nil)
	r := newLimitedRouter(rl, func(c *gin.Context) {
		c.Set(ctxKeyRateBypass, true)
		c.Next()
	})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("replay %d limited: %d", i, w.Code)
		}
	}
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	rl.ttl = time.Millisecond
	start := time.Now()
	rl.limiterFor("old", start)

	rl.lookups = gcEvery - 1
	rl.limiterFor("new", start.Add(time.Second))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["old"]; ok {
		t.Fatal("idle bucket not evicted")
	}
	if _, ok := rl.visitors["new"]; !ok {
		t.Fatal("requested bucket missing")
	}
}

func TestRetryAfter(t *testing.T) {
	cases := []struct {
		rps  rate.Limit
		want int
	}{
		{0, 1},
		{rate.Inf, 1},
		{10, 1},
		{0.25, 4},
	}
	for _, tc := range cases {
		if got := retryAfter(tc.rps); got != tc.want {
			t.Errorf("retryAfter(%v) = %d, want %d", tc.rps, got, tc.want)
		}
	}
}
