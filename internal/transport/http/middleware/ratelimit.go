package middleware

import (
	"net/http"
	"sync"
	"time"

	"perftrack/internal/transport/http/api"
	"perftrack/internal/transport/http/shared"
)

type rateWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter applies a fixed per-minute window keyed by client IP.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	windows map[string]*rateWindow
	now     func() time.Time
}

func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		limit:   perMinute,
		windows: make(map[string]*rateWindow),
		now:     time.Now,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	win, ok := rl.windows[key]
	if !ok || now.After(win.resetAt) {
		rl.windows[key] = &rateWindow{count: 1, resetAt: now.Add(time.Minute)}
		return true
	}
	if win.count >= rl.limit {
		return false
	}
	win.count++
	return true
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(shared.ClientIP(r)) {
			api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
