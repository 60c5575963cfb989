package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// visitor tracks the recent request times of one client IP.
type visitor struct {
	times    []time.Time
	lastSeen time.Time
}

// RateLimiter is a sliding-window limiter keyed by client IP. Only the
// mutating routes sit behind it; the per-frame playback reads do not.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window
// for each IP.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}
	go rl.sweep()
	return rl
}

// Allow records a request from ip and reports whether it stays within
// the limit.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{}
		rl.visitors[ip] = v
	}
	v.lastSeen = now

	// Drop request times that fell out of the window.
	cutoff := now.Add(-rl.window)
	kept := v.times[:0]
	for _, t := range v.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	v.times = kept

	if len(v.times) >= rl.limit {
		return false
	}
	v.times = append(v.times, now)
	return true
}

// sweep drops idle visitors so the map does not grow without bound.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-2 * rl.window)
		for ip, v := range rl.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit limits requests per client IP on the routes it wraps.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
