package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// bucket is a token bucket refilled at a fixed rate.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter enforces a per-client token bucket. Clients are identified
// by their real IP.
type RateLimiter struct {
	rate    float64 // tokens per second
	burst   float64
	buckets map[string]*bucket
	mu      sync.Mutex
	now     func() time.Time
}

func NewRateLimiter(rps, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 20
	}
	if burst <= 0 {
		burst = rps
	}
	return &RateLimiter{
		rate:    float64(rps),
		burst:   float64(burst),
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow takes one token from the client's bucket, reporting whether the
// request may proceed.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[clientID]
	if !ok {
		b = &bucket{tokens: rl.burst, lastSeen: now}
		rl.buckets[clientID] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// StartCleanup drops buckets idle for more than an hour. Blocks until ctx
// is cancelled, so call it in a goroutine.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := rl.now().Add(-time.Hour)
			for id, b := range rl.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(rl.buckets, id)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// RateLimit rejects requests over the limit with 429 and a Retry-After
// header.
func RateLimit(limiter *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(1))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
