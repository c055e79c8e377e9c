package middleware

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter keeps a token bucket per client key.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu     sync.Mutex
	limits map[string]*rate.Limiter
}

// NewRateLimiter creates a limiter allowing perSecond requests per client
// with bursts of burst.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:  rate.Limit(perSecond),
		burst:  burst,
		limits: make(map[string]*rate.Limiter),
	}
}

// getLimiter gets or creates a limiter for the given key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limits[key] = limiter
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Wait waits for a request to be allowed.
// Returns error if the context is cancelled or rate limit exceeded.
func (rl *RateLimiter) Wait(ctx context.Context, key string) error {
	return rl.getLimiter(key).Wait(ctx)
}

// Middleware rejects requests over the limit of their client IP with 429.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "too many requests",
				})
			}
			return next(c)
		}
	}
}
