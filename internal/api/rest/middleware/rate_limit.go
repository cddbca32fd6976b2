package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/taskdeck/taskdeck/pkg/logger"
)

// RateLimiter manages per-client token buckets.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	logger   *logger.Logger
}

// NewRateLimiter creates a new rate limiter allowing rps requests per
// second with the given burst per client.
func NewRateLimiter(rps int, burst int, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		logger:   log,
	}
}

func (rl *RateLimiter) getLimiter(identifier string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[identifier]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[identifier] = limiter
	}

	return limiter
}

// Cleanup periodically resets the limiter map so idle clients do not
// accumulate. Run it in its own goroutine; it returns when ctx is done.
func (rl *RateLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			rl.limiters = make(map[string]*rate.Limiter)
			rl.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

// RateLimit is a middleware that applies rate limiting per subject/IP
func RateLimit(rl *RateLimiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := getIdentifier(r)

			limiter := rl.getLimiter(identifier)

			if !limiter.Allow() {
				rl.logger.Warn("Rate limit exceeded",
					zap.String("identifier", identifier),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", "60")
				respondError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getIdentifier extracts an identifier for rate limiting
func getIdentifier(r *http.Request) string {
	if subject := GetSubject(r.Context()); subject != "" {
		return "subject:" + subject
	}

	ip := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	} else if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		ip = realIP
	}

	return "ip:" + ip
}
