package vep

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimiter bounds the outbound request rate with a token bucket shared by
// all concurrent callers of one client instance. Capacity equals the refill
// rate, giving a one-second burst window.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a token bucket refilling at requestsPerSecond
// tokens/sec with capacity requestsPerSecond.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Acquire consumes one token, blocking cooperatively until one is available.
// No lock is held while waiting. If ctx is cancelled during the wait, Acquire
// returns promptly with the cancellation error and no token is consumed.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}
	return nil
}

// Capacity returns the bucket capacity.
func (r *RateLimiter) Capacity() int {
	return r.limiter.Burst()
}
