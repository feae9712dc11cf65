// Package ratelimit spaces outbound provider calls.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter guards one outbound channel: every Wait returns at least
// MinInterval after the previous Wait on the same instance returned.
// It is safe for concurrent use.
type Limiter struct {
	interval time.Duration
	limiter  *rate.Limiter
}

func New(minInterval time.Duration) *Limiter {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Limiter{
		interval: minInterval,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

func (l *Limiter) MinInterval() time.Duration {
	return l.interval
}

// Wait blocks until the next call is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}
