package fetchcache

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds concurrent loader invocations using a weighted semaphore.
// Share one Limiter across Fetchers to cap load on the database process-wide.
type Limiter struct {
	sem *semaphore.Weighted
}

// NewLimiter creates a Limiter that allows at most limit concurrent loads.
// A limit below 1 returns nil, which Run treats as unbounded.
func NewLimiter(limit int) *Limiter {
	if limit < 1 {
		return nil
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(limit))}
}

// Run acquires a slot, runs fn, and releases the slot.
// Blocks if all slots are busy. Returns ctx.Err() if the context
// is cancelled while waiting for a slot.
// If the limiter is nil, fn is executed directly without concurrency control.
func (l *Limiter) Run(ctx context.Context, fn func() error) error {
	if l == nil || l.sem == nil {
		return fn()
	}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	return fn()
}
