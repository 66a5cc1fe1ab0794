package resilience

import (
	"context"
	"time"

	"github.com/Strob0t/PropDesk/internal/port/cache"
)

// GuardedCache routes every call to a remote cache through a Breaker so an
// unreachable backend fails fast with ErrCircuitOpen instead of timing out
// on each request.
type GuardedCache struct {
	next    cache.Cache
	breaker *Breaker
}

// NewGuardedCache wraps next with breaker.
func NewGuardedCache(next cache.Cache, breaker *Breaker) *GuardedCache {
	return &GuardedCache{next: next, breaker: breaker}
}

// Get reads through the breaker. A miss is a success.
func (g *GuardedCache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	err = g.breaker.Execute(func() error {
		var innerErr error
		data, ok, innerErr = g.next.Get(ctx, key)
		return innerErr
	})
	if err != nil {
		return nil, false, err
	}
	return data, ok, nil
}

// Set writes through the breaker.
func (g *GuardedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return g.breaker.Execute(func() error {
		return g.next.Set(ctx, key, value, ttl)
	})
}

// Delete removes through the breaker.
func (g *GuardedCache) Delete(ctx context.Context, key string) error {
	return g.breaker.Execute(func() error {
		return g.next.Delete(ctx, key)
	})
}
