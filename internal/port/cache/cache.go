// Package cache defines the port interface for byte-level caching backends.
//
// Backends only move bytes. Entry envelopes, timestamps and TTL staleness are
// owned by fetchcache.Store, so any backend can serve as the in-memory or the
// persistent variant.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for key-value caching.
//
// ttl is a retention hint for the backend; zero means keep until deleted or
// evicted by the backend's own policy.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
