// Package memory implements the cache port with an in-process ttlcache.
//
// It is the process-local variant: entries live as long as the process and
// are only dropped by Delete or an expired retention hint.
package memory

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Cache is an unbounded in-process cache.
type Cache struct {
	c *ttlcache.Cache[string, []byte]
}

// New creates an empty in-memory cache and starts its expiry loop.
// Call Close to stop the loop.
func New() *Cache {
	c := ttlcache.New[string, []byte](
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go c.Start()
	return &Cache{c: c}
}

// Get retrieves a copy of the value stored under key.
func (c *Cache) Get(_ context.Context, key string) (data []byte, ok bool, err error) {
	it := c.c.Get(key)
	if it == nil || it.IsExpired() {
		return nil, false, nil
	}
	v := it.Value()
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set stores a copy of value. A positive ttl bounds retention.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	data := make([]byte, len(value))
	copy(data, value)
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	c.c.Set(key, data, ttl)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.c.Delete(key)
	return nil
}

// Len returns the number of stored entries, including expired ones the
// expiry loop has not removed yet.
func (c *Cache) Len() int {
	return c.c.Len()
}

// Close stops the expiry loop. Stored entries stay readable.
func (c *Cache) Close() {
	c.c.Stop()
}
