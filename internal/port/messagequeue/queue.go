// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Handler processes a message received from the queue.
// The context carries request-scoped values such as the request ID.
type Handler func(ctx context.Context, subject string, data []byte) error

// Queue is the port interface for publishing and subscribing to messages.
type Queue interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Subscribe registers a handler for messages on the given subject.
	// The returned function cancels the subscription.
	Subscribe(ctx context.Context, subject string, handler Handler) (cancel func(), err error)

	// Drain gracefully drains all subscriptions before closing.
	// Pending messages are processed; no new messages are accepted.
	Drain() error

	// Close shuts down the queue connection immediately.
	Close() error

	// IsConnected reports whether the queue is currently connected.
	IsConnected() bool
}

// Subjects published by PropDesk instances.
const (
	// SubjectCacheInvalidate carries CacheInvalidatePayload after a write so
	// every instance drops its local cached copies.
	SubjectCacheInvalidate = "cache.invalidate"
)

// CacheInvalidatePayload is the schema for cache.invalidate messages.
// Origin is the publishing instance, which skips its own messages.
type CacheInvalidatePayload struct {
	Origin   string   `json:"origin"`
	OwnerID  string   `json:"owner_id"`
	Resource string   `json:"resource"`
	Keys     []string `json:"keys"`
}
