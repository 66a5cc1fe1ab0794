// Package broadcast defines the port for broadcasting real-time events to connected clients.
package broadcast

import "context"

// EventCacheInvalidated tells clients that cached data for a key prefix
// changed and should be refetched.
const EventCacheInvalidated = "cache.invalidated"

// Broadcaster sends real-time events to all connected clients.
type Broadcaster interface {
	// BroadcastEvent sends a typed event to all connected clients.
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}

// CacheInvalidatedEvent is the payload of EventCacheInvalidated. Clients
// subscribed to OwnerID refetch every query whose key starts with one of Keys.
type CacheInvalidatedEvent struct {
	OwnerID  string   `json:"owner_id"`
	Resource string   `json:"resource"`
	Keys     []string `json:"keys"`
}
