package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Strob0t/PropDesk/internal/fetchcache"
	"github.com/Strob0t/PropDesk/internal/middleware"
	"github.com/Strob0t/PropDesk/internal/port/broadcast"
	"github.com/Strob0t/PropDesk/internal/port/cache"
	"github.com/Strob0t/PropDesk/internal/port/messagequeue"
)

// Evicter drops a key from this instance's local cache tier only.
type Evicter interface {
	Evict(ctx context.Context, key string) error
}

// Invalidator applies write-path invalidations. It deletes keys from the
// shared cache, announces them on the queue so other instances drop their
// local copies, and tells connected clients to refetch.
// A nil *Invalidator is a no-op.
type Invalidator struct {
	backend cache.Cache
	local   Evicter
	queue   messagequeue.Queue
	hub     broadcast.Broadcaster
	gens    *fetchcache.Generations
	origin  string
}

// NewInvalidator creates an Invalidator over backend. queue and hub may be
// nil; local may be nil when there is no separate local tier.
func NewInvalidator(backend cache.Cache, local Evicter, queue messagequeue.Queue, hub broadcast.Broadcaster) *Invalidator {
	return &Invalidator{
		backend: backend,
		local:   local,
		queue:   queue,
		hub:     hub,
		gens:    fetchcache.NewGenerations(),
		origin:  uuid.NewString(),
	}
}

// Origin identifies this instance in published invalidations.
func (i *Invalidator) Origin() string {
	if i == nil {
		return ""
	}
	return i.origin
}

// Generations is shared with the fetchers so loads racing an invalidation
// do not re-cache the value it removed.
func (i *Invalidator) Generations() *fetchcache.Generations {
	if i == nil {
		return nil
	}
	return i.gens
}

// Invalidate deletes keys and announces the change. Failures are logged, not
// returned; a missed entry still expires with its TTL.
func (i *Invalidator) Invalidate(ctx context.Context, resource string, keys ...string) {
	if i == nil || len(keys) == 0 {
		return
	}
	for _, k := range keys {
		i.gens.Invalidate(k)
		if err := i.backend.Delete(ctx, k); err != nil {
			slog.WarnContext(ctx, "cache invalidation failed", "key", k, "error", err)
		}
	}

	ownerID := middleware.OwnerIDFromContext(ctx)
	if i.queue != nil {
		data, err := json.Marshal(messagequeue.CacheInvalidatePayload{
			Origin:   i.origin,
			OwnerID:  ownerID,
			Resource: resource,
			Keys:     keys,
		})
		if err == nil {
			err = i.queue.Publish(ctx, messagequeue.SubjectCacheInvalidate, data)
		}
		if err != nil {
			slog.WarnContext(ctx, "publish cache invalidation failed", "resource", resource, "error", err)
		}
	}
	i.notify(ctx, ownerID, resource, keys)
}

// Subscribe applies invalidations published by other instances until the
// returned cancel function is called.
func (i *Invalidator) Subscribe(ctx context.Context) (cancel func(), err error) {
	if i == nil || i.queue == nil {
		return func() {}, nil
	}
	cancel, err = i.queue.Subscribe(ctx, messagequeue.SubjectCacheInvalidate, i.handle)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", messagequeue.SubjectCacheInvalidate, err)
	}
	return cancel, nil
}

func (i *Invalidator) handle(ctx context.Context, subject string, data []byte) error {
	if err := messagequeue.Validate(subject, data); err != nil {
		// Ack so the message is not redelivered.
		slog.WarnContext(ctx, "dropping invalid cache invalidation", "error", err)
		return nil
	}
	var p messagequeue.CacheInvalidatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	if p.Origin == i.origin {
		return nil
	}
	for _, k := range p.Keys {
		i.gens.Invalidate(k)
	}
	if i.local != nil {
		for _, k := range p.Keys {
			if err := i.local.Evict(ctx, k); err != nil {
				return fmt.Errorf("evict %s: %w", k, err)
			}
		}
	}
	i.notify(ctx, p.OwnerID, p.Resource, p.Keys)
	return nil
}

func (i *Invalidator) notify(ctx context.Context, ownerID, resource string, keys []string) {
	if i.hub == nil {
		return
	}
	i.hub.BroadcastEvent(ctx, broadcast.EventCacheInvalidated, broadcast.CacheInvalidatedEvent{
		OwnerID:  ownerID,
		Resource: resource,
		Keys:     keys,
	})
}
