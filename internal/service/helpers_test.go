package service

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/Strob0t/PropDesk/internal/adapter/memory"
	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/fetchcache"
	"github.com/Strob0t/PropDesk/internal/middleware"
	"github.com/Strob0t/PropDesk/internal/port/broadcast"
	"github.com/Strob0t/PropDesk/internal/port/messagequeue"
)

const (
	ownerA = "6f1c1d7e-8a2b-4c3d-9e4f-5a6b7c8d9e0f"
	ownerB = "0b9e8d7c-6a5f-4e3d-2c1b-0a9f8e7d6c5b"
)

func ownerCtx(owner string) context.Context {
	return middleware.WithOwnerID(context.Background(), owner)
}

type published struct {
	subject string
	data    []byte
}

// fakeQueue records publishes and delivers nothing unless a test calls the
// captured handler.
type fakeQueue struct {
	mu        sync.Mutex
	published []published
	handler   messagequeue.Handler
}

var _ messagequeue.Queue = (*fakeQueue)(nil)

func (q *fakeQueue) Publish(_ context.Context, subject string, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, published{subject: subject, data: data})
	return nil
}

func (q *fakeQueue) Subscribe(_ context.Context, _ string, h messagequeue.Handler) (func(), error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = h
	return func() {}, nil
}

func (q *fakeQueue) Drain() error      { return nil }
func (q *fakeQueue) Close() error      { return nil }
func (q *fakeQueue) IsConnected() bool { return true }

func (q *fakeQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.published)
}

type event struct {
	eventType string
	payload   any
}

type fakeHub struct {
	mu     sync.Mutex
	events []event
}

func (h *fakeHub) BroadcastEvent(_ context.Context, eventType string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event{eventType: eventType, payload: payload})
}

// invalidatedKeys flattens the keys of every cache.invalidated event.
func (h *fakeHub) invalidatedKeys() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var keys []string
	for _, e := range h.events {
		if e.eventType != broadcast.EventCacheInvalidated {
			continue
		}
		keys = append(keys, e.payload.(broadcast.CacheInvalidatedEvent).Keys...)
	}
	return keys
}

type harness struct {
	store   *mockStore
	backend *memory.Cache
	queue   *fakeQueue
	hub     *fakeHub
	deps    CacheDeps
	ttl     config.ResourceTTLs
}

func newHarness(t *testing.T, opts ...fetchcache.Option) *harness {
	t.Helper()
	h := &harness{
		store:   newMockStore(),
		backend: newMemory(t),
		queue:   &fakeQueue{},
		hub:     &fakeHub{},
		ttl:     config.Defaults().Cache.TTL,
	}
	h.deps = CacheDeps{
		Backend:     h.backend,
		Options:     opts,
		Invalidator: NewInvalidator(h.backend, nil, h.queue, h.hub),
	}
	return h
}

// newMemory returns an in-process backend stopped when t ends.
func newMemory(t *testing.T) *memory.Cache {
	t.Helper()
	m := memory.New()
	t.Cleanup(m.Close)
	return m
}

func assertKeys(t *testing.T, got []string, want ...string) {
	t.Helper()
	for _, k := range want {
		if !slices.Contains(got, k) {
			t.Errorf("expected key %q among %v", k, got)
		}
	}
}
