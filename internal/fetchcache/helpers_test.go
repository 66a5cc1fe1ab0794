package fetchcache_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Strob0t/PropDesk/internal/adapter/memory"
	"github.com/Strob0t/PropDesk/internal/fetchcache"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// brokenCache fails every operation.
type brokenCache struct{}

var errBackend = errors.New("storage unavailable")

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errBackend
}
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error { return errBackend }
func (brokenCache) Delete(context.Context, string) error                   { return errBackend }

// recordingObserver counts lookup outcomes and loads.
type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[fetchcache.Outcome]int
	loads    int
	failures int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{outcomes: make(map[fetchcache.Outcome]int)}
}

func (o *recordingObserver) Lookup(_ context.Context, _ string, outcome fetchcache.Outcome) {
	o.mu.Lock()
	o.outcomes[outcome]++
	o.mu.Unlock()
}

func (o *recordingObserver) LoadStarted(ctx context.Context, _ string) (context.Context, func(error, time.Duration)) {
	return ctx, func(err error, _ time.Duration) {
		o.mu.Lock()
		o.loads++
		if err != nil {
			o.failures++
		}
		o.mu.Unlock()
	}
}

func (o *recordingObserver) count(outcome fetchcache.Outcome) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomes[outcome]
}

type property struct {
	Name string `json:"name"`
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// newMemory returns an in-process backend stopped when t ends.
func newMemory(t *testing.T) *memory.Cache {
	t.Helper()
	m := memory.New()
	t.Cleanup(m.Close)
	return m
}

func newTestFetcher(t *testing.T, clock *fakeClock, opts ...fetchcache.Option) *fetchcache.Fetcher[property] {
	t.Helper()
	logger, _ := bufferLogger()
	storeOpts := append([]fetchcache.Option{fetchcache.WithClock(clock), fetchcache.WithLogger(logger)}, opts...)
	store := fetchcache.NewStore[property](newMemory(t), storeOpts...)
	return fetchcache.NewFetcher(store, opts...)
}

// countingLoader returns value and counts invocations.
type countingLoader struct {
	mu    sync.Mutex
	calls int
}

func (c *countingLoader) loader(value property) fetchcache.Loader[property] {
	return func(context.Context) (property, error) {
		c.mu.Lock()
		c.calls++
		c.mu.Unlock()
		return value, nil
	}
}

func (c *countingLoader) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func awaitSettled[T any](t *testing.T, q *fetchcache.Query[T]) fetchcache.Result[T] {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case r, ok := <-q.Updates():
			if !ok {
				t.Fatal("updates closed before query settled")
			}
			if !r.Loading {
				return r
			}
		case <-timeout:
			t.Fatal("timed out waiting for query to settle")
		}
	}
}
