package fetchcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Strob0t/PropDesk/internal/domain"
)

var (
	// ErrEmptyKey is returned in Result.Err for an empty cache key.
	ErrEmptyKey = fmt.Errorf("cache key is required: %w", domain.ErrValidation)
	// ErrNilLoader is returned in Result.Err when no loader is supplied.
	ErrNilLoader = errors.New("fetchcache: nil loader")
	// ErrLoaderPanic wraps a panic recovered from a loader.
	ErrLoaderPanic = errors.New("fetchcache: loader panicked")
)

// Loader fetches the authoritative value for a key.
type Loader[T any] func(ctx context.Context) (T, error)

// Status is the lifecycle state of a Result.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// Result is the outcome of a fetch as a UI would render it.
type Result[T any] struct {
	Data      T
	Loading   bool
	Err       error
	FetchedAt time.Time
	// Stale is set when Data is an expired entry served while a background
	// refresh runs.
	Stale bool
}

// Status reports the lifecycle state of r.
func (r Result[T]) Status() Status {
	switch {
	case r.Loading:
		return StatusLoading
	case r.Err != nil:
		return StatusError
	case r.FetchedAt.IsZero():
		return StatusIdle
	default:
		return StatusSuccess
	}
}

// Fetcher serves cached values for keys and calls loaders on miss.
type Fetcher[T any] struct {
	store   *Store[T]
	cfg     config
	flight  singleflight.Group
	refresh singleflight.Group
	bg      sync.WaitGroup
}

// NewFetcher creates a Fetcher over store.
func NewFetcher[T any](store *Store[T], opts ...Option) *Fetcher[T] {
	cfg := defaultConfig()
	cfg.clock = store.cfg.clock
	cfg.logger = store.cfg.logger
	cfg.observer = store.cfg.observer
	for _, o := range opts {
		o(&cfg)
	}
	return &Fetcher[T]{store: store, cfg: cfg}
}

// Store returns the underlying Store.
func (f *Fetcher[T]) Store() *Store[T] {
	return f.store
}

// Fetch returns the cached value for key when valid, otherwise calls load,
// caches a successful result and returns it. A failed load leaves the cache
// untouched and returns the error with zero Data.
func (f *Fetcher[T]) Fetch(ctx context.Context, key string, load Loader[T], opts ...CallOption) Result[T] {
	if key == "" {
		return Result[T]{Err: ErrEmptyKey}
	}
	cc := f.callConfig(opts)

	if r, ok := f.cached(ctx, key, load, cc); ok {
		return r
	}

	if !f.cfg.dedup {
		return f.load(ctx, key, load)
	}
	return f.shared(ctx, key, load)
}

// shared runs one load per key for all concurrent callers. The load is
// detached from the cancellation of whichever caller started it; each
// caller stops waiting when its own ctx is done.
func (f *Fetcher[T]) shared(ctx context.Context, key string, load Loader[T]) Result[T] {
	loadCtx := context.WithoutCancel(ctx)
	ch := f.flight.DoChan(key, func() (any, error) {
		return f.load(loadCtx, key, load), nil
	})
	select {
	case res := <-ch:
		return res.Val.(Result[T])
	case <-ctx.Done():
		return Result[T]{Err: ctx.Err()}
	}
}

// Refetch calls load unconditionally and overwrites the entry on success.
// Concurrent Refetch calls are never collapsed.
func (f *Fetcher[T]) Refetch(ctx context.Context, key string, load Loader[T]) Result[T] {
	if key == "" {
		return Result[T]{Err: ErrEmptyKey}
	}
	return f.load(ctx, key, load)
}

// Invalidate drops the cached entry for key. Loads of key already in
// flight do not leave their result cached.
func (f *Fetcher[T]) Invalidate(ctx context.Context, key string) {
	f.cfg.gens.Invalidate(key)
	f.store.Delete(ctx, key)
}

// Wait blocks until background revalidations have finished.
func (f *Fetcher[T]) Wait() {
	f.bg.Wait()
}

func (f *Fetcher[T]) callConfig(opts []CallOption) callConfig {
	cc := callConfig{ttl: f.cfg.ttl, revalidate: f.cfg.revalidate}
	for _, o := range opts {
		o(&cc)
	}
	return cc
}

// cached returns a servable result from the store, scheduling a background
// refresh when an expired entry is served under stale-while-revalidate.
func (f *Fetcher[T]) cached(ctx context.Context, key string, load Loader[T], cc callConfig) (Result[T], bool) {
	resource := Resource(key)
	e, ok := f.store.Lookup(ctx, key)
	switch {
	case !ok:
		f.cfg.observer.Lookup(ctx, resource, OutcomeMiss)
		return Result[T]{}, false
	case f.store.fresh(e, cc.ttl):
		f.cfg.observer.Lookup(ctx, resource, OutcomeHit)
		return Result[T]{Data: e.Value, FetchedAt: e.FetchedAt}, true
	case cc.revalidate && load != nil:
		f.cfg.observer.Lookup(ctx, resource, OutcomeStale)
		f.revalidate(ctx, key, load)
		return Result[T]{Data: e.Value, FetchedAt: e.FetchedAt, Stale: true}, true
	default:
		f.cfg.observer.Lookup(ctx, resource, OutcomeMiss)
		return Result[T]{}, false
	}
}

func (f *Fetcher[T]) load(ctx context.Context, key string, load Loader[T]) Result[T] {
	if load == nil {
		return Result[T]{Err: ErrNilLoader}
	}

	var (
		v       T
		loadErr error
	)
	seq := f.cfg.gens.begin(key)
	err := f.cfg.limiter.Run(ctx, func() error {
		loadCtx, done := f.cfg.observer.LoadStarted(ctx, key)
		start := time.Now()
		v, loadErr = call(loadCtx, load)
		done(loadErr, time.Since(start))
		return nil
	})
	if err == nil {
		err = loadErr
	}
	if err != nil {
		f.cfg.gens.end(key, seq)
		f.cfg.log().DebugContext(ctx, "loader failed", "key", key, "error", err)
		return Result[T]{Err: err}
	}

	fetchedAt := f.store.put(ctx, key, v)
	// An invalidation may have deleted key while the loader ran or before
	// the write landed; either way the written value predates it.
	if f.cfg.gens.end(key, seq) {
		f.cfg.log().DebugContext(ctx, "key invalidated during load, dropping entry", "key", key)
		f.store.Delete(ctx, key)
	}
	return Result[T]{Data: v, FetchedAt: fetchedAt}
}

// revalidate refreshes key in the background, at most once at a time per key.
// The refresh outlives the caller's cancellation but keeps its values.
func (f *Fetcher[T]) revalidate(ctx context.Context, key string, load Loader[T]) {
	bgCtx := context.WithoutCancel(ctx)
	f.bg.Add(1)
	go func() {
		defer f.bg.Done()
		_, _, _ = f.refresh.Do(key, func() (any, error) {
			if r := f.load(bgCtx, key, load); r.Err != nil {
				f.cfg.log().WarnContext(bgCtx, "background revalidation failed", "key", key, "error", r.Err)
			}
			return nil, nil
		})
	}()
}

func call[T any](ctx context.Context, load Loader[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrLoaderPanic, r)
		}
	}()
	return load(ctx)
}
