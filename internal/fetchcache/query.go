package fetchcache

import (
	"context"
	"sync"
)

// Query is a live view of one key, the reactive form of Fetch.
//
// State moves idle -> loading -> success|error, and back to loading only
// through Refetch. Updates delivers the newest state; intermediate states
// may be skipped by slow readers. Close stops publication: results that
// arrive afterwards are discarded, although the loader itself keeps running
// until its own context ends.
type Query[T any] struct {
	f    *Fetcher[T]
	key  string
	load Loader[T]
	opts []CallOption

	mu      sync.Mutex
	state   Result[T]
	seq     uint64
	closed  bool
	updates chan Result[T]
	wg      sync.WaitGroup
}

// Watch starts a Query for key. A valid cached entry resolves it immediately;
// otherwise the loader runs in the background.
func (f *Fetcher[T]) Watch(ctx context.Context, key string, load Loader[T], opts ...CallOption) *Query[T] {
	q := &Query[T]{
		f:       f,
		key:     key,
		load:    load,
		opts:    opts,
		updates: make(chan Result[T], 1),
	}

	if key == "" {
		q.mu.Lock()
		q.state = Result[T]{Err: ErrEmptyKey}
		q.publishLocked()
		q.mu.Unlock()
		return q
	}

	if r, ok := f.cached(ctx, key, load, f.callConfig(opts)); ok {
		q.mu.Lock()
		q.state = r
		q.publishLocked()
		q.mu.Unlock()
		return q
	}

	q.start(ctx, false)
	return q
}

// Key returns the watched key.
func (q *Query[T]) Key() string {
	return q.key
}

// State returns the current state.
func (q *Query[T]) State() Result[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Updates returns a channel carrying the newest state after each change.
// It is closed by Close.
func (q *Query[T]) Updates() <-chan Result[T] {
	return q.updates
}

// Refetch reloads the key bypassing the cache. Data from the previous state
// stays visible while loading. Responses from fetches started before the
// latest Refetch are ignored.
func (q *Query[T]) Refetch(ctx context.Context) {
	if q.key == "" {
		return
	}
	q.start(ctx, true)
}

// Close stops publishing state and closes Updates. It is safe to call twice.
func (q *Query[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.updates)
}

// Wait blocks until fetches started by this Query have returned.
func (q *Query[T]) Wait() {
	q.wg.Wait()
}

func (q *Query[T]) start(ctx context.Context, force bool) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.seq++
	seq := q.seq
	q.state.Loading = true
	q.state.Err = nil
	q.publishLocked()
	q.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		var r Result[T]
		if force {
			r = q.f.Refetch(ctx, q.key, q.load)
		} else {
			r = q.f.Fetch(ctx, q.key, q.load, q.opts...)
		}
		q.resolve(seq, r)
	}()
}

func (q *Query[T]) resolve(seq uint64, r Result[T]) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || seq != q.seq {
		return
	}
	q.state = r
	q.publishLocked()
}

// publishLocked replaces any unread state with the current one.
// Must be called with q.mu held.
func (q *Query[T]) publishLocked() {
	if q.closed {
		return
	}
	select {
	case <-q.updates:
	default:
	}
	q.updates <- q.state
}
