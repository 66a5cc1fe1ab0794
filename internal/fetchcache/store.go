package fetchcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Strob0t/PropDesk/internal/port/cache"
)

var errMalformedEntry = errors.New("malformed cache entry")

// envelope is the serialized form of an entry. Timestamp is unix
// milliseconds; Nanos carries the sub-millisecond remainder so the stored
// time is exactly the FetchedAt handed to the caller. Entries written
// without it are read at millisecond precision.
type envelope[T any] struct {
	Value     T     `json:"value"`
	Timestamp int64 `json:"timestamp"`
	Nanos     int64 `json:"ns,omitempty"`
}

// rawEnvelope is decoded first so missing fields are detected.
type rawEnvelope struct {
	Value     json.RawMessage `json:"value"`
	Timestamp *int64          `json:"timestamp"`
	Nanos     int64           `json:"ns"`
}

// Entry is a decoded cache entry.
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time
}

// Store holds the most recent successful value per key, typed as T.
//
// Store never returns errors: backend failures, undecodable payloads and
// values rejected by the validator are logged at warn level and treated as
// a miss (reads) or dropped (writes).
type Store[T any] struct {
	backend  cache.Cache
	cfg      config
	validate func(T) error
}

// NewStore creates a Store over backend.
func NewStore[T any](backend cache.Cache, opts ...Option) *Store[T] {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Store[T]{backend: backend, cfg: cfg}
}

// SetValidator installs a schema check applied to every decoded value.
// Entries that fail it are treated as absent.
func (s *Store[T]) SetValidator(fn func(T) error) {
	s.validate = fn
}

// Get returns the value for key if present and younger than ttl.
// A non-positive ttl means DefaultTTL. Get has no side effects.
func (s *Store[T]) Get(ctx context.Context, key string) (T, bool) {
	return s.GetTTL(ctx, key, DefaultTTL)
}

// GetTTL is Get with an explicit freshness window.
func (s *Store[T]) GetTTL(ctx context.Context, key string, ttl time.Duration) (T, bool) {
	e, ok := s.Lookup(ctx, key)
	if !ok || !s.fresh(e, ttl) {
		var zero T
		return zero, false
	}
	return e.Value, true
}

// Lookup returns the entry for key regardless of age.
func (s *Store[T]) Lookup(ctx context.Context, key string) (Entry[T], bool) {
	var zero Entry[T]
	if key == "" {
		return zero, false
	}

	raw, found, err := s.backend.Get(ctx, key)
	if err != nil {
		s.readFailed(ctx, "cache read failed, treating as miss", key, err)
		return zero, false
	}
	if !found {
		return zero, false
	}

	e, err := s.decode(raw)
	if err != nil {
		s.readFailed(ctx, "cache entry unreadable, treating as miss", key, err)
		return zero, false
	}
	return e, true
}

// Set overwrites the entry for key, stamped with the current time.
func (s *Store[T]) Set(ctx context.Context, key string, value T) {
	s.put(ctx, key, value)
}

// Delete removes the entry for key.
func (s *Store[T]) Delete(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		s.warn(ctx, "cache delete failed", key, err)
	}
}

// put writes value and returns the timestamp it was stamped with.
func (s *Store[T]) put(ctx context.Context, key string, value T) time.Time {
	now := s.now().Round(0)
	if key == "" {
		return now
	}
	env := envelope[T]{
		Value:     value,
		Timestamp: now.UnixMilli(),
		Nanos:     int64(now.Nanosecond() % int(time.Millisecond)),
	}
	data, err := json.Marshal(env)
	if err != nil {
		s.warn(ctx, "cache entry not encodable, skipping write", key, err)
		return now
	}
	if err := s.backend.Set(ctx, key, data, s.cfg.retention); err != nil {
		s.warn(ctx, "cache write failed, continuing uncached", key, err)
	}
	return now
}

func (s *Store[T]) decode(raw []byte) (Entry[T], error) {
	var zero Entry[T]
	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, err
	}
	if env.Timestamp == nil || len(env.Value) == 0 {
		return zero, errMalformedEntry
	}
	if env.Nanos < 0 || env.Nanos >= int64(time.Millisecond) {
		return zero, errMalformedEntry
	}
	var v T
	if err := json.Unmarshal(env.Value, &v); err != nil {
		return zero, err
	}
	if s.validate != nil {
		if err := s.validate(v); err != nil {
			return zero, err
		}
	}
	fetchedAt := time.UnixMilli(*env.Timestamp).Add(time.Duration(env.Nanos))
	return Entry[T]{Value: v, FetchedAt: fetchedAt}, nil
}

func (s *Store[T]) fresh(e Entry[T], ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return s.now().Sub(e.FetchedAt) < ttl
}

func (s *Store[T]) now() time.Time {
	return s.cfg.clock.Now()
}

// readFailed records a lookup that fell back to a miss.
func (s *Store[T]) readFailed(ctx context.Context, msg, key string, err error) {
	s.cfg.observer.Lookup(ctx, Resource(key), OutcomeError)
	s.warn(ctx, msg, key, err)
}

func (s *Store[T]) warn(ctx context.Context, msg, key string, err error) {
	s.cfg.log().WarnContext(ctx, msg, "key", key, "error", err)
}
