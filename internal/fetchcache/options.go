package fetchcache

import (
	"log/slog"
	"time"
)

// DefaultTTL is used when neither the Fetcher nor the call sets a TTL.
const DefaultTTL = 5 * time.Minute

type config struct {
	clock      Clock
	logger     *slog.Logger
	observer   Observer
	retention  time.Duration
	ttl        time.Duration
	dedup      bool
	revalidate bool
	limiter    *Limiter
	gens       *Generations
}

func defaultConfig() config {
	return config{
		clock:    realClock{},
		observer: nopObserver{},
		ttl:      DefaultTTL,
	}
}

func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Option configures a Store or a Fetcher. Options that do not apply to the
// value being built are ignored.
type Option func(*config)

// WithClock sets the time source used for entry timestamps. Store only.
func WithClock(c Clock) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithLogger sets the logger for soft failures.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithObserver sets the telemetry sink.
func WithObserver(o Observer) Option {
	return func(cfg *config) {
		if o != nil {
			cfg.observer = o
		}
	}
}

// WithRetention sets the retention hint passed to the backend on every write.
// Zero (the default) keeps entries until overwritten or evicted. Store only.
func WithRetention(d time.Duration) Option {
	return func(cfg *config) {
		cfg.retention = d
	}
}

// WithDefaultTTL sets the TTL used by Fetch when the call does not pass one.
// Fetcher only.
func WithDefaultTTL(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.ttl = d
		}
	}
}

// WithDedup collapses concurrent cache misses on the same key into a single
// loader call. Refetch is never collapsed. Fetcher only.
func WithDedup() Option {
	return func(cfg *config) {
		cfg.dedup = true
	}
}

// WithRevalidate makes Fetch serve an expired entry immediately, flagged
// Stale, while refreshing it in the background. Fetcher only.
func WithRevalidate() Option {
	return func(cfg *config) {
		cfg.revalidate = true
	}
}

// WithLimiter bounds concurrent loader calls. Fetcher only.
func WithLimiter(l *Limiter) Option {
	return func(cfg *config) {
		cfg.limiter = l
	}
}

// WithGenerations shares an invalidation tracker with the write path. A
// load whose key is invalidated while it runs does not leave its value
// cached. Fetcher only.
func WithGenerations(g *Generations) Option {
	return func(cfg *config) {
		cfg.gens = g
	}
}

type callConfig struct {
	ttl        time.Duration
	revalidate bool
}

// CallOption overrides Fetcher defaults for a single call.
type CallOption func(*callConfig)

// TTL sets the freshness window for this call.
func TTL(d time.Duration) CallOption {
	return func(c *callConfig) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// Revalidate enables or disables stale-while-revalidate for this call.
func Revalidate(on bool) CallOption {
	return func(c *callConfig) {
		c.revalidate = on
	}
}
