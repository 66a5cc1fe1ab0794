package fetchcache

import (
	"context"
	"time"
)

// Outcome classifies a cache lookup.
type Outcome string

const (
	OutcomeHit   Outcome = "hit"
	OutcomeMiss  Outcome = "miss"
	OutcomeStale Outcome = "stale"
	OutcomeError Outcome = "error" // backend or decode failure, served as a miss
)

// Observer receives cache telemetry. Implementations must be safe for concurrent use.
type Observer interface {
	// Lookup records the outcome of a cache read for the key's resource.
	Lookup(ctx context.Context, resource string, outcome Outcome)
	// LoadStarted is called before a loader runs. The returned context is
	// passed to the loader; done is called with the loader's error and the
	// elapsed time once it returns.
	LoadStarted(ctx context.Context, key string) (context.Context, func(err error, elapsed time.Duration))
}

type nopObserver struct{}

func (nopObserver) Lookup(context.Context, string, Outcome) {}

func (nopObserver) LoadStarted(ctx context.Context, _ string) (context.Context, func(error, time.Duration)) {
	return ctx, func(error, time.Duration) {}
}
