package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Strob0t/PropDesk/internal/adapter/memory"
	pdnats "github.com/Strob0t/PropDesk/internal/adapter/nats"
	"github.com/Strob0t/PropDesk/internal/adapter/natskv"
	"github.com/Strob0t/PropDesk/internal/adapter/otel"
	"github.com/Strob0t/PropDesk/internal/adapter/ristretto"
	"github.com/Strob0t/PropDesk/internal/adapter/tiered"
	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/fetchcache"
	"github.com/Strob0t/PropDesk/internal/port/cache"
	"github.com/Strob0t/PropDesk/internal/port/messagequeue"
	"github.com/Strob0t/PropDesk/internal/resilience"
	"github.com/Strob0t/PropDesk/internal/service"
)

// cacheStack is the byte-level cache the services read through.
type cacheStack struct {
	backend cache.Cache
	local   service.Evicter // nil when there is no shared tier
	l1      *ristretto.Cache
}

func (s *cacheStack) Close() { s.l1.Close() }

// buildCache returns ristretto alone, or ristretto in front of a
// breaker-guarded NATS KV bucket when a queue is connected.
func buildCache(ctx context.Context, cfg *config.Config, queue *pdnats.Queue) (*cacheStack, error) {
	l1, err := ristretto.New(cfg.Cache.L1MaxSizeMB << 20)
	if err != nil {
		return nil, fmt.Errorf("l1: %w", err)
	}
	if queue == nil {
		slog.Info("cache ready", "tiers", "l1")
		return &cacheStack{backend: l1, l1: l1}, nil
	}

	l2, err := natskv.Open(ctx, queue.JetStream(), cfg.Cache.L2Bucket, cfg.Cache.L2TTL)
	if err != nil {
		l1.Close()
		return nil, fmt.Errorf("l2: %w", err)
	}
	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	t := tiered.New(l1, resilience.NewGuardedCache(l2, breaker), cfg.Cache.L1Expire)

	slog.Info("cache ready", "tiers", "l1+l2", "bucket", cfg.Cache.L2Bucket)
	return &cacheStack{backend: t, local: t, l1: l1}, nil
}

// fetchOptions translates the cache config into fetcher options shared by
// every service.
func fetchOptions(cfg *config.Config) ([]fetchcache.Option, error) {
	metrics, err := otel.NewCacheMetrics()
	if err != nil {
		return nil, err
	}
	opts := []fetchcache.Option{
		fetchcache.WithLogger(slog.Default()),
		fetchcache.WithObserver(metrics),
		fetchcache.WithDefaultTTL(cfg.Cache.DefaultTTL),
		fetchcache.WithRetention(cfg.Cache.L2TTL),
	}
	if cfg.Cache.Dedup {
		opts = append(opts, fetchcache.WithDedup())
	}
	if cfg.Cache.Revalidate {
		opts = append(opts, fetchcache.WithRevalidate())
	}
	if cfg.Cache.MaxConcurrentLoads > 0 {
		opts = append(opts, fetchcache.WithLimiter(fetchcache.NewLimiter(cfg.Cache.MaxConcurrentLoads)))
	}
	return opts, nil
}

// idempotencyBucket holds recorded responses for Idempotency-Key replays.
const idempotencyBucket = "PROPDESK_IDEMPOTENCY"

// idempotencyStore returns a NATS KV bucket shared by all instances, or a
// process-local cache when NATS is not configured. The returned func
// releases the store.
func idempotencyStore(ctx context.Context, cfg *config.Config, queue *pdnats.Queue) (cache.Cache, func(), error) {
	if queue == nil {
		m := memory.New()
		return m, m.Close, nil
	}
	kv, err := natskv.Open(ctx, queue.JetStream(), idempotencyBucket, cfg.Server.IdempotencyTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("idempotency bucket: %w", err)
	}
	return kv, func() {}, nil
}

// queuePort keeps a nil *Queue from becoming a non-nil interface.
func queuePort(q *pdnats.Queue) messagequeue.Queue {
	if q == nil {
		return nil
	}
	return q
}
