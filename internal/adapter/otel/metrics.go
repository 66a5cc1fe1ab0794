package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Strob0t/PropDesk/internal/fetchcache"
)

const (
	meterName  = "propdesk"
	tracerName = "propdesk"
)

// CacheMetrics records fetch cache telemetry. It implements
// fetchcache.Observer.
type CacheMetrics struct {
	lookups      metric.Int64Counter
	loadErrors   metric.Int64Counter
	loadDuration metric.Float64Histogram
	tracer       trace.Tracer
}

var _ fetchcache.Observer = (*CacheMetrics)(nil)

// NewCacheMetrics creates the instruments on the global meter provider.
func NewCacheMetrics() (*CacheMetrics, error) {
	return newCacheMetrics(otel.GetMeterProvider(), otel.GetTracerProvider())
}

func newCacheMetrics(mp metric.MeterProvider, tp trace.TracerProvider) (*CacheMetrics, error) {
	meter := mp.Meter(meterName)
	m := &CacheMetrics{tracer: tp.Tracer(tracerName)}
	var err error

	m.lookups, err = meter.Int64Counter("propdesk.cache.lookups",
		metric.WithDescription("Cache lookups by resource and outcome (hit, miss, stale, error)"))
	if err != nil {
		return nil, err
	}

	m.loadErrors, err = meter.Int64Counter("propdesk.cache.load_errors",
		metric.WithDescription("Loader invocations that returned an error"))
	if err != nil {
		return nil, err
	}

	m.loadDuration, err = meter.Float64Histogram("propdesk.cache.load_duration_seconds",
		metric.WithDescription("Loader duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Lookup counts one cache read.
func (m *CacheMetrics) Lookup(ctx context.Context, resource string, outcome fetchcache.Outcome) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.resource", resource),
		attribute.String("cache.outcome", string(outcome)),
	))
}

// LoadStarted opens a loader span and records its duration and error.
func (m *CacheMetrics) LoadStarted(ctx context.Context, key string) (context.Context, func(error, time.Duration)) {
	resource := fetchcache.Resource(key)
	ctx, span := m.tracer.Start(ctx, "cache.load", trace.WithAttributes(
		attribute.String("cache.key", key),
		attribute.String("cache.resource", resource),
	))
	return ctx, func(err error, elapsed time.Duration) {
		attrs := metric.WithAttributes(attribute.String("cache.resource", resource))
		m.loadDuration.Record(ctx, elapsed.Seconds(), attrs)
		if err != nil {
			m.loadErrors.Add(ctx, 1, attrs)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
