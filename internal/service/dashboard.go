package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Strob0t/PropDesk/internal/domain/dashboard"
	"github.com/Strob0t/PropDesk/internal/fetchcache"
)

// DashboardService builds the owner summary from the cached entity lists.
type DashboardService struct {
	properties  *PropertyService
	units       *UnitService
	leases      *LeaseService
	payments    *PaymentService
	maintenance *MaintenanceService

	summaries *fetchcache.Fetcher[dashboard.Summary]
	ttl       time.Duration
	now       func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	deps CacheDeps,
	ttl time.Duration,
	properties *PropertyService,
	units *UnitService,
	leases *LeaseService,
	payments *PaymentService,
	maintenance *MaintenanceService,
) *DashboardService {
	store := fetchcache.NewStore[dashboard.Summary](deps.Backend, deps.Options...)
	return &DashboardService{
		properties:  properties,
		units:       units,
		leases:      leases,
		payments:    payments,
		maintenance: maintenance,
		summaries:   fetchcache.NewFetcher(store, deps.fetcherOptions()...),
		ttl:         ttl,
		now:         time.Now,
	}
}

// Summary returns the owner's cached summary, rebuilding it on miss.
func (s *DashboardService) Summary(ctx context.Context) (dashboard.Summary, error) {
	res := s.summaries.Fetch(ctx, dashboardKey(ctx), s.build, fetchcache.TTL(s.ttl))
	return res.Data, res.Err
}

// Refresh rebuilds the summary, bypassing the cached copy.
func (s *DashboardService) Refresh(ctx context.Context) (dashboard.Summary, error) {
	res := s.summaries.Refetch(ctx, dashboardKey(ctx), s.build)
	return res.Data, res.Err
}

// build reads the five lists concurrently. Each read is itself cached, so a
// warm dashboard costs no database round trips.
func (s *DashboardService) build(ctx context.Context) (dashboard.Summary, error) {
	var in dashboard.Inputs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Properties, err = s.properties.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Units, err = s.units.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Leases, err = s.leases.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Payments, err = s.payments.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Maintenance, err = s.maintenance.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.Summary{}, err
	}
	return dashboard.Summarize(in, s.now()), nil
}
