package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/domain/lease"
	"github.com/Strob0t/PropDesk/internal/domain/unit"
	"github.com/Strob0t/PropDesk/internal/port/database"
)

// LeaseService handles lease business logic and keeps unit occupancy in
// step with lease status.
type LeaseService struct {
	store database.Store
	res   *resource[lease.Lease]
	now   func() time.Time
}

// NewLeaseService creates a new LeaseService.
func NewLeaseService(store database.Store, deps CacheDeps, ttl config.ResourceTTLs) *LeaseService {
	return &LeaseService{
		store: store,
		res:   newResource[lease.Lease](deps, "leases", "lease", ttl.Leases, nil),
		now:   time.Now,
	}
}

// List returns every lease the owner holds.
func (s *LeaseService) List(ctx context.Context) ([]lease.Lease, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx), s.store.ListLeases)
}

// ListByUnit returns the leases of one unit.
func (s *LeaseService) ListByUnit(ctx context.Context, unitID string) ([]lease.Lease, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx, "unit", unitID), func(ctx context.Context) ([]lease.Lease, error) {
		return s.store.ListLeasesByUnit(ctx, unitID)
	})
}

// Get returns a lease by ID.
func (s *LeaseService) Get(ctx context.Context, id string) (*lease.Lease, error) {
	return s.res.fetchItem(ctx, id, func(ctx context.Context) (*lease.Lease, error) {
		return s.store.GetLease(ctx, id)
	})
}

// Create validates and stores a new lease.
func (s *LeaseService) Create(ctx context.Context, req lease.CreateRequest) (*lease.Lease, error) {
	if err := lease.ValidateCreate(&req); err != nil {
		return nil, err
	}
	l, err := s.store.CreateLease(ctx, req)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "", l.UnitID)
	s.syncOccupancy(ctx, l)
	return l, nil
}

// Update applies a partial update to a lease.
func (s *LeaseService) Update(ctx context.Context, id string, req lease.UpdateRequest) (*lease.Lease, error) {
	l, err := s.store.GetLease(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lease.ValidateUpdate(*l, req); err != nil {
		return nil, err
	}
	l.Apply(req)
	if err := s.store.UpdateLease(ctx, l); err != nil {
		return nil, err
	}
	s.changed(ctx, id, l.UnitID)
	s.syncOccupancy(ctx, l)
	return l, nil
}

// Delete removes a lease and its payments. The payments are listed first
// so their cached items can be dropped once the rows are gone.
func (s *LeaseService) Delete(ctx context.Context, id string) error {
	l, err := s.store.GetLease(ctx, id)
	if err != nil {
		return err
	}
	payments, err := s.store.ListPaymentsByLease(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteLease(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, id, l.UnitID)

	keys := make([]string, 0, len(payments)+2)
	keys = append(keys, ownerKey(ctx, "payments"), ownerKey(ctx, "payments", "lease", id))
	for _, p := range payments {
		keys = append(keys, ownerKey(ctx, "payment", p.ID))
	}
	s.res.inv.Invalidate(ctx, "payments", keys...)
	return nil
}

func (s *LeaseService) changed(ctx context.Context, id, unitID string) {
	s.res.changed(ctx, id, []string{"unit", unitID})
}

// syncOccupancy marks the lease's unit occupied while the lease is active
// and vacant once it has ended. Units under maintenance are left alone.
// Failures are logged; the lease write has already succeeded.
func (s *LeaseService) syncOccupancy(ctx context.Context, l *lease.Lease) {
	var want unit.Status
	switch {
	case l.Active(s.now()):
		want = unit.StatusOccupied
	case l.Status == lease.StatusEnded || l.Status == lease.StatusTerminated:
		want = unit.StatusVacant
	default:
		return
	}

	u, err := s.store.GetUnit(ctx, l.UnitID)
	if err != nil {
		slog.WarnContext(ctx, "sync unit occupancy", "unit_id", l.UnitID, "error", err)
		return
	}
	if u.Status == want || u.Status == unit.StatusMaintenance {
		return
	}
	u.Status = want
	if err := s.store.UpdateUnit(ctx, u); err != nil {
		slog.WarnContext(ctx, "sync unit occupancy", "unit_id", l.UnitID, "error", err)
		return
	}
	s.res.inv.Invalidate(ctx, "units",
		ownerKey(ctx, "unit", u.ID),
		ownerKey(ctx, "units"),
		ownerKey(ctx, "units", "property", u.PropertyID),
	)
}
