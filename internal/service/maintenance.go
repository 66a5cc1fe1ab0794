package service

import (
	"context"
	"time"

	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/domain/maintenance"
	"github.com/Strob0t/PropDesk/internal/port/database"
)

// MaintenanceService handles maintenance request business logic.
type MaintenanceService struct {
	store database.Store
	res   *resource[maintenance.Request]
	now   func() time.Time
}

// NewMaintenanceService creates a new MaintenanceService.
func NewMaintenanceService(store database.Store, deps CacheDeps, ttl config.ResourceTTLs) *MaintenanceService {
	return &MaintenanceService{
		store: store,
		res:   newResource[maintenance.Request](deps, "maintenance", "maintenance_request", ttl.Maintenance, nil),
		now:   time.Now,
	}
}

// List returns every maintenance request the owner has.
func (s *MaintenanceService) List(ctx context.Context) ([]maintenance.Request, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx), s.store.ListMaintenance)
}

// ListByUnit returns the maintenance requests of one unit.
func (s *MaintenanceService) ListByUnit(ctx context.Context, unitID string) ([]maintenance.Request, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx, "unit", unitID), func(ctx context.Context) ([]maintenance.Request, error) {
		return s.store.ListMaintenanceByUnit(ctx, unitID)
	})
}

// Get returns a maintenance request by ID.
func (s *MaintenanceService) Get(ctx context.Context, id string) (*maintenance.Request, error) {
	return s.res.fetchItem(ctx, id, func(ctx context.Context) (*maintenance.Request, error) {
		return s.store.GetMaintenance(ctx, id)
	})
}

// Create validates and opens a maintenance request. Optional tenant and
// vendor references must belong to the same owner.
func (s *MaintenanceService) Create(ctx context.Context, req maintenance.CreateRequest) (*maintenance.Request, error) {
	if err := maintenance.ValidateCreate(&req); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.TenantID, req.VendorID); err != nil {
		return nil, err
	}
	r, err := s.store.CreateMaintenance(ctx, req)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "", r.UnitID)
	return r, nil
}

// Update applies a partial update, enforcing the status transition rules.
func (s *MaintenanceService) Update(ctx context.Context, id string, req maintenance.UpdateRequest) (*maintenance.Request, error) {
	r, err := s.store.GetMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := maintenance.ValidateUpdate(*r, req); err != nil {
		return nil, err
	}
	if req.VendorID != nil {
		if err := s.checkRefs(ctx, "", *req.VendorID); err != nil {
			return nil, err
		}
	}
	r.Apply(req, s.now())
	if err := s.store.UpdateMaintenance(ctx, r); err != nil {
		return nil, err
	}
	s.changed(ctx, id, r.UnitID)
	return r, nil
}

// Delete removes a maintenance request.
func (s *MaintenanceService) Delete(ctx context.Context, id string) error {
	r, err := s.store.GetMaintenance(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteMaintenance(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, id, r.UnitID)
	return nil
}

func (s *MaintenanceService) checkRefs(ctx context.Context, tenantID, vendorID string) error {
	if tenantID != "" {
		if _, err := s.store.GetTenant(ctx, tenantID); err != nil {
			return err
		}
	}
	if vendorID != "" {
		if _, err := s.store.GetVendor(ctx, vendorID); err != nil {
			return err
		}
	}
	return nil
}

func (s *MaintenanceService) changed(ctx context.Context, id, unitID string) {
	s.res.changed(ctx, id, []string{"unit", unitID})
}
