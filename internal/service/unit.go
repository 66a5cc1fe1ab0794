package service

import (
	"context"

	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/domain/unit"
	"github.com/Strob0t/PropDesk/internal/port/database"
)

// UnitService handles unit business logic.
type UnitService struct {
	store database.Store
	res   *resource[unit.Unit]
}

// NewUnitService creates a new UnitService.
func NewUnitService(store database.Store, deps CacheDeps, ttl config.ResourceTTLs) *UnitService {
	return &UnitService{
		store: store,
		res:   newResource[unit.Unit](deps, "units", "unit", ttl.Units, nil),
	}
}

// List returns every unit the owner holds.
func (s *UnitService) List(ctx context.Context) ([]unit.Unit, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx), s.store.ListUnits)
}

// ListByProperty returns the units of one property.
func (s *UnitService) ListByProperty(ctx context.Context, propertyID string) ([]unit.Unit, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx, "property", propertyID), func(ctx context.Context) ([]unit.Unit, error) {
		return s.store.ListUnitsByProperty(ctx, propertyID)
	})
}

// Get returns a unit by ID.
func (s *UnitService) Get(ctx context.Context, id string) (*unit.Unit, error) {
	return s.res.fetchItem(ctx, id, func(ctx context.Context) (*unit.Unit, error) {
		return s.store.GetUnit(ctx, id)
	})
}

// Create validates and stores a new unit.
func (s *UnitService) Create(ctx context.Context, req unit.CreateRequest) (*unit.Unit, error) {
	if err := unit.ValidateCreate(&req); err != nil {
		return nil, err
	}
	u, err := s.store.CreateUnit(ctx, req)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "", u.PropertyID)
	return u, nil
}

// Update applies a partial update to a unit.
func (s *UnitService) Update(ctx context.Context, id string, req unit.UpdateRequest) (*unit.Unit, error) {
	if err := unit.ValidateUpdate(req); err != nil {
		return nil, err
	}
	u, err := s.store.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Apply(req)
	if err := s.store.UpdateUnit(ctx, u); err != nil {
		return nil, err
	}
	s.changed(ctx, id, u.PropertyID)
	return u, nil
}

// Delete removes a unit together with its leases and maintenance requests.
func (s *UnitService) Delete(ctx context.Context, id string) error {
	u, err := s.store.GetUnit(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteUnit(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, id, u.PropertyID)
	s.res.inv.Invalidate(ctx, "units", unitChildKeys(ctx, id)...)
	return nil
}

func (s *UnitService) changed(ctx context.Context, id, propertyID string) {
	s.res.changed(ctx, id, []string{"property", propertyID})
}
