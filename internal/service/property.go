// Package service implements business logic on top of ports. Reads go
// through per-resource cached fetchers; writes go to the store and then
// invalidate the affected keys.
package service

import (
	"context"

	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/domain/property"
	"github.com/Strob0t/PropDesk/internal/port/database"
)

// PropertyService handles property business logic.
type PropertyService struct {
	store database.Store
	res   *resource[property.Property]
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(store database.Store, deps CacheDeps, ttl config.ResourceTTLs) *PropertyService {
	return &PropertyService{
		store: store,
		res:   newResource(deps, "properties", "property", ttl.Properties, property.Property.Validate),
	}
}

// List returns the owner's properties.
func (s *PropertyService) List(ctx context.Context) ([]property.Property, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx), s.store.ListProperties)
}

// Get returns a property by ID.
func (s *PropertyService) Get(ctx context.Context, id string) (*property.Property, error) {
	return s.res.fetchItem(ctx, id, func(ctx context.Context) (*property.Property, error) {
		return s.store.GetProperty(ctx, id)
	})
}

// Create validates and stores a new property.
func (s *PropertyService) Create(ctx context.Context, req property.CreateRequest) (*property.Property, error) {
	if err := property.ValidateCreate(&req); err != nil {
		return nil, err
	}
	p, err := s.store.CreateProperty(ctx, req)
	if err != nil {
		return nil, err
	}
	s.res.changed(ctx, "")
	return p, nil
}

// Update applies a partial update to a property.
func (s *PropertyService) Update(ctx context.Context, id string, req property.UpdateRequest) (*property.Property, error) {
	if err := property.ValidateUpdate(req); err != nil {
		return nil, err
	}
	p, err := s.store.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Apply(req)
	if err := s.store.UpdateProperty(ctx, p); err != nil {
		return nil, err
	}
	s.res.changed(ctx, id)
	return p, nil
}

// Delete removes a property. Its units, leases, payments and maintenance
// requests go with it, so their lists are invalidated too. Payment lists
// scoped to a removed lease are left to expire.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	units, err := s.store.ListUnitsByProperty(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProperty(ctx, id); err != nil {
		return err
	}
	s.res.changed(ctx, id)

	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	keys := append(unitChildKeys(ctx, ids...),
		ownerKey(ctx, "units"),
		ownerKey(ctx, "units", "property", id),
	)
	s.res.inv.Invalidate(ctx, "units", keys...)
	return nil
}

// unitChildKeys lists the keys of data removed along with the given units.
func unitChildKeys(ctx context.Context, unitIDs ...string) []string {
	keys := []string{
		ownerKey(ctx, "leases"),
		ownerKey(ctx, "payments"),
		ownerKey(ctx, "maintenance"),
	}
	for _, id := range unitIDs {
		keys = append(keys,
			ownerKey(ctx, "unit", id),
			ownerKey(ctx, "leases", "unit", id),
			ownerKey(ctx, "maintenance", "unit", id),
		)
	}
	return keys
}
