package service

import (
	"context"

	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/domain/tenant"
	"github.com/Strob0t/PropDesk/internal/port/database"
)

// TenantService handles tenant business logic.
type TenantService struct {
	store database.Store
	res   *resource[tenant.Tenant]
}

// NewTenantService creates a new TenantService.
func NewTenantService(store database.Store, deps CacheDeps, ttl config.ResourceTTLs) *TenantService {
	return &TenantService{
		store: store,
		res:   newResource[tenant.Tenant](deps, "tenants", "tenant", ttl.Tenants, nil),
	}
}

// List returns the owner's tenants.
func (s *TenantService) List(ctx context.Context) ([]tenant.Tenant, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx), s.store.ListTenants)
}

// Get returns a tenant by ID.
func (s *TenantService) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	return s.res.fetchItem(ctx, id, func(ctx context.Context) (*tenant.Tenant, error) {
		return s.store.GetTenant(ctx, id)
	})
}

// Create validates and stores a new tenant.
func (s *TenantService) Create(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	if err := tenant.ValidateCreate(req); err != nil {
		return nil, err
	}
	t, err := s.store.CreateTenant(ctx, req)
	if err != nil {
		return nil, err
	}
	s.res.changed(ctx, "")
	return t, nil
}

// Update applies a partial update to a tenant.
func (s *TenantService) Update(ctx context.Context, id string, req tenant.UpdateRequest) (*tenant.Tenant, error) {
	if err := tenant.ValidateUpdate(req); err != nil {
		return nil, err
	}
	t, err := s.store.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Apply(req)
	if err := s.store.UpdateTenant(ctx, t); err != nil {
		return nil, err
	}
	s.res.changed(ctx, id)
	return t, nil
}

// Delete removes a tenant. It fails with domain.ErrConflict while a lease
// still references the tenant.
func (s *TenantService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTenant(ctx, id); err != nil {
		return err
	}
	s.res.changed(ctx, id)
	return nil
}
