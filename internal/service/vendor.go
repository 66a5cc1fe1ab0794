package service

import (
	"context"

	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/domain/vendor"
	"github.com/Strob0t/PropDesk/internal/port/database"
)

// VendorService handles vendor business logic.
type VendorService struct {
	store database.Store
	res   *resource[vendor.Vendor]
}

// NewVendorService creates a new VendorService.
func NewVendorService(store database.Store, deps CacheDeps, ttl config.ResourceTTLs) *VendorService {
	return &VendorService{
		store: store,
		res:   newResource[vendor.Vendor](deps, "vendors", "vendor", ttl.Vendors, nil),
	}
}

// List returns the owner's vendors.
func (s *VendorService) List(ctx context.Context) ([]vendor.Vendor, error) {
	return s.res.fetchList(ctx, s.res.listKey(ctx), s.store.ListVendors)
}

// Get returns a vendor by ID.
func (s *VendorService) Get(ctx context.Context, id string) (*vendor.Vendor, error) {
	return s.res.fetchItem(ctx, id, func(ctx context.Context) (*vendor.Vendor, error) {
		return s.store.GetVendor(ctx, id)
	})
}

// Create validates and stores a new vendor.
func (s *VendorService) Create(ctx context.Context, req vendor.CreateRequest) (*vendor.Vendor, error) {
	if err := vendor.ValidateCreate(&req); err != nil {
		return nil, err
	}
	v, err := s.store.CreateVendor(ctx, req)
	if err != nil {
		return nil, err
	}
	s.res.changed(ctx, "")
	return v, nil
}

// Update applies a partial update to a vendor.
func (s *VendorService) Update(ctx context.Context, id string, req vendor.UpdateRequest) (*vendor.Vendor, error) {
	if err := vendor.ValidateUpdate(req); err != nil {
		return nil, err
	}
	v, err := s.store.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Apply(req)
	if err := s.store.UpdateVendor(ctx, v); err != nil {
		return nil, err
	}
	s.res.changed(ctx, id)
	return v, nil
}

// Delete removes a vendor. Maintenance requests assigned to it lose the
// reference, so the owner's maintenance list is invalidated as well; single
// requests and unit-scoped lists expire with their TTL.
func (s *VendorService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteVendor(ctx, id); err != nil {
		return err
	}
	s.res.changed(ctx, id)
	s.res.inv.Invalidate(ctx, "maintenance", ownerKey(ctx, "maintenance"))
	return nil
}
