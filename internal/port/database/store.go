// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/Strob0t/PropDesk/internal/domain/lease"
	"github.com/Strob0t/PropDesk/internal/domain/maintenance"
	"github.com/Strob0t/PropDesk/internal/domain/payment"
	"github.com/Strob0t/PropDesk/internal/domain/property"
	"github.com/Strob0t/PropDesk/internal/domain/tenant"
	"github.com/Strob0t/PropDesk/internal/domain/unit"
	"github.com/Strob0t/PropDesk/internal/domain/vendor"
)

// Store is the port interface for database operations. Every method is
// scoped to the owner carried in ctx.
type Store interface {
	// Properties
	ListProperties(ctx context.Context) ([]property.Property, error)
	GetProperty(ctx context.Context, id string) (*property.Property, error)
	CreateProperty(ctx context.Context, req property.CreateRequest) (*property.Property, error)
	UpdateProperty(ctx context.Context, p *property.Property) error
	DeleteProperty(ctx context.Context, id string) error

	// Units
	ListUnits(ctx context.Context) ([]unit.Unit, error)
	ListUnitsByProperty(ctx context.Context, propertyID string) ([]unit.Unit, error)
	GetUnit(ctx context.Context, id string) (*unit.Unit, error)
	CreateUnit(ctx context.Context, req unit.CreateRequest) (*unit.Unit, error)
	UpdateUnit(ctx context.Context, u *unit.Unit) error
	DeleteUnit(ctx context.Context, id string) error

	// Tenants
	ListTenants(ctx context.Context) ([]tenant.Tenant, error)
	GetTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	CreateTenant(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error)
	UpdateTenant(ctx context.Context, t *tenant.Tenant) error
	DeleteTenant(ctx context.Context, id string) error

	// Leases
	ListLeases(ctx context.Context) ([]lease.Lease, error)
	ListLeasesByUnit(ctx context.Context, unitID string) ([]lease.Lease, error)
	GetLease(ctx context.Context, id string) (*lease.Lease, error)
	CreateLease(ctx context.Context, req lease.CreateRequest) (*lease.Lease, error)
	UpdateLease(ctx context.Context, l *lease.Lease) error
	DeleteLease(ctx context.Context, id string) error

	// Payments
	ListPayments(ctx context.Context) ([]payment.Payment, error)
	ListPaymentsByLease(ctx context.Context, leaseID string) ([]payment.Payment, error)
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	CreatePayment(ctx context.Context, req payment.CreateRequest) (*payment.Payment, error)
	UpdatePayment(ctx context.Context, p *payment.Payment) error
	DeletePayment(ctx context.Context, id string) error

	// Maintenance
	ListMaintenance(ctx context.Context) ([]maintenance.Request, error)
	ListMaintenanceByUnit(ctx context.Context, unitID string) ([]maintenance.Request, error)
	GetMaintenance(ctx context.Context, id string) (*maintenance.Request, error)
	CreateMaintenance(ctx context.Context, req maintenance.CreateRequest) (*maintenance.Request, error)
	UpdateMaintenance(ctx context.Context, r *maintenance.Request) error
	DeleteMaintenance(ctx context.Context, id string) error

	// Vendors
	ListVendors(ctx context.Context) ([]vendor.Vendor, error)
	GetVendor(ctx context.Context, id string) (*vendor.Vendor, error)
	CreateVendor(ctx context.Context, req vendor.CreateRequest) (*vendor.Vendor, error)
	UpdateVendor(ctx context.Context, v *vendor.Vendor) error
	DeleteVendor(ctx context.Context, id string) error

	// Ping reports whether the database is reachable.
	Ping(ctx context.Context) error
}
