package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Strob0t/PropDesk/internal/domain"
	"github.com/Strob0t/PropDesk/internal/domain/lease"
	"github.com/Strob0t/PropDesk/internal/domain/maintenance"
	"github.com/Strob0t/PropDesk/internal/domain/payment"
	"github.com/Strob0t/PropDesk/internal/domain/property"
	"github.com/Strob0t/PropDesk/internal/domain/tenant"
	"github.com/Strob0t/PropDesk/internal/domain/unit"
	"github.com/Strob0t/PropDesk/internal/domain/vendor"
	"github.com/Strob0t/PropDesk/internal/middleware"
	"github.com/Strob0t/PropDesk/internal/port/database"
)

// Ensure mockStore implements database.Store at compile time.
var _ database.Store = (*mockStore)(nil)

// mockStore is an in-memory database.Store. Rows are not owner-scoped except
// properties, which is enough to check key scoping in the services.
type mockStore struct {
	mu    sync.Mutex
	seq   int
	calls map[string]int

	properties  []property.Property
	units       []unit.Unit
	tenants     []tenant.Tenant
	leases      []lease.Lease
	payments    []payment.Payment
	maintenance []maintenance.Request
	vendors     []vendor.Vendor

	// Error hooks inject failures.
	listPropertiesErr error
	listPaymentsErr   error
	updateUnitErr     error

	// afterListProperties runs once a property list has been read, before
	// it is returned, outside the lock.
	afterListProperties func()
}

func newMockStore() *mockStore {
	return &mockStore{calls: make(map[string]int)}
}

func (m *mockStore) called(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockStore) track(name string) {
	m.calls[name]++
}

func (m *mockStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func findIndex[T any](items []T, match func(T) bool) int {
	for i := range items {
		if match(items[i]) {
			return i
		}
	}
	return -1
}

func (m *mockStore) Ping(context.Context) error { return nil }

// --- Properties ---

func (m *mockStore) ListProperties(ctx context.Context) ([]property.Property, error) {
	out, err := m.listProperties(ctx)
	if m.afterListProperties != nil {
		m.afterListProperties()
	}
	return out, err
}

func (m *mockStore) listProperties(ctx context.Context) ([]property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("ListProperties")
	if m.listPropertiesErr != nil {
		return nil, m.listPropertiesErr
	}
	owner := middleware.OwnerIDFromContext(ctx)
	out := []property.Property{}
	for _, p := range m.properties {
		if p.OwnerID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("GetProperty")
	owner := middleware.OwnerIDFromContext(ctx)
	i := findIndex(m.properties, func(p property.Property) bool { return p.ID == id && p.OwnerID == owner })
	if i < 0 {
		return nil, fmt.Errorf("get property %s: %w", id, domain.ErrNotFound)
	}
	p := m.properties[i]
	return &p, nil
}

func (m *mockStore) CreateProperty(ctx context.Context, req property.CreateRequest) (*property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := property.Property{
		ID: m.nextID("prop"), OwnerID: middleware.OwnerIDFromContext(ctx),
		Name: req.Name, Address: req.Address, City: req.City, Kind: req.Kind,
	}
	m.properties = append(m.properties, p)
	return &p, nil
}

func (m *mockStore) UpdateProperty(_ context.Context, p *property.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.properties, func(x property.Property) bool { return x.ID == p.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.properties[i] = *p
	return nil
}

func (m *mockStore) DeleteProperty(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.properties, func(x property.Property) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.properties = append(m.properties[:i], m.properties[i+1:]...)
	return nil
}

// --- Units ---

func (m *mockStore) ListUnits(context.Context) ([]unit.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("ListUnits")
	return append([]unit.Unit{}, m.units...), nil
}

func (m *mockStore) ListUnitsByProperty(_ context.Context, propertyID string) ([]unit.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("ListUnitsByProperty")
	out := []unit.Unit{}
	for _, u := range m.units {
		if u.PropertyID == propertyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockStore) GetUnit(_ context.Context, id string) (*unit.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("GetUnit")
	i := findIndex(m.units, func(u unit.Unit) bool { return u.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("get unit %s: %w", id, domain.ErrNotFound)
	}
	u := m.units[i]
	return &u, nil
}

func (m *mockStore) CreateUnit(_ context.Context, req unit.CreateRequest) (*unit.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := unit.Unit{
		ID: m.nextID("unit"), PropertyID: req.PropertyID, Label: req.Label,
		Bedrooms: req.Bedrooms, Bathrooms: req.Bathrooms, SquareFeet: req.SquareFeet,
		MarketRent: req.MarketRent, Status: req.Status,
	}
	m.units = append(m.units, u)
	return &u, nil
}

func (m *mockStore) UpdateUnit(_ context.Context, u *unit.Unit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("UpdateUnit")
	if m.updateUnitErr != nil {
		return m.updateUnitErr
	}
	i := findIndex(m.units, func(x unit.Unit) bool { return x.ID == u.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.units[i] = *u
	return nil
}

func (m *mockStore) DeleteUnit(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.units, func(x unit.Unit) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.units = append(m.units[:i], m.units[i+1:]...)
	return nil
}

// --- Tenants ---

func (m *mockStore) ListTenants(context.Context) ([]tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("ListTenants")
	return append([]tenant.Tenant{}, m.tenants...), nil
}

func (m *mockStore) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.tenants, func(t tenant.Tenant) bool { return t.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("get tenant %s: %w", id, domain.ErrNotFound)
	}
	t := m.tenants[i]
	return &t, nil
}

func (m *mockStore) CreateTenant(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := tenant.Tenant{ID: m.nextID("tenant"), OwnerID: middleware.OwnerIDFromContext(ctx), FullName: req.FullName, Email: req.Email, Phone: req.Phone}
	m.tenants = append(m.tenants, t)
	return &t, nil
}

func (m *mockStore) UpdateTenant(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.tenants, func(x tenant.Tenant) bool { return x.ID == t.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.tenants[i] = *t
	return nil
}

func (m *mockStore) DeleteTenant(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if findIndex(m.leases, func(l lease.Lease) bool { return l.TenantID == id }) >= 0 {
		return fmt.Errorf("delete tenant %s: %w", id, domain.ErrConflict)
	}
	i := findIndex(m.tenants, func(x tenant.Tenant) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.tenants = append(m.tenants[:i], m.tenants[i+1:]...)
	return nil
}

// --- Leases ---

func (m *mockStore) ListLeases(context.Context) ([]lease.Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("ListLeases")
	return append([]lease.Lease{}, m.leases...), nil
}

func (m *mockStore) ListLeasesByUnit(_ context.Context, unitID string) ([]lease.Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("ListLeasesByUnit")
	out := []lease.Lease{}
	for _, l := range m.leases {
		if l.UnitID == unitID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockStore) GetLease(_ context.Context, id string) (*lease.Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.leases, func(l lease.Lease) bool { return l.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("get lease %s: %w", id, domain.ErrNotFound)
	}
	l := m.leases[i]
	return &l, nil
}

func (m *mockStore) CreateLease(_ context.Context, req lease.CreateRequest) (*lease.Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if findIndex(m.units, func(u unit.Unit) bool { return u.ID == req.UnitID }) < 0 {
		return nil, fmt.Errorf("create lease: %w", domain.ErrNotFound)
	}
	l := lease.Lease{
		ID: m.nextID("lease"), UnitID: req.UnitID, TenantID: req.TenantID,
		StartDate: req.StartDate, EndDate: req.EndDate, MonthlyRent: req.MonthlyRent,
		Deposit: req.Deposit, Status: req.Status,
	}
	m.leases = append(m.leases, l)
	return &l, nil
}

func (m *mockStore) UpdateLease(_ context.Context, l *lease.Lease) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.leases, func(x lease.Lease) bool { return x.ID == l.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.leases[i] = *l
	return nil
}

func (m *mockStore) DeleteLease(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.leases, func(x lease.Lease) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.leases = append(m.leases[:i], m.leases[i+1:]...)
	m.payments = slices.DeleteFunc(m.payments, func(p payment.Payment) bool { return p.LeaseID == id })
	return nil
}

// --- Payments ---

func (m *mockStore) ListPayments(context.Context) ([]payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("ListPayments")
	if m.listPaymentsErr != nil {
		return nil, m.listPaymentsErr
	}
	return append([]payment.Payment{}, m.payments...), nil
}

func (m *mockStore) ListPaymentsByLease(_ context.Context, leaseID string) ([]payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("ListPaymentsByLease")
	out := []payment.Payment{}
	for _, p := range m.payments {
		if p.LeaseID == leaseID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.payments, func(p payment.Payment) bool { return p.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("get payment %s: %w", id, domain.ErrNotFound)
	}
	p := m.payments[i]
	return &p, nil
}

func (m *mockStore) CreatePayment(_ context.Context, req payment.CreateRequest) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := payment.Payment{
		ID: m.nextID("pay"), LeaseID: req.LeaseID, Amount: req.Amount, DueDate: req.DueDate,
		PaidAt: req.PaidAt, Method: req.Method, Status: req.Status,
	}
	m.payments = append(m.payments, p)
	return &p, nil
}

func (m *mockStore) UpdatePayment(_ context.Context, p *payment.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.payments, func(x payment.Payment) bool { return x.ID == p.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.payments[i] = *p
	return nil
}

func (m *mockStore) DeletePayment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.payments, func(x payment.Payment) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.payments = append(m.payments[:i], m.payments[i+1:]...)
	return nil
}

// --- Maintenance ---

func (m *mockStore) ListMaintenance(context.Context) ([]maintenance.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("ListMaintenance")
	return append([]maintenance.Request{}, m.maintenance...), nil
}

func (m *mockStore) ListMaintenanceByUnit(_ context.Context, unitID string) ([]maintenance.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []maintenance.Request{}
	for _, r := range m.maintenance {
		if r.UnitID == unitID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) GetMaintenance(_ context.Context, id string) (*maintenance.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.maintenance, func(r maintenance.Request) bool { return r.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("get maintenance request %s: %w", id, domain.ErrNotFound)
	}
	r := m.maintenance[i]
	return &r, nil
}

func (m *mockStore) CreateMaintenance(_ context.Context, req maintenance.CreateRequest) (*maintenance.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := maintenance.Request{
		ID: m.nextID("mr"), UnitID: req.UnitID, TenantID: req.TenantID, VendorID: req.VendorID,
		Title: req.Title, Description: req.Description, Priority: req.Priority, Status: maintenance.StatusOpen,
	}
	m.maintenance = append(m.maintenance, r)
	return &r, nil
}

func (m *mockStore) UpdateMaintenance(_ context.Context, r *maintenance.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.maintenance, func(x maintenance.Request) bool { return x.ID == r.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.maintenance[i] = *r
	return nil
}

func (m *mockStore) DeleteMaintenance(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.maintenance, func(x maintenance.Request) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.maintenance = append(m.maintenance[:i], m.maintenance[i+1:]...)
	return nil
}

// --- Vendors ---

func (m *mockStore) ListVendors(context.Context) ([]vendor.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.track("ListVendors")
	return append([]vendor.Vendor{}, m.vendors...), nil
}

func (m *mockStore) GetVendor(_ context.Context, id string) (*vendor.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.vendors, func(v vendor.Vendor) bool { return v.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("get vendor %s: %w", id, domain.ErrNotFound)
	}
	v := m.vendors[i]
	return &v, nil
}

func (m *mockStore) CreateVendor(ctx context.Context, req vendor.CreateRequest) (*vendor.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := vendor.Vendor{ID: m.nextID("vendor"), OwnerID: middleware.OwnerIDFromContext(ctx), Name: req.Name, Trade: req.Trade}
	m.vendors = append(m.vendors, v)
	return &v, nil
}

func (m *mockStore) UpdateVendor(_ context.Context, v *vendor.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.vendors, func(x vendor.Vendor) bool { return x.ID == v.ID })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.vendors[i] = *v
	return nil
}

func (m *mockStore) DeleteVendor(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findIndex(m.vendors, func(x vendor.Vendor) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	m.vendors = append(m.vendors[:i], m.vendors[i+1:]...)
	return nil
}
