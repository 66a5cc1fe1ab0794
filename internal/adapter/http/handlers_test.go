package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "github.com/Strob0t/PropDesk/internal/adapter/http"
	"github.com/Strob0t/PropDesk/internal/adapter/memory"
	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/domain"
	"github.com/Strob0t/PropDesk/internal/domain/lease"
	"github.com/Strob0t/PropDesk/internal/domain/maintenance"
	"github.com/Strob0t/PropDesk/internal/domain/payment"
	"github.com/Strob0t/PropDesk/internal/domain/property"
	"github.com/Strob0t/PropDesk/internal/domain/rent"
	"github.com/Strob0t/PropDesk/internal/domain/tenant"
	"github.com/Strob0t/PropDesk/internal/domain/unit"
	"github.com/Strob0t/PropDesk/internal/middleware"
	"github.com/Strob0t/PropDesk/internal/port/database"
	"github.com/Strob0t/PropDesk/internal/service"
)

const (
	ownerA = "6f1c1d7e-8a2b-4c3d-9e4f-5a6b7c8d9e0f"
	ownerB = "0b9e8d7c-6a5f-4e3d-2c1b-0a9f8e7d6c5b"
)

// fakeStore keeps properties, units and tenants in memory. Methods the
// handlers under test never reach are left to the embedded nil interface.
type fakeStore struct {
	database.Store

	mu         sync.Mutex
	seq        int
	properties []property.Property
	units      []unit.Unit
	tenants    []tenant.Tenant
	leasedBy   map[string]bool // tenant IDs with a lease
}

func (s *fakeStore) id(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *fakeStore) ListProperties(ctx context.Context) ([]property.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner := middleware.OwnerIDFromContext(ctx)
	var out []property.Property
	for _, p := range s.properties {
		if p.OwnerID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner := middleware.OwnerIDFromContext(ctx)
	for _, p := range s.properties {
		if p.ID == id && p.OwnerID == owner {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("get property %s: %w", id, domain.ErrNotFound)
}

func (s *fakeStore) CreateProperty(ctx context.Context, req property.CreateRequest) (*property.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := property.Property{
		ID: s.id("prop"), OwnerID: middleware.OwnerIDFromContext(ctx),
		Name: req.Name, Address: req.Address, City: req.City, Kind: req.Kind,
	}
	s.properties = append(s.properties, p)
	return &p, nil
}

func (s *fakeStore) DeleteProperty(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner := middleware.OwnerIDFromContext(ctx)
	for i, p := range s.properties {
		if p.ID == id && p.OwnerID == owner {
			s.properties = append(s.properties[:i], s.properties[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete property %s: %w", id, domain.ErrNotFound)
}

func (s *fakeStore) ListUnits(context.Context) ([]unit.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]unit.Unit(nil), s.units...), nil
}

func (s *fakeStore) ListUnitsByProperty(_ context.Context, propertyID string) ([]unit.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []unit.Unit
	for _, u := range s.units {
		if u.PropertyID == propertyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeStore) GetUnit(_ context.Context, id string) (*unit.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.units {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get unit %s: %w", id, domain.ErrNotFound)
}

func (s *fakeStore) CreateUnit(ctx context.Context, req unit.CreateRequest) (*unit.Unit, error) {
	if _, err := s.GetProperty(ctx, req.PropertyID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := unit.Unit{
		ID: s.id("unit"), PropertyID: req.PropertyID, Label: req.Label,
		Bedrooms: req.Bedrooms, Bathrooms: req.Bathrooms, SquareFeet: req.SquareFeet,
		MarketRent: req.MarketRent, Status: req.Status,
	}
	s.units = append(s.units, u)
	return &u, nil
}

func (s *fakeStore) CreateTenant(ctx context.Context, req tenant.CreateRequest) (*tenant.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := tenant.Tenant{ID: s.id("tenant"), OwnerID: middleware.OwnerIDFromContext(ctx), FullName: req.FullName, Email: req.Email}
	s.tenants = append(s.tenants, t)
	return &t, nil
}

func (s *fakeStore) DeleteTenant(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.leasedBy[id] {
		return fmt.Errorf("delete tenant %s: %w", id, domain.ErrConflict)
	}
	for i, t := range s.tenants {
		if t.ID == id {
			s.tenants = append(s.tenants[:i], s.tenants[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete tenant %s: %w", id, domain.ErrNotFound)
}

func (s *fakeStore) ListLeases(context.Context) ([]lease.Lease, error) { return nil, nil }
func (s *fakeStore) ListPayments(context.Context) ([]payment.Payment, error) { return nil, nil }
func (s *fakeStore) ListMaintenance(context.Context) ([]maintenance.Request, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, store *fakeStore) chi.Router {
	t.Helper()
	backend := memory.New()
	t.Cleanup(backend.Close)
	deps := service.CacheDeps{
		Backend:     backend,
		Invalidator: service.NewInvalidator(backend, nil, nil, nil),
	}
	cfg := config.Defaults()
	ttl := cfg.Cache.TTL

	props := service.NewPropertyService(store, deps, ttl)
	units := service.NewUnitService(store, deps, ttl)
	leases := service.NewLeaseService(store, deps, ttl)
	payments := service.NewPaymentService(store, deps, ttl)
	maint := service.NewMaintenanceService(store, deps, ttl)

	handlers := &phttp.Handlers{
		Properties:  props,
		Units:       units,
		Tenants:     service.NewTenantService(store, deps, ttl),
		Leases:      leases,
		Payments:    payments,
		Maintenance: maint,
		Vendors:     service.NewVendorService(store, deps, ttl),
		Dashboard:   service.NewDashboardService(deps, ttl.Dashboard, props, units, leases, payments, maint),
		Rent:        service.NewRentService(cfg.Rent, units),
		BodyLimit:   1024,
	}

	r := chi.NewRouter()
	r.Use(middleware.Owner)
	phttp.MountRoutes(r, handlers)
	return r
}

func do(t *testing.T, r http.Handler, method, path, owner string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set("X-Owner-ID", owner)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestVersionEndpoint(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})
	w := do(t, r, "GET", "/api/v1/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decode[map[string]string](t, w); got["version"] != "0.1.0" {
		t.Fatalf("expected version 0.1.0, got %q", got["version"])
	}
}

func TestListPropertiesEmpty(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})
	w := do(t, r, "GET", "/api/v1/properties", ownerA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", w.Body.String())
	}
}

func TestCreateGetAndListProperty(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})

	// Warm the list cache so the create must invalidate it.
	do(t, r, "GET", "/api/v1/properties", ownerA, nil)

	w := do(t, r, "POST", "/api/v1/properties", ownerA, property.CreateRequest{
		Name: "Maple Court", Address: "1 Main St", City: "Springfield",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	p := decode[property.Property](t, w)
	if p.OwnerID != ownerA || p.Kind != property.KindSingleFamily {
		t.Fatalf("unexpected property: %+v", p)
	}

	w = do(t, r, "GET", "/api/v1/properties/"+p.ID, ownerA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = do(t, r, "GET", "/api/v1/properties", ownerA, nil)
	if got := decode[[]property.Property](t, w); len(got) != 1 {
		t.Fatalf("expected 1 property after create, got %d", len(got))
	}

	w = do(t, r, "GET", "/api/v1/properties/"+p.ID, ownerB, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("another owner: expected 404, got %d", w.Code)
	}
}

func TestCreatePropertyErrors(t *testing.T) {
	tests := []struct {
		name     string
		owner    string
		body     any
		wantCode int
		wantMsg  string
	}{
		{"missing name", ownerA, property.CreateRequest{Address: "1 Main", City: "X"}, http.StatusBadRequest, "name is required"},
		{"bad kind", ownerA, property.CreateRequest{Name: "A", Address: "1 Main", City: "X", Kind: "castle"}, http.StatusBadRequest, ""},
		{"malformed json", ownerA, `{"name":`, http.StatusBadRequest, "invalid request body"},
		{"unknown field", ownerA, `{"name":"A","floors":3}`, http.StatusBadRequest, "invalid request body"},
		{"too large", ownerA, `{"name":"` + strings.Repeat("a", 2048) + `"}`, http.StatusRequestEntityTooLarge, "request body too large"},
		{"bad owner header", "not-a-uuid", property.CreateRequest{Name: "A", Address: "1 Main", City: "X"}, http.StatusBadRequest, "invalid X-Owner-ID header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, &fakeStore{})
			w := do(t, r, "POST", "/api/v1/properties", tt.owner, tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantMsg != "" {
				if got := decode[map[string]string](t, w)["error"]; got != tt.wantMsg {
					t.Fatalf("error = %q, want %q", got, tt.wantMsg)
				}
			}
		})
	}
}

func TestGetPropertyNotFound(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})
	w := do(t, r, "GET", "/api/v1/properties/nonexistent", ownerA, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if got := decode[map[string]string](t, w)["error"]; got != "property not found" {
		t.Fatalf("error = %q", got)
	}
}

func TestDeleteProperty(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(t, store)
	p := decode[property.Property](t, do(t, r, "POST", "/api/v1/properties", ownerA,
		property.CreateRequest{Name: "To Delete", Address: "1 Main", City: "X"}))

	// Cache the item before deleting it.
	do(t, r, "GET", "/api/v1/properties/"+p.ID, ownerA, nil)

	if w := do(t, r, "DELETE", "/api/v1/properties/"+p.ID, ownerA, nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w := do(t, r, "GET", "/api/v1/properties/"+p.ID, ownerA, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if w := do(t, r, "DELETE", "/api/v1/properties/"+p.ID, ownerA, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestNestedUnitRoutes(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})
	p := decode[property.Property](t, do(t, r, "POST", "/api/v1/properties", ownerA,
		property.CreateRequest{Name: "Maple", Address: "1 Main", City: "X"}))

	w := do(t, r, "POST", "/api/v1/properties/"+p.ID+"/units", ownerA, map[string]any{
		"label": "1A", "bedrooms": 2, "bathrooms": 1, "square_feet": 1000, "market_rent": 182500,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	u := decode[unit.Unit](t, w)
	if u.PropertyID != p.ID || u.Status != unit.StatusVacant {
		t.Fatalf("unexpected unit: %+v", u)
	}

	w = do(t, r, "GET", "/api/v1/properties/"+p.ID+"/units", ownerA, nil)
	if got := decode[[]unit.Unit](t, w); len(got) != 1 || got[0].ID != u.ID {
		t.Fatalf("unexpected units: %+v", got)
	}

	w = do(t, r, "POST", "/api/v1/properties/missing/units", ownerA, map[string]any{"label": "1B", "square_feet": 500})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown property: expected 404, got %d", w.Code)
	}
}

func TestDeleteLeasedTenantConflict(t *testing.T) {
	store := &fakeStore{leasedBy: map[string]bool{}}
	r := newTestRouter(t, store)
	tn := decode[tenant.Tenant](t, do(t, r, "POST", "/api/v1/tenants", ownerA,
		tenant.CreateRequest{FullName: "Ada Lovelace", Email: "ada@example.com"}))
	store.leasedBy[tn.ID] = true

	if w := do(t, r, "DELETE", "/api/v1/tenants/"+tn.ID, ownerA, nil); w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestEstimateRent(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})

	w := do(t, r, "POST", "/api/v1/rent/estimate", ownerA, rent.Input{SquareFeet: 1000, Bedrooms: 2, Bathrooms: 1})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[rent.Estimate](t, w); got != (rent.Estimate{Monthly: 1825, Low: 1734, High: 1916}) {
		t.Fatalf("unexpected estimate: %+v", got)
	}

	w = do(t, r, "POST", "/api/v1/rent/estimate", ownerA, rent.Input{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid input: expected 400, got %d", w.Code)
	}

	w = do(t, r, "GET", "/api/v1/rent/amenities", ownerA, nil)
	if got := decode[[]string](t, w); len(got) != len(rent.Amenities()) {
		t.Fatalf("unexpected amenities: %v", got)
	}
}

func TestEstimateUnitRent(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})
	p := decode[property.Property](t, do(t, r, "POST", "/api/v1/properties", ownerA,
		property.CreateRequest{Name: "Maple", Address: "1 Main", City: "X"}))
	u := decode[unit.Unit](t, do(t, r, "POST", "/api/v1/properties/"+p.ID+"/units", ownerA, map[string]any{
		"label": "1A", "bedrooms": 0, "bathrooms": 1, "square_feet": 500, "market_rent": 90000,
	}))

	w := do(t, r, "GET", "/api/v1/units/"+u.ID+"/estimate?amenities=parking,+laundry", ownerA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode[service.UnitEstimate](t, w)
	if got.Estimate != (rent.Estimate{Monthly: 925, Low: 879, High: 971}) || got.Position != "within" {
		t.Fatalf("unexpected estimate: %+v", got)
	}

	if w := do(t, r, "GET", "/api/v1/units/missing/estimate", ownerA, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown unit: expected 404, got %d", w.Code)
	}
}

func TestDashboard(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})
	do(t, r, "POST", "/api/v1/properties", ownerA, property.CreateRequest{Name: "Maple", Address: "1 Main", City: "X"})

	w := do(t, r, "GET", "/api/v1/dashboard", ownerA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[map[string]any](t, w); got["properties"] != float64(1) {
		t.Fatalf("unexpected summary: %v", got)
	}

	if w := do(t, r, "POST", "/api/v1/dashboard/refresh", ownerA, nil); w.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d", w.Code)
	}
}
