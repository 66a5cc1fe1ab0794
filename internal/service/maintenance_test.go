package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Strob0t/PropDesk/internal/domain"
	"github.com/Strob0t/PropDesk/internal/domain/maintenance"
	"github.com/Strob0t/PropDesk/internal/domain/vendor"
)

func newMaintenanceHarness(t *testing.T) (*harness, *MaintenanceService) {
	t.Helper()
	h := newHarness(t)
	h.store.vendors = []vendor.Vendor{{ID: "v1", OwnerID: ownerA, Name: "Pipes Inc", Trade: vendor.TradePlumbing}}
	svc := NewMaintenanceService(h.store, h.deps, h.ttl)
	svc.now = func() time.Time { return leaseNow }
	return h, svc
}

func TestMaintenanceService_CreateChecksRefs(t *testing.T) {
	tests := []struct {
		name    string
		req     maintenance.CreateRequest
		wantErr error
	}{
		{"no refs", maintenance.CreateRequest{UnitID: "u1", Title: "Leak"}, nil},
		{"known vendor", maintenance.CreateRequest{UnitID: "u1", Title: "Leak", VendorID: "v1"}, nil},
		{"unknown vendor", maintenance.CreateRequest{UnitID: "u1", Title: "Leak", VendorID: "v9"}, domain.ErrNotFound},
		{"unknown tenant", maintenance.CreateRequest{UnitID: "u1", Title: "Leak", TenantID: "t9"}, domain.ErrNotFound},
		{"missing title", maintenance.CreateRequest{UnitID: "u1"}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc := newMaintenanceHarness(t)
			r, err := svc.Create(ownerCtx(ownerA), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if r.Status != maintenance.StatusOpen || r.Priority != maintenance.PriorityMedium {
				t.Errorf("defaults not applied: %+v", r)
			}
		})
	}
}

func TestMaintenanceService_Transitions(t *testing.T) {
	h, svc := newMaintenanceHarness(t)
	ctx := ownerCtx(ownerA)
	r, err := svc.Create(ctx, maintenance.CreateRequest{UnitID: "u1", Title: "Leak"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := func(s maintenance.Status) *maintenance.Status { return &s }
	vendorID := "v1"

	if _, err := svc.Update(ctx, r.ID, maintenance.UpdateRequest{Status: status(maintenance.StatusAssigned)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("assign without vendor: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Update(ctx, r.ID, maintenance.UpdateRequest{Status: status(maintenance.StatusCompleted)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("open -> completed: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Update(ctx, r.ID, maintenance.UpdateRequest{Status: status(maintenance.StatusAssigned), VendorID: &vendorID}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := svc.Update(ctx, r.ID, maintenance.UpdateRequest{Status: status(maintenance.StatusInProgress)}); err != nil {
		t.Fatalf("start: %v", err)
	}
	done, err := svc.Update(ctx, r.ID, maintenance.UpdateRequest{Status: status(maintenance.StatusCompleted)})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(leaseNow) {
		t.Fatalf("CompletedAt = %v, want %v", done.CompletedAt, leaseNow)
	}
	if _, err := svc.Update(ctx, r.ID, maintenance.UpdateRequest{Status: status(maintenance.StatusOpen)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("completed is terminal, got %v", err)
	}

	assertKeys(t, h.hub.invalidatedKeys(),
		"maintenance_request:"+ownerA+":"+r.ID,
		"maintenance:"+ownerA,
		"maintenance:"+ownerA+":unit:u1",
	)
}

func TestMaintenanceService_ListByUnitCached(t *testing.T) {
	h, svc := newMaintenanceHarness(t)
	ctx := ownerCtx(ownerA)
	h.store.maintenance = []maintenance.Request{
		{ID: "m1", UnitID: "u1", Title: "Leak", Priority: maintenance.PriorityLow, Status: maintenance.StatusOpen},
		{ID: "m2", UnitID: "u2", Title: "Door", Priority: maintenance.PriorityLow, Status: maintenance.StatusOpen},
	}
	for range 2 {
		got, err := svc.ListByUnit(ctx, "u1")
		if err != nil {
			t.Fatalf("ListByUnit: %v", err)
		}
		if len(got) != 1 || got[0].ID != "m1" {
			t.Fatalf("got %+v", got)
		}
	}
	if n := h.store.called("ListMaintenanceByUnit"); n != 1 {
		t.Fatalf("expected one load, got %d", n)
	}
}
