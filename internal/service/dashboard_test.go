package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Strob0t/PropDesk/internal/domain/lease"
	"github.com/Strob0t/PropDesk/internal/domain/payment"
	"github.com/Strob0t/PropDesk/internal/domain/property"
	"github.com/Strob0t/PropDesk/internal/domain/unit"
)

type dashboardHarness struct {
	*harness
	payments *PaymentService
	svc      *DashboardService
}

func newDashboardHarness(t *testing.T) *dashboardHarness {
	t.Helper()
	h := newHarness(t)
	h.store.properties = []property.Property{{ID: "p1", OwnerID: ownerA, Name: "Maple", Kind: property.KindCondo}}
	h.store.units = []unit.Unit{
		{ID: "u1", PropertyID: "p1", Label: "1A", Status: unit.StatusOccupied},
		{ID: "u2", PropertyID: "p1", Label: "1B", Status: unit.StatusVacant},
	}
	h.store.leases = []lease.Lease{{
		ID: "l1", UnitID: "u1", TenantID: "t1",
		StartDate:   leaseNow.AddDate(0, -2, 0),
		EndDate:     leaseNow.AddDate(0, 10, 0),
		MonthlyRent: 120000,
		Status:      lease.StatusActive,
	}}

	leases := NewLeaseService(h.store, h.deps, h.ttl)
	payments := NewPaymentService(h.store, h.deps, h.ttl)
	svc := NewDashboardService(h.deps, h.ttl.Dashboard,
		NewPropertyService(h.store, h.deps, h.ttl),
		NewUnitService(h.store, h.deps, h.ttl),
		leases,
		payments,
		NewMaintenanceService(h.store, h.deps, h.ttl),
	)
	svc.now = func() time.Time { return leaseNow }
	return &dashboardHarness{harness: h, payments: payments, svc: svc}
}

func TestDashboardService_SummaryCached(t *testing.T) {
	h := newDashboardHarness(t)
	ctx := ownerCtx(ownerA)

	first, err := h.svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if first.Properties != 1 || first.Units != 2 || first.OccupiedUnits != 1 {
		t.Fatalf("unexpected counts: %+v", first)
	}
	if first.OccupancyRate != 0.5 || first.ActiveLeases != 1 || first.MonthlyRentRoll != 120000 {
		t.Fatalf("unexpected rent figures: %+v", first)
	}

	if _, err := h.svc.Summary(ctx); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if n := h.store.called("ListUnits"); n != 1 {
		t.Fatalf("second summary should be served from cache, unit loads = %d", n)
	}
}

func TestDashboardService_PaymentWriteReloadsOnlyPayments(t *testing.T) {
	h := newDashboardHarness(t)
	ctx := ownerCtx(ownerA)
	if _, err := h.svc.Summary(ctx); err != nil {
		t.Fatalf("Summary: %v", err)
	}

	_, err := h.payments.Create(ctx, payment.CreateRequest{
		LeaseID: "l1", Amount: 120000, DueDate: leaseNow.AddDate(0, 0, 5),
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	got, err := h.svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got.PendingPayments != 1 || got.OutstandingRent != 120000 {
		t.Fatalf("new payment missing from summary: %+v", got)
	}
	if n := h.store.called("ListPayments"); n != 2 {
		t.Errorf("payments loads = %d, want 2", n)
	}
	if n := h.store.called("ListUnits"); n != 1 {
		t.Errorf("units loads = %d, want 1", n)
	}
}

func TestDashboardService_ErrorNotCached(t *testing.T) {
	h := newDashboardHarness(t)
	ctx := ownerCtx(ownerA)
	boom := errors.New("db down")
	h.store.listPaymentsErr = boom

	if _, err := h.svc.Summary(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected list error, got %v", err)
	}
	h.store.listPaymentsErr = nil
	got, err := h.svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary after recovery: %v", err)
	}
	if got.Units != 2 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestDashboardService_Refresh(t *testing.T) {
	h := newDashboardHarness(t)
	ctx := ownerCtx(ownerA)
	if _, err := h.svc.Summary(ctx); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if _, err := h.svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	// The lists themselves are still cached; only the summary is rebuilt.
	if n := h.store.called("ListUnits"); n != 1 {
		t.Fatalf("units loads = %d, want 1", n)
	}
}
