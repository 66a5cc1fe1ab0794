package http

import (
	"net/http"
	"strings"

	"github.com/Strob0t/PropDesk/internal/domain/lease"
	"github.com/Strob0t/PropDesk/internal/domain/maintenance"
	"github.com/Strob0t/PropDesk/internal/domain/payment"
	"github.com/Strob0t/PropDesk/internal/domain/rent"
	"github.com/Strob0t/PropDesk/internal/domain/unit"
	"github.com/Strob0t/PropDesk/internal/service"
)

const defaultBodyLimit = 1 << 20 // 1 MB

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Properties  *service.PropertyService
	Units       *service.UnitService
	Tenants     *service.TenantService
	Leases      *service.LeaseService
	Payments    *service.PaymentService
	Maintenance *service.MaintenanceService
	Vendors     *service.VendorService
	Dashboard   *service.DashboardService
	Rent        *service.RentService

	// BodyLimit caps JSON request bodies; zero means 1 MB.
	BodyLimit int64
}

func (h *Handlers) bodyLimit() int64 {
	if h.BodyLimit > 0 {
		return h.BodyLimit
	}
	return defaultBodyLimit
}

// --- Nested creates ---

func setUnitProperty(req *unit.CreateRequest, id string) { req.PropertyID = id }
func setLeaseUnit(req *lease.CreateRequest, id string) { req.UnitID = id }
func setMaintenanceUnit(req *maintenance.CreateRequest, id string) { req.UnitID = id }
func setPaymentLease(req *payment.CreateRequest, id string) { req.LeaseID = id }

// --- Dashboard ---

// GetDashboard handles GET /api/v1/dashboard
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	s, err := h.Dashboard.Summary(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// RefreshDashboard handles POST /api/v1/dashboard/refresh
func (h *Handlers) RefreshDashboard(w http.ResponseWriter, r *http.Request) {
	s, err := h.Dashboard.Refresh(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// --- Rent estimation ---

// EstimateRent handles POST /api/v1/rent/estimate
func (h *Handlers) EstimateRent(w http.ResponseWriter, r *http.Request) {
	in, ok := readJSON[rent.Input](w, r, h.bodyLimit())
	if !ok {
		return
	}
	est, err := h.Rent.Estimate(r.Context(), in)
	if err != nil {
		writeDomainError(w, err, "estimate failed")
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// ListAmenities handles GET /api/v1/rent/amenities
func (h *Handlers) ListAmenities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rent.Amenities())
}

// EstimateUnitRent handles GET /api/v1/units/{id}/estimate?condition=good&amenities=parking,pool
func (h *Handlers) EstimateUnitRent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var amenities []string
	if raw := q.Get("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				amenities = append(amenities, a)
			}
		}
	}
	est, err := h.Rent.EstimateUnit(r.Context(), urlParam(r, "id"), rent.Condition(q.Get("condition")), amenities)
	if err != nil {
		writeDomainError(w, err, "unit not found")
		return
	}
	writeJSON(w, http.StatusOK, est)
}
