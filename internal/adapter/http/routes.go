package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router. Nested
// collections (/properties/{id}/units, /units/{id}/leases, ...) take the parent
// ID from the path and override any parent ID in the body.
func MountRoutes(r chi.Router, h *Handlers) {
	limit := h.bodyLimit()

	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Properties
		r.Get("/properties", handleList(h.Properties.List))
		r.Post("/properties", handleCreate(limit, h.Properties.Create, "property not found"))
		r.Get("/properties/{id}", handleGet(h.Properties.Get, "property not found"))
		r.Put("/properties/{id}", handleUpdate(limit, h.Properties.Update, "property not found"))
		r.Delete("/properties/{id}", handleDelete(h.Properties.Delete, "property not found"))

		// Units (nested under properties)
		r.Get("/properties/{id}/units", handleListByParam("id", h.Units.ListByProperty, "property not found"))
		r.Post("/properties/{id}/units", handleCreateUnder(limit, "id", setUnitProperty, h.Units.Create, "property not found"))

		// Units (direct access)
		r.Get("/units", handleList(h.Units.List))
		r.Post("/units", handleCreate(limit, h.Units.Create, "property not found"))
		r.Get("/units/{id}", handleGet(h.Units.Get, "unit not found"))
		r.Put("/units/{id}", handleUpdate(limit, h.Units.Update, "unit not found"))
		r.Delete("/units/{id}", handleDelete(h.Units.Delete, "unit not found"))
		r.Get("/units/{id}/estimate", h.EstimateUnitRent)

		// Leases and maintenance (nested under units)
		r.Get("/units/{id}/leases", handleListByParam("id", h.Leases.ListByUnit, "unit not found"))
		r.Post("/units/{id}/leases", handleCreateUnder(limit, "id", setLeaseUnit, h.Leases.Create, "unit or tenant not found"))
		r.Get("/units/{id}/maintenance", handleListByParam("id", h.Maintenance.ListByUnit, "unit not found"))
		r.Post("/units/{id}/maintenance", handleCreateUnder(limit, "id", setMaintenanceUnit, h.Maintenance.Create, "unit, tenant or vendor not found"))

		// Tenants
		r.Get("/tenants", handleList(h.Tenants.List))
		r.Post("/tenants", handleCreate(limit, h.Tenants.Create, "tenant not found"))
		r.Get("/tenants/{id}", handleGet(h.Tenants.Get, "tenant not found"))
		r.Put("/tenants/{id}", handleUpdate(limit, h.Tenants.Update, "tenant not found"))
		r.Delete("/tenants/{id}", handleDelete(h.Tenants.Delete, "tenant not found"))

		// Leases (direct access)
		r.Get("/leases", handleList(h.Leases.List))
		r.Post("/leases", handleCreate(limit, h.Leases.Create, "unit or tenant not found"))
		r.Get("/leases/{id}", handleGet(h.Leases.Get, "lease not found"))
		r.Put("/leases/{id}", handleUpdate(limit, h.Leases.Update, "lease not found"))
		r.Delete("/leases/{id}", handleDelete(h.Leases.Delete, "lease not found"))

		// Payments (nested under leases)
		r.Get("/leases/{id}/payments", handleListByParam("id", h.Payments.ListByLease, "lease not found"))
		r.Post("/leases/{id}/payments", handleCreateUnder(limit, "id", setPaymentLease, h.Payments.Create, "lease not found"))

		// Payments (direct access)
		r.Get("/payments", handleList(h.Payments.List))
		r.Post("/payments", handleCreate(limit, h.Payments.Create, "lease not found"))
		r.Get("/payments/{id}", handleGet(h.Payments.Get, "payment not found"))
		r.Put("/payments/{id}", handleUpdate(limit, h.Payments.Update, "payment not found"))
		r.Delete("/payments/{id}", handleDelete(h.Payments.Delete, "payment not found"))

		// Maintenance requests (direct access)
		r.Get("/maintenance", handleList(h.Maintenance.List))
		r.Post("/maintenance", handleCreate(limit, h.Maintenance.Create, "unit, tenant or vendor not found"))
		r.Get("/maintenance/{id}", handleGet(h.Maintenance.Get, "maintenance request not found"))
		r.Put("/maintenance/{id}", handleUpdate(limit, h.Maintenance.Update, "maintenance request not found"))
		r.Delete("/maintenance/{id}", handleDelete(h.Maintenance.Delete, "maintenance request not found"))

		// Vendors
		r.Get("/vendors", handleList(h.Vendors.List))
		r.Post("/vendors", handleCreate(limit, h.Vendors.Create, "vendor not found"))
		r.Get("/vendors/{id}", handleGet(h.Vendors.Get, "vendor not found"))
		r.Put("/vendors/{id}", handleUpdate(limit, h.Vendors.Update, "vendor not found"))
		r.Delete("/vendors/{id}", handleDelete(h.Vendors.Delete, "vendor not found"))

		// Dashboard
		r.Get("/dashboard", h.GetDashboard)
		r.Post("/dashboard/refresh", h.RefreshDashboard)

		// Rent estimation
		r.Post("/rent/estimate", h.EstimateRent)
		r.Get("/rent/amenities", h.ListAmenities)
	})
}
