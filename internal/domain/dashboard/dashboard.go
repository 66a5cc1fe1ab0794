// Package dashboard aggregates an owner's portfolio into a single summary.
package dashboard

import (
	"math"
	"time"

	"github.com/Strob0t/PropDesk/internal/domain/lease"
	"github.com/Strob0t/PropDesk/internal/domain/maintenance"
	"github.com/Strob0t/PropDesk/internal/domain/payment"
	"github.com/Strob0t/PropDesk/internal/domain/property"
	"github.com/Strob0t/PropDesk/internal/domain/unit"
)

// Summary is the owner overview. Money values are in cents.
type Summary struct {
	Properties      int       `json:"properties"`
	Units           int       `json:"units"`
	OccupiedUnits   int       `json:"occupied_units"`
	OccupancyRate   float64   `json:"occupancy_rate"`
	ActiveLeases    int       `json:"active_leases"`
	OpenMaintenance int       `json:"open_maintenance"`
	PendingPayments int       `json:"pending_payments"`
	LatePayments    int       `json:"late_payments"`
	MonthlyRentRoll int64     `json:"monthly_rent_roll"`
	OutstandingRent int64     `json:"outstanding_rent"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Inputs are the lists a summary is computed from.
type Inputs struct {
	Properties  []property.Property
	Units       []unit.Unit
	Leases      []lease.Lease
	Payments    []payment.Payment
	Maintenance []maintenance.Request
}

// Summarize computes a Summary as of now.
func Summarize(in Inputs, now time.Time) Summary {
	s := Summary{
		Properties:  len(in.Properties),
		Units:       len(in.Units),
		GeneratedAt: now,
	}
	for _, u := range in.Units {
		if u.Occupied() {
			s.OccupiedUnits++
		}
	}
	if s.Units > 0 {
		s.OccupancyRate = math.Round(float64(s.OccupiedUnits)/float64(s.Units)*1000) / 1000
	}
	for _, l := range in.Leases {
		if l.Active(now) {
			s.ActiveLeases++
			s.MonthlyRentRoll += l.MonthlyRent
		}
	}
	for _, r := range in.Maintenance {
		if r.Status.Open() {
			s.OpenMaintenance++
		}
	}
	for _, p := range in.Payments {
		switch {
		case p.IsLate(now):
			s.LatePayments++
			s.OutstandingRent += p.Amount
		case p.Status == payment.StatusPending:
			s.PendingPayments++
			s.OutstandingRent += p.Amount
		}
	}
	return s
}
