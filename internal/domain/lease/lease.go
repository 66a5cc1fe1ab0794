// Package lease defines rental agreements between a tenant and a unit.
package lease

import (
	"fmt"
	"time"

	"github.com/Strob0t/PropDesk/internal/domain"
)

// Status is the lifecycle state of a lease.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusActive     Status = "active"
	StatusEnded      Status = "ended"
	StatusTerminated Status = "terminated"
)

// Lease binds a tenant to a unit for a date range. Amounts are in cents.
type Lease struct {
	ID          string    `json:"id"`
	UnitID      string    `json:"unit_id"`
	TenantID    string    `json:"tenant_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MonthlyRent int64     `json:"monthly_rent"`
	Deposit     int64     `json:"deposit"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to draft a lease.
type CreateRequest struct {
	UnitID      string    `json:"unit_id"`
	TenantID    string    `json:"tenant_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MonthlyRent int64     `json:"monthly_rent"`
	Deposit     int64     `json:"deposit"`
	Status      Status    `json:"status"`
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	MonthlyRent *int64     `json:"monthly_rent,omitempty"`
	Deposit     *int64     `json:"deposit,omitempty"`
	Status      *Status    `json:"status,omitempty"`
}

// ValidateCreate checks a CreateRequest. An empty status defaults to draft.
func ValidateCreate(req *CreateRequest) error {
	if req.UnitID == "" {
		return fmt.Errorf("unit_id is required: %w", domain.ErrValidation)
	}
	if req.TenantID == "" {
		return fmt.Errorf("tenant_id is required: %w", domain.ErrValidation)
	}
	if req.Status == "" {
		req.Status = StatusDraft
	}
	if err := validateTerm(req.StartDate, req.EndDate); err != nil {
		return err
	}
	if req.MonthlyRent <= 0 {
		return fmt.Errorf("monthly_rent must be positive: %w", domain.ErrValidation)
	}
	if err := domain.NonNegative("deposit", req.Deposit); err != nil {
		return err
	}
	return validateStatus(req.Status)
}

// ValidateUpdate checks req against the current lease so date changes keep
// the end after the start.
func ValidateUpdate(current Lease, req UpdateRequest) error {
	start, end := current.StartDate, current.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := validateTerm(start, end); err != nil {
			return err
		}
	}
	if req.MonthlyRent != nil && *req.MonthlyRent <= 0 {
		return fmt.Errorf("monthly_rent must be positive: %w", domain.ErrValidation)
	}
	if req.Deposit != nil {
		if err := domain.NonNegative("deposit", *req.Deposit); err != nil {
			return err
		}
	}
	if req.Status != nil {
		return validateStatus(*req.Status)
	}
	return nil
}

// Apply copies the set fields of req onto l.
func (l *Lease) Apply(req UpdateRequest) {
	if req.StartDate != nil {
		l.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		l.EndDate = *req.EndDate
	}
	if req.MonthlyRent != nil {
		l.MonthlyRent = *req.MonthlyRent
	}
	if req.Deposit != nil {
		l.Deposit = *req.Deposit
	}
	if req.Status != nil {
		l.Status = *req.Status
	}
}

// Active reports whether the lease is in force at now. The end date is
// inclusive through the whole day.
func (l Lease) Active(now time.Time) bool {
	if l.Status != StatusActive {
		return false
	}
	return !now.Before(l.StartDate) && now.Before(l.EndDate.AddDate(0, 0, 1))
}

func validateTerm(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("start_date and end_date are required: %w", domain.ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("end_date must be after start_date: %w", domain.ErrValidation)
	}
	return nil
}

func validateStatus(s Status) error {
	return domain.OneOf("status", s, StatusDraft, StatusActive, StatusEnded, StatusTerminated)
}
