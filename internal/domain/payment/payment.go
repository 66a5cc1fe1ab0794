// Package payment defines rent payments recorded against a lease.
package payment

import (
	"fmt"
	"time"

	"github.com/Strob0t/PropDesk/internal/domain"
)

// Status is the settlement state of a payment.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusLate    Status = "late"
	StatusFailed  Status = "failed"
)

// Method is how the tenant paid.
type Method string

const (
	MethodACH   Method = "ach"
	MethodCard  Method = "card"
	MethodCheck Method = "check"
	MethodCash  Method = "cash"
	MethodOther Method = "other"
)

// Payment is a single rent charge and its settlement. Amount is in cents.
type Payment struct {
	ID        string     `json:"id"`
	LeaseID   string     `json:"lease_id"`
	Amount    int64      `json:"amount"`
	DueDate   time.Time  `json:"due_date"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	Method    Method     `json:"method,omitempty"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateRequest holds the fields needed to record a payment.
type CreateRequest struct {
	LeaseID string     `json:"lease_id"`
	Amount  int64      `json:"amount"`
	DueDate time.Time  `json:"due_date"`
	PaidAt  *time.Time `json:"paid_at,omitempty"`
	Method  Method     `json:"method,omitempty"`
	Status  Status     `json:"status"`
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	Amount *int64     `json:"amount,omitempty"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
	Method *Method    `json:"method,omitempty"`
	Status *Status    `json:"status,omitempty"`
}

// ValidateCreate checks a CreateRequest. The status defaults to paid when
// paid_at is set and pending otherwise.
func ValidateCreate(req *CreateRequest) error {
	if req.LeaseID == "" {
		return fmt.Errorf("lease_id is required: %w", domain.ErrValidation)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", domain.ErrValidation)
	}
	if req.DueDate.IsZero() {
		return fmt.Errorf("due_date is required: %w", domain.ErrValidation)
	}
	if req.Status == "" {
		req.Status = StatusPending
		if req.PaidAt != nil {
			req.Status = StatusPaid
		}
	}
	if req.Method != "" {
		if err := validateMethod(req.Method); err != nil {
			return err
		}
	}
	if err := validateStatus(req.Status); err != nil {
		return err
	}
	if req.Status == StatusPaid && req.PaidAt == nil {
		return fmt.Errorf("paid_at is required for a paid payment: %w", domain.ErrValidation)
	}
	return nil
}

// ValidateUpdate checks the fields present in an UpdateRequest.
func ValidateUpdate(req UpdateRequest) error {
	if req.Amount != nil && *req.Amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", domain.ErrValidation)
	}
	if req.Method != nil {
		if err := validateMethod(*req.Method); err != nil {
			return err
		}
	}
	if req.Status != nil {
		return validateStatus(*req.Status)
	}
	return nil
}

// Apply copies the set fields of req onto p.
func (p *Payment) Apply(req UpdateRequest) {
	if req.Amount != nil {
		p.Amount = *req.Amount
	}
	if req.PaidAt != nil {
		t := *req.PaidAt
		p.PaidAt = &t
	}
	if req.Method != nil {
		p.Method = *req.Method
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
}

// IsLate reports whether the payment is unsettled after the end of its due day.
func (p Payment) IsLate(now time.Time) bool {
	switch p.Status {
	case StatusPaid:
		return false
	case StatusLate:
		return true
	}
	return p.PaidAt == nil && !now.Before(p.DueDate.AddDate(0, 0, 1))
}

func validateMethod(m Method) error {
	return domain.OneOf("method", m, MethodACH, MethodCard, MethodCheck, MethodCash, MethodOther)
}

func validateStatus(s Status) error {
	return domain.OneOf("status", s, StatusPending, StatusPaid, StatusLate, StatusFailed)
}
