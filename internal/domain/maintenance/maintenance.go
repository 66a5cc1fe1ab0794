// Package maintenance defines repair requests raised against a unit.
package maintenance

import (
	"fmt"
	"time"

	"github.com/Strob0t/PropDesk/internal/domain"
)

// Priority ranks how urgently a request needs attention.
type Priority string

const (
	PriorityLow       Priority = "low"
	PriorityMedium    Priority = "medium"
	PriorityHigh      Priority = "high"
	PriorityEmergency Priority = "emergency"
)

// Status is the workflow state of a request.
type Status string

const (
	StatusOpen       Status = "open"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusOpen:       {StatusAssigned, StatusInProgress, StatusCancelled},
	StatusAssigned:   {StatusOpen, StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusAssigned, StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {StatusOpen},
}

// CanTransition reports whether a request may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Open reports whether the request still needs work.
func (s Status) Open() bool {
	return s == StatusOpen || s == StatusAssigned || s == StatusInProgress
}

// Request is a maintenance ticket. TenantID and VendorID are optional.
type Request struct {
	ID          string     `json:"id"`
	UnitID      string     `json:"unit_id"`
	TenantID    string     `json:"tenant_id,omitempty"`
	VendorID    string     `json:"vendor_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateRequest holds the fields needed to open a maintenance request.
type CreateRequest struct {
	UnitID      string   `json:"unit_id"`
	TenantID    string   `json:"tenant_id,omitempty"`
	VendorID    string   `json:"vendor_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	VendorID    *string   `json:"vendor_id,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Status      *Status   `json:"status,omitempty"`
}

const (
	maxTitle       = 200
	maxDescription = 10000
)

// ValidateCreate checks a CreateRequest. An empty priority defaults to medium.
func ValidateCreate(req *CreateRequest) error {
	if req.UnitID == "" {
		return fmt.Errorf("unit_id is required: %w", domain.ErrValidation)
	}
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}
	if err := domain.RequireText("title", req.Title, maxTitle); err != nil {
		return err
	}
	if err := domain.OptionalText("description", req.Description, maxDescription); err != nil {
		return err
	}
	return validatePriority(req.Priority)
}

// ValidateUpdate checks req against the current request, including the
// status transition.
func ValidateUpdate(current Request, req UpdateRequest) error {
	if req.Title != nil {
		if err := domain.RequireText("title", *req.Title, maxTitle); err != nil {
			return err
		}
	}
	if req.Description != nil {
		if err := domain.OptionalText("description", *req.Description, maxDescription); err != nil {
			return err
		}
	}
	if req.Priority != nil {
		if err := validatePriority(*req.Priority); err != nil {
			return err
		}
	}
	if req.Status == nil {
		return nil
	}
	to := *req.Status
	if err := domain.OneOf("status", to, StatusOpen, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled); err != nil {
		return err
	}
	if !CanTransition(current.Status, to) {
		return fmt.Errorf("cannot move request from %s to %s: %w", current.Status, to, domain.ErrValidation)
	}
	vendor := current.VendorID
	if req.VendorID != nil {
		vendor = *req.VendorID
	}
	if to == StatusAssigned && vendor == "" {
		return fmt.Errorf("vendor_id is required to assign a request: %w", domain.ErrValidation)
	}
	return nil
}

// Apply copies the set fields of req onto r, stamping CompletedAt when the
// request moves to completed.
func (r *Request) Apply(req UpdateRequest, now time.Time) {
	if req.VendorID != nil {
		r.VendorID = *req.VendorID
	}
	if req.Title != nil {
		r.Title = *req.Title
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.Priority != nil {
		r.Priority = *req.Priority
	}
	if req.Status != nil {
		if *req.Status == StatusCompleted && r.Status != StatusCompleted {
			t := now
			r.CompletedAt = &t
		}
		r.Status = *req.Status
	}
}

func validatePriority(p Priority) error {
	return domain.OneOf("priority", p, PriorityLow, PriorityMedium, PriorityHigh, PriorityEmergency)
}
