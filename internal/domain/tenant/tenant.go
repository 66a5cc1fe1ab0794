// Package tenant defines the people who rent units.
package tenant

import (
	"time"

	"github.com/Strob0t/PropDesk/internal/domain"
)

// Tenant is a renter known to an owner.
type Tenant struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to register a tenant.
type CreateRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

const (
	maxName  = 255
	maxPhone = 40
)

// ValidateCreate checks a CreateRequest.
func ValidateCreate(req CreateRequest) error {
	if err := domain.RequireText("full_name", req.FullName, maxName); err != nil {
		return err
	}
	if err := domain.OptionalEmail("email", req.Email); err != nil {
		return err
	}
	return domain.OptionalText("phone", req.Phone, maxPhone)
}

// ValidateUpdate checks the fields present in an UpdateRequest.
func ValidateUpdate(req UpdateRequest) error {
	if req.FullName != nil {
		if err := domain.RequireText("full_name", *req.FullName, maxName); err != nil {
			return err
		}
	}
	if req.Email != nil {
		if err := domain.OptionalEmail("email", *req.Email); err != nil {
			return err
		}
	}
	if req.Phone != nil {
		return domain.OptionalText("phone", *req.Phone, maxPhone)
	}
	return nil
}

// Apply copies the set fields of req onto t.
func (t *Tenant) Apply(req UpdateRequest) {
	if req.FullName != nil {
		t.FullName = *req.FullName
	}
	if req.Email != nil {
		t.Email = *req.Email
	}
	if req.Phone != nil {
		t.Phone = *req.Phone
	}
}
