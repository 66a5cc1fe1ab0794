// Package property defines the Property entity owned by a landlord.
package property

import (
	"fmt"
	"time"

	"github.com/Strob0t/PropDesk/internal/domain"
)

// Kind classifies a property.
type Kind string

const (
	KindSingleFamily Kind = "single_family"
	KindMultiFamily  Kind = "multi_family"
	KindCondo        Kind = "condo"
	KindCommercial   Kind = "commercial"
)

// Property is a building or lot managed by an owner.
type Property struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Kind       Kind      `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a new property.
type CreateRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Kind       Kind   `json:"kind"`
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	Name       *string `json:"name,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Kind       *Kind   `json:"kind,omitempty"`
}

const (
	maxName    = 255
	maxAddress = 500
	maxShort   = 100
	maxPostal  = 20
)

// ValidateCreate checks a CreateRequest, defaulting an empty kind to single_family.
func ValidateCreate(req *CreateRequest) error {
	if req.Kind == "" {
		req.Kind = KindSingleFamily
	}
	if err := domain.RequireText("name", req.Name, maxName); err != nil {
		return err
	}
	if err := domain.RequireText("address", req.Address, maxAddress); err != nil {
		return err
	}
	if err := domain.RequireText("city", req.City, maxShort); err != nil {
		return err
	}
	if err := domain.OptionalText("state", req.State, maxShort); err != nil {
		return err
	}
	if err := domain.OptionalText("postal_code", req.PostalCode, maxPostal); err != nil {
		return err
	}
	return validateKind(req.Kind)
}

// ValidateUpdate checks the fields present in an UpdateRequest.
func ValidateUpdate(req UpdateRequest) error {
	if req.Name != nil {
		if err := domain.RequireText("name", *req.Name, maxName); err != nil {
			return err
		}
	}
	if req.Address != nil {
		if err := domain.RequireText("address", *req.Address, maxAddress); err != nil {
			return err
		}
	}
	if req.City != nil {
		if err := domain.RequireText("city", *req.City, maxShort); err != nil {
			return err
		}
	}
	if req.State != nil {
		if err := domain.OptionalText("state", *req.State, maxShort); err != nil {
			return err
		}
	}
	if req.PostalCode != nil {
		if err := domain.OptionalText("postal_code", *req.PostalCode, maxPostal); err != nil {
			return err
		}
	}
	if req.Kind != nil {
		return validateKind(*req.Kind)
	}
	return nil
}

// Apply copies the set fields of req onto p.
func (p *Property) Apply(req UpdateRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.State != nil {
		p.State = *req.State
	}
	if req.PostalCode != nil {
		p.PostalCode = *req.PostalCode
	}
	if req.Kind != nil {
		p.Kind = *req.Kind
	}
}

// Validate checks a property read back from a cache or store.
func (p Property) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("property id is empty: %w", domain.ErrValidation)
	}
	return validateKind(p.Kind)
}

func validateKind(k Kind) error {
	return domain.OneOf("kind", k, KindSingleFamily, KindMultiFamily, KindCondo, KindCommercial)
}
