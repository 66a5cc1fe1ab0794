// Package unit defines rentable units within a property.
package unit

import (
	"fmt"
	"time"

	"github.com/Strob0t/PropDesk/internal/domain"
)

// Status is the occupancy state of a unit.
type Status string

const (
	StatusVacant      Status = "vacant"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

// Unit is a rentable space. MarketRent is in cents.
type Unit struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Label      string    `json:"label"`
	Bedrooms   int       `json:"bedrooms"`
	Bathrooms  float64   `json:"bathrooms"`
	SquareFeet int       `json:"square_feet"`
	MarketRent int64     `json:"market_rent"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a unit.
type CreateRequest struct {
	PropertyID string  `json:"property_id"`
	Label      string  `json:"label"`
	Bedrooms   int     `json:"bedrooms"`
	Bathrooms  float64 `json:"bathrooms"`
	SquareFeet int     `json:"square_feet"`
	MarketRent int64   `json:"market_rent"`
	Status     Status  `json:"status"`
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	Label      *string  `json:"label,omitempty"`
	Bedrooms   *int     `json:"bedrooms,omitempty"`
	Bathrooms  *float64 `json:"bathrooms,omitempty"`
	SquareFeet *int     `json:"square_feet,omitempty"`
	MarketRent *int64   `json:"market_rent,omitempty"`
	Status     *Status  `json:"status,omitempty"`
}

const maxLabel = 100

// ValidateCreate checks a CreateRequest. An empty status defaults to vacant.
func ValidateCreate(req *CreateRequest) error {
	if req.PropertyID == "" {
		return fmt.Errorf("property_id is required: %w", domain.ErrValidation)
	}
	if req.Status == "" {
		req.Status = StatusVacant
	}
	if err := domain.RequireText("label", req.Label, maxLabel); err != nil {
		return err
	}
	if err := validateSizes(req.Bedrooms, req.Bathrooms, req.SquareFeet, req.MarketRent); err != nil {
		return err
	}
	return validateStatus(req.Status)
}

// ValidateUpdate checks the fields present in an UpdateRequest.
func ValidateUpdate(req UpdateRequest) error {
	if req.Label != nil {
		if err := domain.RequireText("label", *req.Label, maxLabel); err != nil {
			return err
		}
	}
	if req.Bedrooms != nil {
		if err := domain.NonNegative("bedrooms", *req.Bedrooms); err != nil {
			return err
		}
	}
	if req.Bathrooms != nil {
		if err := domain.NonNegative("bathrooms", *req.Bathrooms); err != nil {
			return err
		}
	}
	if req.SquareFeet != nil {
		if err := domain.NonNegative("square_feet", *req.SquareFeet); err != nil {
			return err
		}
	}
	if req.MarketRent != nil {
		if err := domain.NonNegative("market_rent", *req.MarketRent); err != nil {
			return err
		}
	}
	if req.Status != nil {
		return validateStatus(*req.Status)
	}
	return nil
}

// Apply copies the set fields of req onto u.
func (u *Unit) Apply(req UpdateRequest) {
	if req.Label != nil {
		u.Label = *req.Label
	}
	if req.Bedrooms != nil {
		u.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		u.Bathrooms = *req.Bathrooms
	}
	if req.SquareFeet != nil {
		u.SquareFeet = *req.SquareFeet
	}
	if req.MarketRent != nil {
		u.MarketRent = *req.MarketRent
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
}

// Occupied reports whether the unit currently has a tenant.
func (u Unit) Occupied() bool { return u.Status == StatusOccupied }

func validateSizes(beds int, baths float64, sqft int, rent int64) error {
	if err := domain.NonNegative("bedrooms", beds); err != nil {
		return err
	}
	if err := domain.NonNegative("bathrooms", baths); err != nil {
		return err
	}
	if err := domain.NonNegative("square_feet", sqft); err != nil {
		return err
	}
	return domain.NonNegative("market_rent", rent)
}

func validateStatus(s Status) error {
	return domain.OneOf("status", s, StatusVacant, StatusOccupied, StatusMaintenance)
}
