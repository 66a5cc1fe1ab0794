package service

import (
	"context"

	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/domain/rent"
)

// RentService prices units with the linear rent estimator.
type RentService struct {
	coeffs rent.Coefficients
	units  *UnitService
}

// NewRentService creates a RentService from the configured coefficients.
// units may be nil when only ad-hoc estimates are needed.
func NewRentService(cfg config.Rent, units *UnitService) *RentService {
	return &RentService{
		coeffs: rent.Coefficients{
			BasePerSqft: cfg.BasePerSqft,
			PerBedroom:  cfg.PerBedroom,
			PerBathroom: cfg.PerBathroom,
		},
		units: units,
	}
}

// Estimate prices an arbitrary input.
func (s *RentService) Estimate(_ context.Context, in rent.Input) (rent.Estimate, error) {
	return rent.Calculate(s.coeffs, in)
}

// UnitEstimate compares a unit's market rent with the estimate for its size.
type UnitEstimate struct {
	UnitID     string        `json:"unit_id"`
	MarketRent int64         `json:"market_rent"` // cents
	Estimate   rent.Estimate `json:"estimate"`    // whole currency units
	// Position is "below", "within" or "above" the estimate band.
	Position string `json:"position"`
}

// EstimateUnit prices a stored unit with the given extras.
func (s *RentService) EstimateUnit(ctx context.Context, unitID string, condition rent.Condition, amenities []string) (*UnitEstimate, error) {
	u, err := s.units.Get(ctx, unitID)
	if err != nil {
		return nil, err
	}
	est, err := rent.Calculate(s.coeffs, rent.Input{
		SquareFeet: u.SquareFeet,
		Bedrooms:   u.Bedrooms,
		Bathrooms:  u.Bathrooms,
		Condition:  condition,
		Amenities:  amenities,
	})
	if err != nil {
		return nil, err
	}

	market := u.MarketRent / 100
	pos := "within"
	switch {
	case market < est.Low:
		pos = "below"
	case market > est.High:
		pos = "above"
	}
	return &UnitEstimate{UnitID: u.ID, MarketRent: u.MarketRent, Estimate: est, Position: pos}, nil
}
