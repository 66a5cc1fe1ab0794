// Package rent estimates a market rent for a unit from its size and features.
package rent

import (
	"fmt"
	"math"
	"slices"

	"github.com/Strob0t/PropDesk/internal/domain"
)

// Condition describes the state of the unit.
type Condition string

const (
	ConditionPoor      Condition = "poor"
	ConditionFair      Condition = "fair"
	ConditionGood      Condition = "good"
	ConditionExcellent Condition = "excellent"
)

var conditionMultiplier = map[Condition]float64{
	ConditionPoor:      0.85,
	ConditionFair:      0.95,
	ConditionGood:      1.0,
	ConditionExcellent: 1.10,
}

// Monthly add-ons per amenity, in whole currency units.
var amenityAddOn = map[string]float64{
	"parking":   75,
	"laundry":   50,
	"pets":      35,
	"pool":      60,
	"gym":       40,
	"ac":        45,
	"furnished": 150,
}

// band is the half-width of the low/high range around the estimate.
const band = 0.05

// Coefficients are the linear weights of the estimate.
type Coefficients struct {
	BasePerSqft float64
	PerBedroom  float64
	PerBathroom float64
}

// Input describes the unit being priced.
type Input struct {
	SquareFeet int       `json:"square_feet"`
	Bedrooms   int       `json:"bedrooms"`
	Bathrooms  float64   `json:"bathrooms"`
	Condition  Condition `json:"condition,omitempty"`
	Amenities  []string  `json:"amenities,omitempty"`
}

// Estimate is a monthly rent in whole currency units with a +/-5% band.
type Estimate struct {
	Monthly int64 `json:"monthly"`
	Low     int64 `json:"low"`
	High    int64 `json:"high"`
}

// Validate checks the input. An empty condition means good.
func (in Input) Validate() error {
	if in.SquareFeet <= 0 {
		return fmt.Errorf("square_feet must be positive: %w", domain.ErrValidation)
	}
	if err := domain.NonNegative("bedrooms", in.Bedrooms); err != nil {
		return err
	}
	if err := domain.NonNegative("bathrooms", in.Bathrooms); err != nil {
		return err
	}
	if in.Condition != "" {
		if _, ok := conditionMultiplier[in.Condition]; !ok {
			return fmt.Errorf("condition %q is not allowed: %w", in.Condition, domain.ErrValidation)
		}
	}
	for _, a := range in.Amenities {
		if _, ok := amenityAddOn[a]; !ok {
			return fmt.Errorf("amenity %q is not known: %w", a, domain.ErrValidation)
		}
	}
	return nil
}

// Calculate applies the coefficients to in.
func Calculate(c Coefficients, in Input) (Estimate, error) {
	if err := in.Validate(); err != nil {
		return Estimate{}, err
	}
	base := c.BasePerSqft*float64(in.SquareFeet) +
		c.PerBedroom*float64(in.Bedrooms) +
		c.PerBathroom*in.Bathrooms

	mult := 1.0
	if in.Condition != "" {
		mult = conditionMultiplier[in.Condition]
	}
	total := base * mult

	seen := make([]string, 0, len(in.Amenities))
	for _, a := range in.Amenities {
		if slices.Contains(seen, a) {
			continue
		}
		seen = append(seen, a)
		total += amenityAddOn[a]
	}

	return Estimate{
		Monthly: int64(math.Round(total)),
		Low:     int64(math.Round(total * (1 - band))),
		High:    int64(math.Round(total * (1 + band))),
	}, nil
}

// Amenities lists the recognised amenity names in sorted order.
func Amenities() []string {
	names := make([]string, 0, len(amenityAddOn))
	for name := range amenityAddOn {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
