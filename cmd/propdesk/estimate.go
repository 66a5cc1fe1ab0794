package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/domain/rent"
)

// runEstimate prices a unit from flags using the configured coefficients.
func runEstimate(args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return estimate(cfg.Rent, args, out)
}

func estimate(coeffs config.Rent, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	fs.SetOutput(out)
	sqft := fs.Int("sqft", 0, "square footage (required)")
	beds := fs.Int("beds", 0, "number of bedrooms")
	baths := fs.Float64("baths", 1, "number of bathrooms")
	condition := fs.String("condition", string(rent.ConditionGood), "poor, fair, good or excellent")
	amenities := fs.String("amenities", "", "comma-separated amenities, e.g. parking,laundry")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := rent.Input{
		SquareFeet: *sqft,
		Bedrooms:   *beds,
		Bathrooms:  *baths,
		Condition:  rent.Condition(*condition),
		Amenities:  splitList(*amenities),
	}
	est, err := rent.Calculate(rent.Coefficients{
		BasePerSqft: coeffs.BasePerSqft,
		PerBedroom:  coeffs.PerBedroom,
		PerBathroom: coeffs.PerBathroom,
	}, in)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MONTHLY\tLOW\tHIGH")
	_, _ = fmt.Fprintf(w, "%d\t%d\t%d\n", est.Monthly, est.Low, est.High)
	return w.Flush()
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
