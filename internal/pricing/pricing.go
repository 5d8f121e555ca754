// Package pricing resolves quantity-banded unit prices from pricing tiers.
package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/packprint/sales-agent/internal/model"
)

// ErrNoTier is returned when no tier covers the requested quantity.
var ErrNoTier = errors.New("no pricing tier covers quantity")

// ErrInvalidTiers is returned when a variant's tiers overlap or leave gaps.
// Lookup over broken tiers must fail rather than pick the wrong band.
var ErrInvalidTiers = errors.New("pricing tiers overlap or leave gaps")

// Validate checks that tiers are contiguous and non-overlapping from the
// first bound upward. MaxQuantity 0 marks an open-ended final band.
func Validate(tiers []model.PricingTier) error {
	if len(tiers) == 0 {
		return nil
	}

	sorted := make([]model.PricingTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity < sorted[j].MinQuantity
	})

	for i, tier := range sorted {
		if tier.MinQuantity <= 0 {
			return fmt.Errorf("%w: tier %d has non-positive lower bound", ErrInvalidTiers, tier.ID)
		}
		open := tier.MaxQuantity == 0
		if !open && tier.MaxQuantity < tier.MinQuantity {
			return fmt.Errorf("%w: tier %d has inverted bounds", ErrInvalidTiers, tier.ID)
		}
		if open && i != len(sorted)-1 {
			return fmt.Errorf("%w: open-ended tier %d is not last", ErrInvalidTiers, tier.ID)
		}
		if i > 0 {
			prev := sorted[i-1]
			if tier.MinQuantity != prev.MaxQuantity+1 {
				return fmt.Errorf("%w: tiers %d and %d", ErrInvalidTiers, prev.ID, tier.ID)
			}
		}
	}
	return nil
}

// UnitPriceFor returns the unit price for a quantity. Tiers are validated
// first; a broken tier set fails the lookup entirely.
func UnitPriceFor(tiers []model.PricingTier, quantity int) (float64, error) {
	if err := Validate(tiers); err != nil {
		return 0, err
	}

	for _, tier := range tiers {
		if quantity < tier.MinQuantity {
			continue
		}
		if tier.MaxQuantity == 0 || quantity <= tier.MaxQuantity {
			return tier.UnitPrice, nil
		}
	}
	return 0, fmt.Errorf("%w: quantity %d", ErrNoTier, quantity)
}
