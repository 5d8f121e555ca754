package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/packprint/sales-agent/internal/model"
)

func tiers() []model.PricingTier {
	return []model.PricingTier{
		{VariantID: 2, MinQuantity: 1, MaxQuantity: 999, UnitPrice: 0.045},
		{VariantID: 2, MinQuantity: 1000, MaxQuantity: 4999, UnitPrice: 0.038},
		{VariantID: 2, MinQuantity: 5000, MaxQuantity: 0, UnitPrice: 0.031},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(tiers()))
	require.NoError(t, Validate(nil))
}

func TestValidateRejectsGap(t *testing.T) {
	t.Parallel()

	bad := tiers()
	bad[1].MinQuantity = 1500 // leaves 1000..1499 uncovered
	require.ErrorIs(t, Validate(bad), ErrInvalidTiers)
}

func TestValidateRejectsOverlap(t *testing.T) {
	t.Parallel()

	bad := tiers()
	bad[1].MinQuantity = 900
	require.ErrorIs(t, Validate(bad), ErrInvalidTiers)
}

func TestValidateRejectsOpenTierInMiddle(t *testing.T) {
	t.Parallel()

	bad := tiers()
	bad[1].MaxQuantity = 0
	require.ErrorIs(t, Validate(bad), ErrInvalidTiers)
}

func TestUnitPriceFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		quantity int
		want     float64
	}{
		{"first band", 500, 0.045},
		{"band lower edge", 1000, 0.038},
		{"band upper edge", 4999, 0.038},
		{"open-ended band", 50000, 0.031},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := UnitPriceFor(tiers(), tc.quantity)
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestUnitPriceForNoTier(t *testing.T) {
	t.Parallel()

	_, err := UnitPriceFor(nil, 1000)
	require.ErrorIs(t, err, ErrNoTier)

	_, err = UnitPriceFor(tiers(), 0)
	require.ErrorIs(t, err, ErrNoTier)
}
