package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestDeriveEfficiency_Distance(t *testing.T) {
	tests := []struct {
		name     string
		baseline *float64
		prior    *FuelFill
		cur      FuelFill
		expected *float64
	}{
		{
			name:     "prior fuel event with reading",
			prior:    &FuelFill{Quantity: 12, Distance: fptr(10000)},
			cur:      FuelFill{Quantity: 10, Distance: fptr(10250)},
			expected: fptr(25.00),
		},
		{
			name:     "no prior event falls back to baseline",
			baseline: fptr(10000),
			cur:      FuelFill{Quantity: 15, Distance: fptr(10300)},
			expected: fptr(20.00),
		},
		{
			name:     "no prior event and no baseline uses raw reading",
			cur:      FuelFill{Quantity: 10, Distance: fptr(150)},
			expected: fptr(15.00),
		},
		{
			name:     "prior without reading falls back to baseline",
			baseline: fptr(100),
			prior:    &FuelFill{Quantity: 8},
			cur:      FuelFill{Quantity: 10, Distance: fptr(300)},
			expected: fptr(20.00),
		},
		{
			name:     "lower reading than prior leaves metric unset",
			prior:    &FuelFill{Quantity: 12, Distance: fptr(10300)},
			cur:      FuelFill{Quantity: 10, Distance: fptr(10250)},
			expected: nil,
		},
		{
			name:     "equal reading leaves metric unset",
			prior:    &FuelFill{Quantity: 12, Distance: fptr(10250)},
			cur:      FuelFill{Quantity: 10, Distance: fptr(10250)},
			expected: nil,
		},
		{
			name:     "missing reading leaves metric unset",
			prior:    &FuelFill{Quantity: 12, Distance: fptr(10000)},
			cur:      FuelFill{Quantity: 10},
			expected: nil,
		},
		{
			name:     "zero quantity leaves metric unset",
			prior:    &FuelFill{Quantity: 12, Distance: fptr(10000)},
			cur:      FuelFill{Quantity: 0, Distance: fptr(10250)},
			expected: nil,
		},
		{
			name:     "result rounded to two decimals",
			prior:    &FuelFill{Quantity: 10, Distance: fptr(0)},
			cur:      FuelFill{Quantity: 3, Distance: fptr(100)},
			expected: fptr(33.33),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveEfficiency(UnitDistance, tt.baseline, tt.prior, tt.cur)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-9)
		})
	}
}

func TestDeriveEfficiency_Hours(t *testing.T) {
	tests := []struct {
		name     string
		baseline *float64
		prior    *FuelFill
		cur      FuelFill
		expected *float64
	}{
		{
			name:     "prior fuel event with hour reading",
			prior:    &FuelFill{Quantity: 20, Hours: fptr(200)},
			cur:      FuelFill{Quantity: 30, Hours: fptr(210)},
			expected: fptr(3.00),
		},
		{
			name:     "first fill-up cannot yield a rate",
			cur:      FuelFill{Quantity: 30, Hours: fptr(210)},
			expected: nil,
		},
		{
			name:     "baseline is ignored for hour vehicles",
			baseline: fptr(100),
			cur:      FuelFill{Quantity: 30, Hours: fptr(210)},
			expected: nil,
		},
		{
			name:     "prior without hour reading yields nothing",
			prior:    &FuelFill{Quantity: 20},
			cur:      FuelFill{Quantity: 30, Hours: fptr(210)},
			expected: nil,
		},
		{
			name:     "hour meter went backwards leaves metric unset",
			prior:    &FuelFill{Quantity: 20, Hours: fptr(220)},
			cur:      FuelFill{Quantity: 30, Hours: fptr(210)},
			expected: nil,
		},
		{
			name:     "result rounded to two decimals",
			prior:    &FuelFill{Quantity: 20, Hours: fptr(0)},
			cur:      FuelFill{Quantity: 10, Hours: fptr(3)},
			expected: fptr(3.33),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveEfficiency(UnitHours, tt.baseline, tt.prior, tt.cur)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-9)
		})
	}
}

func TestTotalCost(t *testing.T) {
	assert.InDelta(t, 52.50, TotalCost(15, 3.5), 1e-9)
	assert.InDelta(t, 48.44, TotalCost(14.5, 3.341), 1e-9)
}

func TestTrackingUnitLabels(t *testing.T) {
	assert.Equal(t, "miles", UnitDistance.Label())
	assert.Equal(t, "hours", UnitHours.Label())
	assert.Equal(t, "MPG", UnitDistance.EfficiencyLabel())
	assert.Equal(t, "GPH", UnitHours.EfficiencyLabel())

	u, err := ParseTrackingUnit("miles")
	require.NoError(t, err)
	assert.Equal(t, UnitDistance, u)

	u, err = ParseTrackingUnit("hours")
	require.NoError(t, err)
	assert.Equal(t, UnitHours, u)

	_, err = ParseTrackingUnit("furlongs")
	assert.Error(t, err)
}
