package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"swingplanner/internal/domain"
)

func TestSizePosition(t *testing.T) {
	tests := []struct {
		name string
		in   domain.PositionSizeInputs
		want domain.PositionSizeResult
	}{
		{
			name: "long setup",
			in:   domain.PositionSizeInputs{AccountSize: 10000, RiskPercentage: 1.0, EntryPrice: 150, StopLossPrice: 145},
			want: domain.PositionSizeResult{Shares: 20, PositionValue: 3000, RiskAmount: 100, RiskPerShare: 5, IsValid: true},
		},
		{
			name: "short setup",
			in:   domain.PositionSizeInputs{AccountSize: 10000, RiskPercentage: 1.0, EntryPrice: 50, StopLossPrice: 52},
			want: domain.PositionSizeResult{Shares: 50, PositionValue: 2500, RiskAmount: 100, RiskPerShare: 2, IsValid: true},
		},
		{
			name: "fractional shares are floored",
			in:   domain.PositionSizeInputs{AccountSize: 10000, RiskPercentage: 1.0, EntryPrice: 150, StopLossPrice: 143},
			want: domain.PositionSizeResult{Shares: 14, PositionValue: 2100, RiskAmount: 100, RiskPerShare: 7, IsValid: true},
		},
		{
			name: "budget smaller than one share",
			in:   domain.PositionSizeInputs{AccountSize: 100, RiskPercentage: 1.0, EntryPrice: 150, StopLossPrice: 145},
			want: domain.PositionSizeResult{Shares: 0, PositionValue: 0, RiskAmount: 1, RiskPerShare: 5, IsValid: true},
		},
		{
			name: "zero account",
			in:   domain.PositionSizeInputs{AccountSize: 0, RiskPercentage: 1.0, EntryPrice: 150, StopLossPrice: 145},
			want: domain.PositionSizeResult{Shares: 0, PositionValue: 0, RiskAmount: 0, RiskPerShare: 5, IsValid: true},
		},
		{
			name: "negative account degrades to zero shares",
			in:   domain.PositionSizeInputs{AccountSize: -10000, RiskPercentage: 1.0, EntryPrice: 150, StopLossPrice: 145},
			want: domain.PositionSizeResult{Shares: 0, PositionValue: 0, RiskAmount: -100, RiskPerShare: 5, IsValid: true},
		},
		{
			name: "entry equals stop",
			in:   domain.PositionSizeInputs{AccountSize: 10000, RiskPercentage: 1.0, EntryPrice: 150, StopLossPrice: 150},
			want: domain.PositionSizeResult{},
		},
		{
			name: "zero entry",
			in:   domain.PositionSizeInputs{AccountSize: 10000, RiskPercentage: 1.0, EntryPrice: 0, StopLossPrice: 145},
			want: domain.PositionSizeResult{},
		},
		{
			name: "negative stop",
			in:   domain.PositionSizeInputs{AccountSize: 10000, RiskPercentage: 1.0, EntryPrice: 150, StopLossPrice: -1},
			want: domain.PositionSizeResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SizePosition(tt.in)
			assert.Equal(t, tt.want.IsValid, got.IsValid)
			assert.Equal(t, tt.want.Shares, got.Shares)
			assert.InDelta(t, tt.want.PositionValue, got.PositionValue, 1e-9)
			assert.InDelta(t, tt.want.RiskAmount, got.RiskAmount, 1e-9)
			assert.InDelta(t, tt.want.RiskPerShare, got.RiskPerShare, 1e-9)
		})
	}
}

func TestSizePosition_NonFiniteInputs(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	invalid := []domain.PositionSizeInputs{
		{AccountSize: 10000, RiskPercentage: 1, EntryPrice: nan, StopLossPrice: 145},
		{AccountSize: 10000, RiskPercentage: 1, EntryPrice: 150, StopLossPrice: nan},
		{AccountSize: 10000, RiskPercentage: 1, EntryPrice: inf, StopLossPrice: 145},
		{AccountSize: 10000, RiskPercentage: 1, EntryPrice: 150, StopLossPrice: inf},
		{AccountSize: 10000, RiskPercentage: 1, EntryPrice: -inf, StopLossPrice: 145},
	}
	for _, in := range invalid {
		assert.Equal(t, domain.PositionSizeResult{}, SizePosition(in), "%+v", in)
	}

	// A non-finite budget counts as 0: valid, but nothing to buy.
	for _, in := range []domain.PositionSizeInputs{
		{AccountSize: nan, RiskPercentage: 1, EntryPrice: 150, StopLossPrice: 145},
		{AccountSize: 10000, RiskPercentage: inf, EntryPrice: 150, StopLossPrice: 145},
	} {
		got := SizePosition(in)
		assert.True(t, got.IsValid)
		assert.Equal(t, domain.PositionSizeResult{RiskPerShare: 5, IsValid: true}, got)
	}
}

func TestPositionSizeInputs_SetStoresNonFiniteAsZero(t *testing.T) {
	in, ok := longSetup.Set(domain.FieldEntryPrice, math.NaN())
	assert.True(t, ok)
	assert.Zero(t, in.EntryPrice)

	in, _ = longSetup.Set(domain.FieldRiskPercentage, math.Inf(-1))
	assert.Zero(t, in.RiskPercentage)

	in = domain.PositionSizeInputs{AccountSize: math.Inf(1), RiskPercentage: 1, EntryPrice: math.NaN(), StopLossPrice: 145}.Sanitized()
	assert.Equal(t, domain.PositionSizeInputs{RiskPercentage: 1, StopLossPrice: 145}, in)
}

func TestSizePosition_EqualPricesAlwaysInvalid(t *testing.T) {
	for _, price := range []float64{0.01, 1, 150, 99999.99} {
		for _, account := range []float64{0, 10000, 1e9} {
			got := SizePosition(domain.PositionSizeInputs{AccountSize: account, RiskPercentage: 2, EntryPrice: price, StopLossPrice: price})
			assert.Equal(t, domain.PositionSizeResult{}, got, "price=%v account=%v", price, account)
		}
	}
}

func TestSizePosition_MatchesFloorFormula(t *testing.T) {
	accounts := []float64{0, 1, 2500, 10000, 123456.78}
	risks := []float64{0, 0.25, 0.5, 1, 2.5, 100}
	prices := [][2]float64{{150, 145}, {10, 10.37}, {3.21, 2.99}, {1000, 999.99}}

	for _, a := range accounts {
		for _, r := range risks {
			for _, p := range prices {
				in := domain.PositionSizeInputs{AccountSize: a, RiskPercentage: r, EntryPrice: p[0], StopLossPrice: p[1]}
				got := SizePosition(in)
				want := int64(math.Floor(a * (r / 100) / math.Abs(p[0]-p[1])))
				assert.True(t, got.IsValid)
				assert.Equal(t, want, got.Shares, "inputs=%+v", in)
				assert.GreaterOrEqual(t, got.Shares, int64(0))
				assert.LessOrEqual(t, float64(got.Shares)*got.RiskPerShare, got.RiskAmount+1e-9)
			}
		}
	}
}
