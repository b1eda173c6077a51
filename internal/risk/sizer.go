package risk

import (
	"math"

	"swingplanner/internal/domain"
)

// SizePosition converts an account risk budget and an entry/stop pair into a
// share count. It never fails: entry <= 0, stop <= 0, entry == stop or a
// non-finite entry or stop yield a zeroed result with IsValid false. A
// non-finite account size or risk percentage counts as 0.
//
// Shares are always floored so the position never exceeds the risk budget.
// A zero or negative budget sizes to 0 shares.
func SizePosition(in domain.PositionSizeInputs) domain.PositionSizeResult {
	if !isPositiveFinite(in.EntryPrice) || !isPositiveFinite(in.StopLossPrice) || in.EntryPrice == in.StopLossPrice {
		return domain.PositionSizeResult{}
	}

	riskAmount := finiteOrZero(in.AccountSize) * (finiteOrZero(in.RiskPercentage) / 100)
	riskPerShare := math.Abs(in.EntryPrice - in.StopLossPrice)
	shares := floorShares(riskAmount / riskPerShare)

	return domain.PositionSizeResult{
		Shares:        shares,
		PositionValue: float64(shares) * in.EntryPrice,
		RiskAmount:    riskAmount,
		RiskPerShare:  riskPerShare,
		IsValid:       true,
	}
}

// floorShares truncates a fractional share count towards zero shares,
// clamping negative and non-finite values to 0.
func floorShares(x float64) int64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
		return 0
	}
	return int64(math.Floor(x))
}

func isPositiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
