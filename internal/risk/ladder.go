package risk

import (
	"math"

	"swingplanner/internal/domain"
)

// Fractions of the full risk distance at which the early and mid tranches exit.
const (
	earlyStopFraction = 1.0 / 3.0
	midStopFraction   = 2.0 / 3.0
)

// PlanStopLadder splits a sized position into three stop tranches: Early at
// 1/3 of the risk distance, Mid at 2/3 and Final at the stop-loss price. The
// early and mid tranches get floor(shares/3) each and the final tranche takes
// the remainder, so the tranche shares always sum to the position size.
//
// It reports false when there is no position to ladder (invalid result or
// zero shares).
func PlanStopLadder(in domain.PositionSizeInputs, res domain.PositionSizeResult) (*domain.BlendedStopSummary, bool) {
	if !res.HasPosition() {
		return nil, false
	}

	direction := domain.DirectionOf(in.EntryPrice, in.StopLossPrice)
	dirMult := direction.Multiplier()
	riskDist := res.RiskPerShare

	batchSize := res.Shares / 3
	remainder := res.Shares - 2*batchSize

	earlyPrice := in.EntryPrice + dirMult*(riskDist*earlyStopFraction)
	midPrice := in.EntryPrice + dirMult*(riskDist*midStopFraction)
	finalPrice := in.StopLossPrice

	batches := [3]domain.StopBatch{
		newBatch(1, domain.BatchEarly, batchSize, earlyPrice, in.EntryPrice, res.RiskAmount),
		newBatch(2, domain.BatchMid, batchSize, midPrice, in.EntryPrice, res.RiskAmount),
		newBatch(3, domain.BatchFinal, remainder, finalPrice, in.EntryPrice, res.RiskAmount),
	}

	var totalLoss float64
	for _, b := range batches {
		totalLoss += b.RiskAmount
	}
	avgLossPerShare := totalLoss / float64(res.Shares)

	return &domain.BlendedStopSummary{
		Direction:      direction,
		BlendedStop:    in.EntryPrice + dirMult*avgLossPerShare,
		EffectiveRisk:  totalLoss,
		EffectiveRiskR: ratio(totalLoss, res.RiskAmount),
		Batches:        batches,
	}, true
}

func newBatch(id int, label string, shares int64, price, entry, riskAmount float64) domain.StopBatch {
	loss := math.Abs(entry-price) * float64(shares)
	return domain.StopBatch{
		ID:           id,
		Label:        label,
		Shares:       shares,
		Price:        price,
		RiskAmount:   loss,
		RiskPercentR: ratio(loss, riskAmount),
	}
}

// ratio divides a by b, returning 0 when b is not positive.
func ratio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}
