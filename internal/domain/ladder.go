package domain

// Stop ladder tranche labels.
const (
	BatchEarly = "Early"
	BatchMid   = "Mid"
	BatchFinal = "Final"
)

// StopBatch is one tranche of the stop ladder.
type StopBatch struct {
	ID           int     `json:"id"`
	Label        string  `json:"label"`
	Shares       int64   `json:"shares"`
	Price        float64 `json:"price"`
	RiskAmount   float64 `json:"riskAmount"`   // Dollar loss if this tranche is stopped out
	RiskPercentR float64 `json:"riskPercentR"` // RiskAmount as a fraction of the 1R risk amount
}

// BlendedStopSummary describes the three-tranche stop plan for a sized position.
type BlendedStopSummary struct {
	Direction      Direction    `json:"direction"`
	BlendedStop    float64      `json:"blendedStop"`    // Single stop with the same aggregate loss as the ladder
	EffectiveRisk  float64      `json:"effectiveRisk"`  // Sum of the tranche losses
	EffectiveRiskR float64      `json:"effectiveRiskR"` // EffectiveRisk / 1R risk amount
	Batches        [3]StopBatch `json:"batches"`
}

// TotalShares sums the shares over every tranche.
func (s *BlendedStopSummary) TotalShares() int64 {
	var total int64
	for _, b := range s.Batches {
		total += b.Shares
	}
	return total
}
