package domain

import "math"

// PositionSizeInputs is the snapshot of user inputs the sizer works from.
type PositionSizeInputs struct {
	AccountSize    float64 `json:"accountSize"`    // Account equity in currency units
	RiskPercentage float64 `json:"riskPercentage"` // Percent of the account willing to lose (e.g. 1.0 for 1%)
	EntryPrice     float64 `json:"entryPrice"`     // Planned entry price
	StopLossPrice  float64 `json:"stopLossPrice"`  // Final stop-loss price (1R)
}

// RiskDistance is the absolute price distance between entry and stop.
func (in PositionSizeInputs) RiskDistance() float64 {
	d := in.EntryPrice - in.StopLossPrice
	if d < 0 {
		return -d
	}
	return d
}

// Set returns a copy of the inputs with one field replaced. NaN and
// infinities are stored as 0. Unknown fields leave the inputs untouched and
// report false.
func (in PositionSizeInputs) Set(field InputField, value float64) (PositionSizeInputs, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	switch field {
	case FieldAccountSize:
		in.AccountSize = value
	case FieldRiskPercentage:
		in.RiskPercentage = value
	case FieldEntryPrice:
		in.EntryPrice = value
	case FieldStopLossPrice:
		in.StopLossPrice = value
	default:
		return in, false
	}
	return in, true
}

// Sanitized returns a copy with NaN and infinite fields replaced by 0.
func (in PositionSizeInputs) Sanitized() PositionSizeInputs {
	in, _ = in.Set(FieldAccountSize, in.AccountSize)
	in, _ = in.Set(FieldRiskPercentage, in.RiskPercentage)
	in, _ = in.Set(FieldEntryPrice, in.EntryPrice)
	in, _ = in.Set(FieldStopLossPrice, in.StopLossPrice)
	return in
}

// PositionSizeResult is the output of the position sizer. It is always fully
// populated; an invalid result has every numeric field set to zero.
type PositionSizeResult struct {
	Shares        int64   `json:"shares"`
	PositionValue float64 `json:"positionValue"` // Shares * entry price
	RiskAmount    float64 `json:"riskAmount"`    // Dollar risk at the full stop (1R)
	RiskPerShare  float64 `json:"riskPerShare"`  // |entry - stop|
	IsValid       bool    `json:"isValid"`
}

// HasPosition reports whether the result is valid and sized to at least one share.
func (r PositionSizeResult) HasPosition() bool {
	return r.IsValid && r.Shares > 0
}
