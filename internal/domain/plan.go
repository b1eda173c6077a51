package domain

// Plan is a full recomputation over one snapshot of inputs and targets.
type Plan struct {
	Inputs           PositionSizeInputs  `json:"inputs"`
	Result           PositionSizeResult  `json:"result"`
	StopWidthPercent float64             `json:"stopWidthPercent"`
	Ladder           *BlendedStopSummary `json:"ladder,omitempty"` // nil when there is no position to ladder
	Targets          []TradeTarget       `json:"targets"`
	TargetMetrics    TargetPlanMetrics   `json:"targetMetrics"`
	Scenarios        []RiskScenario      `json:"scenarios"`
}
