package domain

// TradeTarget is a user-defined profit target. PercentageExit is a percent of
// the original position size; targets are not required to sum to 100.
type TradeTarget struct {
	ID             string  `json:"id"`
	Price          float64 `json:"price"`
	PercentageExit float64 `json:"percentageExit"`
}

// TargetBreakdown is the per-target result row of the target planner.
type TargetBreakdown struct {
	TargetID       string  `json:"targetId"`
	Price          float64 `json:"price"`
	PercentageExit float64 `json:"percentageExit"`
	SharesToSell   int64   `json:"sharesToSell"`
	ProfitPerShare float64 `json:"profitPerShare"`
	Profit         float64 `json:"profit"`
	RMultiple      float64 `json:"rMultiple"` // Price distance from entry in units of risk per share
}

// TargetPlanMetrics aggregates the target planner output.
//
// UnallocatedShares is the part of the position no target sells. No exit
// price is assumed for it, so it does not contribute to TotalProfit.
type TargetPlanMetrics struct {
	TotalProfit         float64           `json:"totalProfit"`
	RMultiple           float64           `json:"rMultiple"`
	SharesSold          int64             `json:"sharesSold"`
	UnallocatedShares   int64             `json:"unallocatedShares"`
	TotalExitPercentage float64           `json:"totalExitPercentage"`
	Targets             []TargetBreakdown `json:"targets"`
}
