package domain

// RiskScenario is one row of the risk comparison table.
type RiskScenario struct {
	RiskPercentage float64            `json:"riskPercentage"`
	Result         PositionSizeResult `json:"result"`
	IsCurrent      bool               `json:"isCurrent"`
}
