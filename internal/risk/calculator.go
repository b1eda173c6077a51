package risk

import (
	"sync"

	"swingplanner/internal/domain"
)

// CalculatorConfig holds configuration for the calculator.
type CalculatorConfig struct {
	ScenarioPercentages []float64 // Candidate risk percentages for the scenario table
}

// Calculator runs the sizing pipeline over a snapshot of inputs and targets.
// It remembers the last sized inputs so unchanged snapshots are not resized.
type Calculator struct {
	config CalculatorConfig

	mu         sync.Mutex
	lastInputs domain.PositionSizeInputs
	lastResult domain.PositionSizeResult
	hasLast    bool
}

// NewCalculator creates a new calculator instance.
func NewCalculator(config CalculatorConfig) *Calculator {
	if len(config.ScenarioPercentages) == 0 {
		config.ScenarioPercentages = DefaultScenarioPercentages
	}
	return &Calculator{config: config}
}

// Size returns SizePosition(in), reusing the previous result when the inputs
// have not changed.
func (c *Calculator) Size(in domain.PositionSizeInputs) domain.PositionSizeResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasLast && c.lastInputs == in {
		return c.lastResult
	}
	c.lastInputs = in
	c.lastResult = SizePosition(in)
	c.hasLast = true
	return c.lastResult
}

// Plan recomputes every derived figure for the snapshot.
func (c *Calculator) Plan(in domain.PositionSizeInputs, targets []domain.TradeTarget) domain.Plan {
	res := c.Size(in)
	ladder, _ := PlanStopLadder(in, res)

	plan := domain.Plan{
		Inputs:        in,
		Result:        res,
		Ladder:        ladder,
		Targets:       targets,
		TargetMetrics: PlanTargets(targets, in, res),
		Scenarios:     GenerateScenarios(in, res, c.config.ScenarioPercentages),
	}
	if res.IsValid {
		plan.StopWidthPercent = in.RiskDistance() / in.EntryPrice * 100
	}
	return plan
}

// ScenarioPercentages returns the configured candidate percentages.
func (c *Calculator) ScenarioPercentages() []float64 {
	out := make([]float64, len(c.config.ScenarioPercentages))
	copy(out, c.config.ScenarioPercentages)
	return out
}
