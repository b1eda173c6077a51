package risk

import (
	"sort"

	"swingplanner/internal/domain"
)

// DefaultScenarioPercentages is the fixed set of risk percentages compared in
// the scenario table.
var DefaultScenarioPercentages = []float64{0.25, 0.33, 0.5, 0.66, 0.75, 1.0, 1.5}

// GenerateScenarios re-runs the position sizer for each candidate risk
// percentage plus the current one, against the same account and prices.
// Candidates are de-duplicated, sorted ascending and anything <= 0 is dropped.
// It returns nil when the current result is invalid.
func GenerateScenarios(in domain.PositionSizeInputs, res domain.PositionSizeResult, candidates []float64) []domain.RiskScenario {
	if !res.IsValid || in.EntryPrice <= 0 {
		return nil
	}

	seen := make(map[float64]struct{}, len(candidates)+1)
	pcts := make([]float64, 0, len(candidates)+1)
	for _, p := range append(append([]float64(nil), candidates...), in.RiskPercentage) {
		if _, ok := seen[p]; ok || p <= 0 {
			continue
		}
		seen[p] = struct{}{}
		pcts = append(pcts, p)
	}
	sort.Float64s(pcts)

	scenarios := make([]domain.RiskScenario, 0, len(pcts))
	for _, p := range pcts {
		scenarioInputs := in
		scenarioInputs.RiskPercentage = p
		scenarios = append(scenarios, domain.RiskScenario{
			RiskPercentage: p,
			Result:         SizePosition(scenarioInputs),
			IsCurrent:      p == in.RiskPercentage,
		})
	}
	return scenarios
}
