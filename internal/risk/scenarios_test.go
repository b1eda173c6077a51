package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swingplanner/internal/domain"
)

func TestGenerateScenarios(t *testing.T) {
	t.Run("current percentage already in the set", func(t *testing.T) {
		rows := GenerateScenarios(longSetup, SizePosition(longSetup), DefaultScenarioPercentages)
		require.Len(t, rows, 7)
		for i := 1; i < len(rows); i++ {
			assert.Less(t, rows[i-1].RiskPercentage, rows[i].RiskPercentage)
		}
		var current []float64
		for _, r := range rows {
			if r.IsCurrent {
				current = append(current, r.RiskPercentage)
				assert.Equal(t, int64(20), r.Result.Shares)
			}
		}
		assert.Equal(t, []float64{1.0}, current)
		assert.Equal(t, int64(5), rows[0].Result.Shares) // 0.25% of 10000 = 25 / 5
	})

	t.Run("current percentage inserted in order", func(t *testing.T) {
		in := longSetup
		in.RiskPercentage = 2
		rows := GenerateScenarios(in, SizePosition(in), DefaultScenarioPercentages)
		require.Len(t, rows, 8)
		last := rows[len(rows)-1]
		assert.Equal(t, 2.0, last.RiskPercentage)
		assert.True(t, last.IsCurrent)
		assert.Equal(t, int64(40), last.Result.Shares)
	})

	t.Run("non-positive candidates dropped", func(t *testing.T) {
		rows := GenerateScenarios(longSetup, SizePosition(longSetup), []float64{-1, 0, 0.5, 0.5})
		require.Len(t, rows, 2)
		assert.Equal(t, 0.5, rows[0].RiskPercentage)
		assert.Equal(t, 1.0, rows[1].RiskPercentage)
	})

	t.Run("invalid result has no table", func(t *testing.T) {
		in := domain.PositionSizeInputs{AccountSize: 10000, RiskPercentage: 1, EntryPrice: 150, StopLossPrice: 150}
		assert.Nil(t, GenerateScenarios(in, SizePosition(in), DefaultScenarioPercentages))
	})

	t.Run("candidates slice is not mutated", func(t *testing.T) {
		candidates := []float64{1.5, 0.25}
		GenerateScenarios(longSetup, SizePosition(longSetup), candidates)
		assert.Equal(t, []float64{1.5, 0.25}, candidates)
	})
}
