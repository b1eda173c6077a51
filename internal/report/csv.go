package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"swingplanner/internal/domain"
)

var csvHeader = []string{"section", "item", "shares", "price", "amount", "r_multiple", "note"}

// WriteCSV writes the ladder, targets and scenario table as one CSV stream.
// An invalid plan produces only the header and the inputs row.
func WriteCSV(w io.Writer, plan domain.Plan) error {
	writer := csv.NewWriter(w)

	// Write header
	writer.Write(csvHeader)

	in := plan.Inputs
	writer.Write([]string{
		"inputs",
		Price(in.EntryPrice) + "/" + Price(in.StopLossPrice),
		strconv.FormatInt(plan.Result.Shares, 10),
		Price(in.EntryPrice),
		Money(plan.Result.RiskAmount),
		"",
		"account=" + Money(in.AccountSize) + " risk=" + Percent(in.RiskPercentage),
	})

	if plan.Result.IsValid {
		if plan.Ladder != nil {
			for _, b := range plan.Ladder.Batches {
				writer.Write([]string{
					"ladder", b.Label,
					strconv.FormatInt(b.Shares, 10),
					Money(b.Price),
					Money(b.RiskAmount),
					strconv.FormatFloat(b.RiskPercentR, 'f', 4, 64),
					"",
				})
			}
			writer.Write([]string{
				"ladder", "Blended",
				strconv.FormatInt(plan.Ladder.TotalShares(), 10),
				Money(plan.Ladder.BlendedStop),
				Money(plan.Ladder.EffectiveRisk),
				strconv.FormatFloat(plan.Ladder.EffectiveRiskR, 'f', 4, 64),
				string(plan.Ladder.Direction),
			})
		}

		for i, t := range plan.TargetMetrics.Targets {
			writer.Write([]string{
				"target", strconv.Itoa(i + 1),
				strconv.FormatInt(t.SharesToSell, 10),
				Money(t.Price),
				Money(t.Profit),
				strconv.FormatFloat(t.RMultiple, 'f', 4, 64),
				Percent(t.PercentageExit),
			})
		}

		for _, sc := range plan.Scenarios {
			note := ""
			if sc.IsCurrent {
				note = "current"
			}
			writer.Write([]string{
				"scenario", Percent(sc.RiskPercentage),
				strconv.FormatInt(sc.Result.Shares, 10),
				Money(sc.Result.PositionValue),
				Money(sc.Result.RiskAmount),
				"",
				note,
			})
		}
	}

	writer.Flush()
	return writer.Error()
}
