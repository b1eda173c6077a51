package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"swingplanner/internal/domain"
)

const invalidPlanHint = "Enter an account size, risk %, entry and a stop different from the entry to size the position."

// WriteText renders the plan as aligned tables.
func WriteText(w io.Writer, symbol string, plan domain.Plan) error {
	ew := &errWriter{w: w}

	title := "Position plan"
	if symbol != "" {
		title += " for " + symbol
	}
	ew.printf("## %s\n\n", title)

	in := plan.Inputs
	ew.printf("Account %s   Risk %s   Entry %s   Stop %s\n",
		Money(in.AccountSize), Percent(in.RiskPercentage), Price(in.EntryPrice), Price(in.StopLossPrice))

	if !plan.Result.IsValid {
		ew.printf("\n%s\n", invalidPlanHint)
		return ew.err
	}

	res := plan.Result
	ew.printf("Shares %d   Position value %s   Risk %s   Risk/share %s   Stop width %s\n",
		res.Shares, Money(res.PositionValue), Money(res.RiskAmount), Money(res.RiskPerShare), Percent(plan.StopWidthPercent))

	if plan.Ladder != nil {
		ew.printf("\n## Stop ladder (%s)\n", plan.Ladder.Direction)
		tw := tabwriter.NewWriter(ew, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
		fmt.Fprintln(tw, "Batch\tShares\tStop\tRisk\t%R\t")
		for _, b := range plan.Ladder.Batches {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.2f\t\n", b.Label, b.Shares, Money(b.Price), Money(b.RiskAmount), b.RiskPercentR*100)
		}
		tw.Flush()
		ew.printf("Blended stop %s   Effective risk %s (%s)\n",
			Money(plan.Ladder.BlendedStop), Money(plan.Ladder.EffectiveRisk), RMultiple(plan.Ladder.EffectiveRiskR))
	}

	m := plan.TargetMetrics
	ew.printf("\n## Targets\n")
	tw := tabwriter.NewWriter(ew, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(tw, "#\tPrice\tExit%\tShares\tProfit\tR\t")
	for i, t := range m.Targets {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%d\t%s\t%s\t\n", i+1, Money(t.Price), t.PercentageExit, t.SharesToSell, Money(t.Profit), RMultiple(t.RMultiple))
	}
	tw.Flush()
	ew.printf("Total profit %s (%s)   Sold %d   Unallocated %d   Exit total %s\n",
		Money(m.TotalProfit), RMultiple(m.RMultiple), m.SharesSold, m.UnallocatedShares, Percent(m.TotalExitPercentage))

	if len(plan.Scenarios) > 0 {
		ew.printf("\n## Risk scenarios\n")
		tw = tabwriter.NewWriter(ew, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
		fmt.Fprintln(tw, "Risk%\tShares\tValue\tRisk\t\t")
		for _, sc := range plan.Scenarios {
			marker := ""
			if sc.IsCurrent {
				marker = "<"
			}
			fmt.Fprintf(tw, "%.2f\t%d\t%s\t%s\t%s\t\n", sc.RiskPercentage, sc.Result.Shares, Money(sc.Result.PositionValue), Money(sc.Result.RiskAmount), marker)
		}
		tw.Flush()
	}
	return ew.err
}

// WriteAnalysisText renders a ticker analysis.
func WriteAnalysisText(w io.Writer, a *domain.AnalysisResult) error {
	ew := &errWriter{w: w}
	ew.printf("## %s (%s) sentiment: %s\n\n", a.Ticker, a.Timeframe, strings.ToUpper(string(a.Sentiment)))
	ew.printf("%s\n", strings.TrimSpace(a.Summary))
	if len(a.Catalysts) > 0 {
		ew.printf("\n## Catalysts\n")
		for _, c := range a.Catalysts {
			ew.printf("- %s\n", c)
		}
	}
	if len(a.NewsLinks) > 0 {
		ew.printf("\n## Sources\n")
		for _, n := range a.NewsLinks {
			ew.printf("- %s <%s>\n", n.Title, n.URL)
		}
	}
	return ew.err
}

// errWriter keeps the first write error so rendering code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(e, format, args...)
}
