package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wonny/dcalab/internal/contracts"
)

// ComparisonTable builds the strategy comparison table in declaration order
func ComparisonTable(results []contracts.SimulationResult) *Table {
	t := NewTable("Strategy", "Invested", "Shares", "Final Value", "Gain", "Gain %", "Max DD", "Buys")
	for _, r := range results {
		t.AddRow(
			string(r.Strategy),
			Money(r.TotalInvested),
			Shares(r.SharesHeld),
			MoneyFloat(r.FinalValue),
			MoneyFloat(r.GainAbs),
			SignedPercent(r.GainPct),
			Percent(r.MaxDrawdownPct),
			strconv.Itoa(r.BuyCount),
		)
	}
	return t
}

// WriteComparison renders the series summary, the comparison table and the best strategy
func WriteComparison(w io.Writer, summary contracts.SeriesSummary, results []contracts.SimulationResult, best *contracts.SimulationResult) error {
	var b strings.Builder

	header(&b, "DCA Strategy Comparison", [][2]string{
		{"Period", fmt.Sprintf("%s ~ %s", summary.From.Format("2006-01-02"), summary.To.Format("2006-01-02"))},
		{"Points", strconv.Itoa(summary.Points)},
		{"Close", fmt.Sprintf("mean %s, σ %s, min %s, max %s",
			MoneyFloat(summary.MeanClose), MoneyFloat(summary.StdDev),
			MoneyFloat(summary.MinClose), MoneyFloat(summary.MaxClose))},
	})
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if err := ComparisonTable(results).Render(w); err != nil {
		return err
	}

	b.Reset()
	b.WriteString("\n")
	for _, r := range results {
		if r.BuyCount == 0 {
			fmt.Fprintf(&b, "⚠️  %s: no buy days in this period\n", r.Strategy)
		}
	}
	if best != nil {
		fmt.Fprintf(&b, "✅ Best strategy: %s (%s, %s)\n", best.Strategy, MoneyFloat(best.GainAbs), SignedPercent(best.GainPct))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
