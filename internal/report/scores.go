package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wonny/dcalab/internal/contracts"
)

// ScoreTable builds the ranked score table; one column per dimension
func ScoreTable(dimensions []contracts.DimensionRule, results []contracts.ScoreResult) *Table {
	columns := []string{"#", "Identifier", "Score", "Rating"}
	for _, d := range dimensions {
		columns = append(columns, d.Name)
	}

	t := NewTable(columns...)
	for i, r := range results {
		row := []string{strconv.Itoa(i + 1), r.Identifier, Score(r.TotalScore), string(r.Rating)}
		for _, d := range r.Dimensions {
			if d.Scored {
				row = append(row, Score(d.Score))
			} else {
				row = append(row, Missing)
			}
		}
		t.AddRow(row...)
	}
	return t
}

// WriteScores renders a ranked score table under a title
func WriteScores(w io.Writer, title string, dimensions []contracts.DimensionRule, results []contracts.ScoreResult) error {
	var b strings.Builder
	header(&b, title, [][2]string{
		{"Rows", strconv.Itoa(len(results))},
		{"Scale", fmt.Sprintf("%d dimensions × %s = %s", len(dimensions),
			Score(contracts.MaxDimensionScore), Score(contracts.MaxTotalScore))},
	})
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if err := ScoreTable(dimensions, results).Render(w); err != nil {
		return err
	}

	b.Reset()
	gaps := 0
	for _, r := range results {
		if len(r.Unscored()) > 0 {
			gaps++
		}
	}
	if gaps > 0 {
		fmt.Fprintf(&b, "\nℹ️  %d row(s) have unscored dimensions (missing KPI, counted as 0)\n", gaps)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RulesTable describes a dimension table for the rules command
func RulesTable(dimensions []contracts.DimensionRule) *Table {
	t := NewTable("Dimension", "Input", "Rule")
	for _, d := range dimensions {
		t.AddRow(d.Name, ruleInput(d), ruleText(d))
	}
	return t
}

func ruleInput(d contracts.DimensionRule) string {
	switch d.Kind {
	case contracts.RuleRangePosition:
		return "Price in 52w range"
	case contracts.RuleRangeSpread:
		return "(High52-Low52)/Price %"
	}
	if d.Abs {
		return "|" + d.KPI + "|"
	}
	return d.KPI
}

func ruleText(d contracts.DimensionRule) string {
	n := Abbreviate

	switch d.Kind {
	case contracts.RuleBand:
		return fmt.Sprintf("20 in [%s, %s], 0 outside [%s, %s]", n(d.IdealLow), n(d.IdealHigh), n(d.OuterLow), n(d.OuterHigh))
	case contracts.RuleHigher:
		return fmt.Sprintf("20 at >= %s, 0 at <= %s", n(d.Best), n(d.Worst))
	case contracts.RuleLower, contracts.RuleRangeSpread:
		return fmt.Sprintf("20 at <= %s, 0 at >= %s", n(d.Best), n(d.Worst))
	case contracts.RuleRangePosition:
		return "position × 20 (flat range unscored)"
	default:
		return string(d.Kind)
	}
}
