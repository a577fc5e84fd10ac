package report

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/wonny/dcalab/internal/contracts"
)

// Currency of every money column
const Currency = money.USD

// Missing is printed for missing KPIs and unscored dimensions
const Missing = "n/a"

// Money formats an amount in minor units, e.g. "$1,234.56" / "-$5.92"
func Money(amount decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, Currency).Display()
}

// MoneyFloat formats a float amount as Money
func MoneyFloat(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Missing
	}
	return Money(decimal.NewFromFloat(amount))
}

// Percent formats a percentage value (already ×100)
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// SignedPercent formats a gain with an explicit sign
func SignedPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// Shares formats a fractional share count
func Shares(v float64) string {
	return humanize.FtoaWithDigits(v, 4)
}

// Score formats a sub-score or total
func Score(v float64) string {
	return humanize.FtoaWithDigits(v, 1)
}

// KPIValue formats a KPI cell for terminal output
func KPIValue(kpi string, v contracts.Optional) string {
	if !v.Valid {
		return Missing
	}

	switch kpi {
	case contracts.KPIMarketCap:
		return "$" + Abbreviate(v.Value)
	case contracts.KPIVolumeAvg:
		return humanize.Comma(int64(math.Round(v.Value)))
	case contracts.KPIPrice, contracts.KPIHigh52, contracts.KPILow52:
		return MoneyFloat(v.Value)
	case contracts.KPIChangePct:
		return SignedPercent(v.Value)
	default:
		return humanize.CommafWithDigits(v.Value, 2)
	}
}

var abbreviations = []struct {
	threshold float64
	suffix    string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// Abbreviate renders large numbers the way KPI sheets do: 300B, 1.5T
func Abbreviate(v float64) string {
	abs := math.Abs(v)
	for _, a := range abbreviations {
		if abs >= a.threshold {
			return humanize.FtoaWithDigits(v/a.threshold, 2) + a.suffix
		}
	}
	return humanize.FtoaWithDigits(v, 2)
}
