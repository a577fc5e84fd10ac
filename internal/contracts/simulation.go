package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Strategy is a DCA investment-timing policy
type Strategy string

const (
	StrategyDaily     Strategy = "Daily"
	StrategyMonday    Strategy = "Every Monday"
	StrategyTuesday   Strategy = "Every Tuesday"
	StrategyWednesday Strategy = "Every Wednesday"
	StrategyThursday  Strategy = "Every Thursday"
	StrategyFriday    Strategy = "Every Friday"
)

// Strategies is the fixed evaluation order
// ⭐ SSOT: 비교 테이블 순서 = 선언 순서 (성과순 정렬 아님)
var Strategies = []Strategy{
	StrategyDaily,
	StrategyMonday,
	StrategyTuesday,
	StrategyWednesday,
	StrategyThursday,
	StrategyFriday,
}

// DailyDivisor splits the weekly budget for the Daily strategy.
// Fixed at 5 regardless of how many trading days a week actually has.
const DailyDivisor = 5

var strategyWeekdays = map[Strategy]time.Weekday{
	StrategyMonday:    time.Monday,
	StrategyTuesday:   time.Tuesday,
	StrategyWednesday: time.Wednesday,
	StrategyThursday:  time.Thursday,
	StrategyFriday:    time.Friday,
}

// Weekday returns the target weekday of a weekday strategy.
// ok is false for Daily and unknown strategies.
func (s Strategy) Weekday() (time.Weekday, bool) {
	wd, ok := strategyWeekdays[s]
	return wd, ok
}

// IsValid reports whether s is one of the fixed strategies
func (s Strategy) IsValid() bool {
	if s == StrategyDaily {
		return true
	}
	_, ok := strategyWeekdays[s]
	return ok
}

// ValuePoint is one day of a portfolio trajectory
type ValuePoint struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	Invested float64   `json:"invested"`
}

// SimulationResult is the immutable summary of one DCA run
type SimulationResult struct {
	Strategy       Strategy        `json:"strategy"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	SharesHeld     float64         `json:"shares_held"`
	FinalValue     float64         `json:"final_value"`
	GainAbs        float64         `json:"gain_abs"`
	GainPct        float64         `json:"gain_pct"`
	MaxDrawdownPct float64         `json:"max_drawdown_pct"`
	BuyCount       int             `json:"buy_count"`
	Trajectory     []ValuePoint    `json:"trajectory,omitempty"`
}

// SimulationColumns is the display order of SimulationResult records
var SimulationColumns = []string{
	"strategy",
	"total_invested",
	"shares_held",
	"final_value",
	"gain_abs",
	"gain_pct",
	"max_drawdown_pct",
	"buy_count",
}

// Record returns the result as a flat field-name → value mapping
func (r SimulationResult) Record() map[string]any {
	return map[string]any{
		"strategy":         string(r.Strategy),
		"total_invested":   r.TotalInvested.InexactFloat64(),
		"shares_held":      r.SharesHeld,
		"final_value":      r.FinalValue,
		"gain_abs":         r.GainAbs,
		"gain_pct":         r.GainPct,
		"max_drawdown_pct": r.MaxDrawdownPct,
		"buy_count":        r.BuyCount,
	}
}
