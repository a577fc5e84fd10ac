package backtest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/dcalab/internal/contracts"
)

// Simulator holds the running state of one DCA run
// ⭐ SSOT: 전략별 독립 누적기 (전략 간 공유 상태 없음)
type Simulator struct {
	strategy contracts.Strategy
	weekday  time.Weekday
	daily    bool
	amount   decimal.Decimal // per-buy contribution

	// Current state
	invested decimal.Decimal
	shares   float64
	buyCount int

	// Mark-to-market tracking
	peak        float64
	maxDrawdown float64 // percent
	trajectory  []contracts.ValuePoint
}

// Stats is a point-in-time view of the running totals
type Stats struct {
	Invested       decimal.Decimal
	Shares         float64
	BuyCount       int
	MaxDrawdownPct float64
}

// NewSimulator creates a simulator for one strategy and weekly budget.
// The caller validates both.
func NewSimulator(strategy contracts.Strategy, budget decimal.Decimal) *Simulator {
	s := &Simulator{strategy: strategy}

	if wd, ok := strategy.Weekday(); ok {
		s.weekday = wd
		s.amount = budget
	} else {
		s.daily = true
		s.amount = budget.Div(decimal.NewFromInt(contracts.DailyDivisor))
	}

	return s
}

// RunWeek processes one calendar week of points in chronological order
func (s *Simulator) RunWeek(week []contracts.PricePoint) {
	boughtThisWeek := false

	for _, p := range week {
		switch {
		case s.daily:
			s.buy(p)
		case !boughtThisWeek && p.Date.Weekday() == s.weekday:
			s.buy(p)
			boughtThisWeek = true
		}

		s.markToMarket(p)
	}
}

// buy invests the per-buy contribution at the point's close
func (s *Simulator) buy(p contracts.PricePoint) {
	s.invested = s.invested.Add(s.amount)
	s.shares += s.amount.InexactFloat64() / p.Close
	s.buyCount++
}

// markToMarket records the portfolio value after the point and updates drawdown
func (s *Simulator) markToMarket(p contracts.PricePoint) {
	value := s.shares * p.Close

	if value > s.peak {
		s.peak = value
	}
	if s.peak > 0 {
		if dd := (s.peak - value) / s.peak * 100; dd > s.maxDrawdown {
			s.maxDrawdown = dd
		}
	}

	s.trajectory = append(s.trajectory, contracts.ValuePoint{
		Date:     p.Date,
		Value:    value,
		Invested: s.invested.InexactFloat64(),
	})
}

// GetStats returns the running totals
func (s *Simulator) GetStats() Stats {
	return Stats{
		Invested:       s.invested,
		Shares:         s.shares,
		BuyCount:       s.buyCount,
		MaxDrawdownPct: s.maxDrawdown,
	}
}

// Result values the holdings at last and freezes the run
func (s *Simulator) Result(last contracts.PricePoint) contracts.SimulationResult {
	invested := s.invested.InexactFloat64()
	finalValue := s.shares * last.Close
	gain := finalValue - invested

	gainPct := 0.0
	if !s.invested.IsZero() {
		gainPct = gain / invested * 100
	}

	return contracts.SimulationResult{
		Strategy:       s.strategy,
		TotalInvested:  s.invested,
		SharesHeld:     s.shares,
		FinalValue:     finalValue,
		GainAbs:        gain,
		GainPct:        gainPct,
		MaxDrawdownPct: s.maxDrawdown,
		BuyCount:       s.buyCount,
		Trajectory:     s.trajectory,
	}
}
