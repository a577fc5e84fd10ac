package backtest

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wonny/dcalab/internal/contracts"
	"github.com/wonny/dcalab/pkg/logger"
)

// Engine runs DCA simulations over a price series
// ⭐ SSOT: DCA 시뮬레이션 실행은 여기서만
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new DCA engine
func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{logger: log}
}

// Simulate replays series week by week under one strategy
func (e *Engine) Simulate(series contracts.PriceSeries, budget decimal.Decimal, strategy contracts.Strategy) (*contracts.SimulationResult, error) {
	if !strategy.IsValid() {
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
	if err := validate(series, budget); err != nil {
		return nil, err
	}

	result := e.run(series, budget, strategy)
	return &result, nil
}

// Compare runs every strategy over the same inputs.
// Results follow contracts.Strategies order, not performance.
func (e *Engine) Compare(series contracts.PriceSeries, budget decimal.Decimal) ([]contracts.SimulationResult, error) {
	if err := validate(series, budget); err != nil {
		return nil, err
	}

	e.logger.WithFields(map[string]interface{}{
		"from":          series.First().Date.Format("2006-01-02"),
		"to":            series.Last().Date.Format("2006-01-02"),
		"points":        len(series),
		"weekly_budget": budget.String(),
	}).Info("Comparing DCA strategies")

	results := make([]contracts.SimulationResult, 0, len(contracts.Strategies))
	for _, strategy := range contracts.Strategies {
		result := e.run(series, budget, strategy)
		if result.BuyCount == 0 {
			e.logger.WithField("strategy", string(strategy)).Warn("No buy days for strategy in this period")
		}
		results = append(results, result)
	}

	return results, nil
}

// run assumes validated inputs
func (e *Engine) run(series contracts.PriceSeries, budget decimal.Decimal, strategy contracts.Strategy) contracts.SimulationResult {
	sim := NewSimulator(strategy, budget)
	for _, week := range GroupByWeek(series) {
		sim.RunWeek(week)
	}

	result := sim.Result(series.Last())

	e.logger.WithFields(map[string]interface{}{
		"strategy":     string(strategy),
		"buy_count":    result.BuyCount,
		"invested":     result.TotalInvested.String(),
		"gain_pct":     fmt.Sprintf("%.2f%%", result.GainPct),
		"max_drawdown": fmt.Sprintf("%.2f%%", result.MaxDrawdownPct),
	}).Debug("Simulation completed")

	return result
}

// Best returns the result with the highest absolute gain.
// The first strategy wins ties; ok is false for an empty slice.
func Best(results []contracts.SimulationResult) (best contracts.SimulationResult, ok bool) {
	for i, r := range results {
		if i == 0 || r.GainAbs > best.GainAbs {
			best = r
			ok = true
		}
	}
	return best, ok
}

func validate(series contracts.PriceSeries, budget decimal.Decimal) error {
	if len(series) < contracts.MinSimulationPoints {
		return fmt.Errorf("%w: got %d price points, need at least %d",
			contracts.ErrInsufficientData, len(series), contracts.MinSimulationPoints)
	}
	if !budget.IsPositive() {
		return fmt.Errorf("%w: weekly budget must be > 0, got %s", contracts.ErrInvalidBudget, budget.String())
	}
	if !series.IsStrictlyIncreasing() {
		return contracts.ErrUnsortedSeries
	}
	for _, p := range series {
		if p.Close <= 0 {
			return fmt.Errorf("%w: close %v on %s", contracts.ErrInvalidPrice, p.Close, p.Date.Format("2006-01-02"))
		}
	}
	return nil
}
