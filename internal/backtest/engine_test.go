package backtest

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dcalab/internal/contracts"
)

// 2024-01-01 is a Monday
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// series builds one point per date with the given closes
func series(dates []time.Time, closes ...float64) contracts.PriceSeries {
	s := make(contracts.PriceSeries, len(dates))
	for i := range dates {
		s[i] = contracts.PricePoint{Date: dates[i], Close: closes[i]}
	}
	return s
}

// weekdays returns n consecutive Mon–Fri dates starting at start
func weekdays(start time.Time, n int) []time.Time {
	dates := make([]time.Time, 0, n)
	for d := start; len(dates) < n; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSimulate_DailyShortWeekScenario(t *testing.T) {
	engine := NewEngine(nil)
	prices := series([]time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}, 100, 102, 98)

	result, err := engine.Simulate(prices, decimal.NewFromInt(500), contracts.StrategyDaily)
	require.NoError(t, err)

	wantShares := 100.0/100 + 100.0/102 + 100.0/98
	assert.True(t, result.TotalInvested.Equal(decimal.NewFromInt(300)), "invested %s", result.TotalInvested)
	assert.InDelta(t, wantShares, result.SharesHeld, 1e-9)
	assert.InDelta(t, wantShares*98, result.FinalValue, 1e-9)
	assert.InDelta(t, wantShares*98-300, result.GainAbs, 1e-9)
	assert.InDelta(t, 3.0008, result.SharesHeld, 1e-4)
	assert.InDelta(t, -5.92, result.GainAbs, 0.01)
	assert.InDelta(t, (wantShares*98-300)/300*100, result.GainPct, 1e-9)
	assert.Equal(t, 3, result.BuyCount)
	assert.Len(t, result.Trajectory, 3)
}

func TestSimulate_DailyInvestsBudgetPerFullWeek(t *testing.T) {
	engine := NewEngine(nil)
	budget := decimal.RequireFromString("123.45")

	// week 1: 5 trading days, week 2: 3 trading days
	dates := append(weekdays(day(2024, 1, 1), 5), weekdays(day(2024, 1, 8), 3)...)
	prices := series(dates, 10, 11, 12, 13, 14, 15, 16, 17)

	result, err := engine.Simulate(prices, budget, contracts.StrategyDaily)
	require.NoError(t, err)

	perDay := budget.Div(decimal.NewFromInt(5))
	want := budget.Add(perDay.Mul(decimal.NewFromInt(3)))
	assert.True(t, want.Equal(result.TotalInvested), "want %s got %s", want, result.TotalInvested)
	assert.Equal(t, 8, result.BuyCount)

	oneWeek, err := engine.Simulate(prices[:5], budget, contracts.StrategyDaily)
	require.NoError(t, err)
	assert.True(t, budget.Equal(oneWeek.TotalInvested))
}

func TestSimulate_WeekdayStrategies(t *testing.T) {
	engine := NewEngine(nil)
	budget := decimal.NewFromInt(100)

	// Two weeks; Monday 2024-01-08 is a holiday.
	dates := []time.Time{
		day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3), day(2024, 1, 4), day(2024, 1, 5),
		day(2024, 1, 9), day(2024, 1, 10), day(2024, 1, 11), day(2024, 1, 12),
	}
	prices := series(dates, 50, 50, 50, 50, 50, 40, 40, 40, 40)

	tests := []struct {
		strategy     contracts.Strategy
		wantBuys     int
		wantInvested int64
		wantShares   float64
	}{
		{contracts.StrategyMonday, 1, 100, 2},
		{contracts.StrategyTuesday, 2, 200, 2 + 2.5},
		{contracts.StrategyFriday, 2, 200, 2 + 2.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			result, err := engine.Simulate(prices, budget, tt.strategy)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBuys, result.BuyCount)
			assert.True(t, decimal.NewFromInt(tt.wantInvested).Equal(result.TotalInvested))
			assert.InDelta(t, tt.wantShares, result.SharesHeld, 1e-9)
			assert.InDelta(t, tt.wantShares*40, result.FinalValue, 1e-9)
		})
	}
}

func TestSimulate_WeekdayBuysOnlyFirstOccurrence(t *testing.T) {
	engine := NewEngine(nil)
	monday := day(2024, 1, 1)
	prices := contracts.PriceSeries{
		{Date: monday.Add(10 * time.Hour), Close: 100},
		{Date: monday.Add(15 * time.Hour), Close: 50},
		{Date: day(2024, 1, 2), Close: 100},
	}

	result, err := engine.Simulate(prices, decimal.NewFromInt(100), contracts.StrategyMonday)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BuyCount)
	assert.InDelta(t, 1.0, result.SharesHeld, 1e-12)
}

func TestSimulate_NoBuys(t *testing.T) {
	engine := NewEngine(nil)
	prices := series([]time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}, 100, 90, 80)

	result, err := engine.Simulate(prices, decimal.NewFromInt(100), contracts.StrategyFriday)
	require.NoError(t, err)

	assert.Equal(t, 0, result.BuyCount)
	assert.True(t, result.TotalInvested.IsZero())
	assert.Equal(t, 0.0, result.GainPct)
	assert.Equal(t, 0.0, result.GainAbs)
	assert.Equal(t, 0.0, result.MaxDrawdownPct)
	assert.False(t, math.IsNaN(result.GainPct))
}

func TestSimulate_MaxDrawdown(t *testing.T) {
	engine := NewEngine(nil)
	budget := decimal.NewFromInt(500)

	t.Run("halved after single buy", func(t *testing.T) {
		prices := series([]time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}, 100, 50, 75)
		result, err := engine.Simulate(prices, budget, contracts.StrategyMonday)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, result.MaxDrawdownPct, 1e-9)
	})

	t.Run("rising prices have no drawdown", func(t *testing.T) {
		dates := weekdays(day(2024, 1, 1), 15)
		closes := make([]float64, len(dates))
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		for _, strategy := range contracts.Strategies {
			result, err := engine.Simulate(series(dates, closes...), budget, strategy)
			require.NoError(t, err)
			assert.Equal(t, 0.0, result.MaxDrawdownPct, string(strategy))
		}
	})
}

func TestSimulate_Properties(t *testing.T) {
	engine := NewEngine(nil)
	rng := rand.New(rand.NewSource(42))
	budget := decimal.NewFromInt(250)

	dates := weekdays(day(2023, 1, 2), 260)
	closes := make([]float64, len(dates))
	price := 100.0
	for i := range closes {
		price *= 1 + (rng.Float64()-0.5)*0.08
		closes[i] = price
	}
	prices := series(dates, closes...)

	for _, strategy := range contracts.Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			sim := NewSimulator(strategy, budget)
			prevShares := 0.0
			for _, week := range GroupByWeek(prices) {
				sim.RunWeek(week)
				stats := sim.GetStats()
				assert.GreaterOrEqual(t, stats.Shares, prevShares)
				prevShares = stats.Shares
			}

			result, err := engine.Simulate(prices, budget, strategy)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.SharesHeld, 0.0)
			assert.GreaterOrEqual(t, result.MaxDrawdownPct, 0.0)
			assert.LessOrEqual(t, result.MaxDrawdownPct, 100.0)
			assert.InDelta(t, prevShares, result.SharesHeld, 1e-9)
		})
	}
}

func TestSimulate_Errors(t *testing.T) {
	engine := NewEngine(nil)
	good := series([]time.Time{day(2024, 1, 1), day(2024, 1, 2)}, 100, 101)

	tests := []struct {
		name     string
		prices   contracts.PriceSeries
		budget   decimal.Decimal
		strategy contracts.Strategy
		wantErr  error
	}{
		{"single point", good[:1], decimal.NewFromInt(100), contracts.StrategyDaily, contracts.ErrInsufficientData},
		{"empty", nil, decimal.NewFromInt(100), contracts.StrategyDaily, contracts.ErrInsufficientData},
		{"zero budget", good, decimal.Zero, contracts.StrategyDaily, contracts.ErrInvalidBudget},
		{"negative budget", good, decimal.NewFromInt(-5), contracts.StrategyMonday, contracts.ErrInvalidBudget},
		{"unsorted", contracts.PriceSeries{good[1], good[0]}, decimal.NewFromInt(100), contracts.StrategyDaily, contracts.ErrUnsortedSeries},
		{"zero close", series([]time.Time{day(2024, 1, 1), day(2024, 1, 2)}, 100, 0), decimal.NewFromInt(100), contracts.StrategyDaily, contracts.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Simulate(tt.prices, tt.budget, tt.strategy)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := engine.Simulate(good, decimal.NewFromInt(100), contracts.Strategy("Every Sunday"))
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	engine := NewEngine(nil)
	budget := decimal.NewFromInt(100)
	dates := weekdays(day(2024, 1, 1), 20)
	closes := make([]float64, len(dates))
	for i := range closes {
		closes[i] = 100 - float64(i%7)*3
	}
	prices := series(dates, closes...)

	results, err := engine.Compare(prices, budget)
	require.NoError(t, err)
	require.Len(t, results, len(contracts.Strategies))

	for i, strategy := range contracts.Strategies {
		assert.Equal(t, strategy, results[i].Strategy)

		single, err := engine.Simulate(prices, budget, strategy)
		require.NoError(t, err)
		assert.True(t, single.TotalInvested.Equal(results[i].TotalInvested))
		assert.Equal(t, single.SharesHeld, results[i].SharesHeld)
		assert.Equal(t, single.MaxDrawdownPct, results[i].MaxDrawdownPct)
	}

	// 4 full weeks: each weekday strategy buys 4 times, Daily 20 times
	assert.Equal(t, 20, results[0].BuyCount)
	assert.True(t, decimal.NewFromInt(400).Equal(results[0].TotalInvested))
	for _, r := range results[1:] {
		assert.Equal(t, 4, r.BuyCount)
	}

	_, err = engine.Compare(prices[:1], budget)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
	_, err = engine.Compare(prices, decimal.Zero)
	assert.ErrorIs(t, err, contracts.ErrInvalidBudget)
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	results := []contracts.SimulationResult{
		{Strategy: contracts.StrategyDaily, GainAbs: -3},
		{Strategy: contracts.StrategyMonday, GainAbs: 12},
		{Strategy: contracts.StrategyTuesday, GainAbs: 12},
		{Strategy: contracts.StrategyWednesday, GainAbs: 4},
	}
	best, ok := Best(results)
	assert.True(t, ok)
	assert.Equal(t, contracts.StrategyMonday, best.Strategy)

	best, _ = Best(results[:1])
	assert.Equal(t, contracts.StrategyDaily, best.Strategy)
}

func TestGroupByWeek(t *testing.T) {
	prices := contracts.PriceSeries{
		{Date: day(2024, 12, 30), Close: 1}, // Monday, ISO 2025-W01
		{Date: day(2025, 1, 2), Close: 1},
		{Date: day(2025, 1, 5), Close: 1}, // Sunday, still W01
		{Date: day(2025, 1, 6), Close: 1}, // Monday, W02
		{Date: day(2025, 1, 20), Close: 1},
	}

	weeks := GroupByWeek(prices)
	require.Len(t, weeks, 3)
	assert.Len(t, weeks[0], 3)
	assert.Len(t, weeks[1], 1)
	assert.Len(t, weeks[2], 1)

	assert.Empty(t, GroupByWeek(nil))
}
