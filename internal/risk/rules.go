package risk

import (
	"math"

	"github.com/wonny/dcalab/internal/contracts"
)

// =============================================================================
// Dimension Curves (Pure)
// =============================================================================

// scoreDimension maps one rule to a sub-score in [0, MaxDimensionScore].
// Missing or undefined inputs are unscored and contribute 0.
func scoreDimension(rule contracts.DimensionRule, row contracts.KPIRow) contracts.DimensionScore {
	ds := contracts.DimensionScore{Name: rule.Name}

	switch rule.Kind {
	case contracts.RuleRangePosition:
		pos, ok := rangePosition(row)
		if !ok {
			return ds
		}
		ds.Input = contracts.Some(pos * 100)
		return scored(ds, pos*contracts.MaxDimensionScore)

	case contracts.RuleRangeSpread:
		spread, ok := rangeSpreadPct(row)
		if !ok {
			return ds
		}
		ds.Input = contracts.Some(spread)
		return scored(ds, lowerIsBetter(spread, rule.Best, rule.Worst))
	}

	v := row.Get(rule.KPI)
	ds.Input = v
	if !v.Valid {
		return ds
	}

	x := v.Value
	if rule.Abs {
		x = math.Abs(x)
	}

	switch rule.Kind {
	case contracts.RuleBand:
		return scored(ds, band(x, rule))
	case contracts.RuleHigher:
		return scored(ds, higherIsBetter(x, rule.Best, rule.Worst))
	case contracts.RuleLower:
		return scored(ds, lowerIsBetter(x, rule.Best, rule.Worst))
	default:
		// 검증된 테이블에서는 도달 불가
		return ds
	}
}

func scored(ds contracts.DimensionScore, score float64) contracts.DimensionScore {
	if math.IsNaN(score) {
		ds.Scored = false
		return ds
	}
	ds.Score = clamp(score, 0, contracts.MaxDimensionScore)
	ds.Scored = true
	return ds
}

// band: full points inside [IdealLow, IdealHigh], linear to 0 at the outer bounds
func band(x float64, r contracts.DimensionRule) float64 {
	switch {
	case x >= r.IdealLow && x <= r.IdealHigh:
		return contracts.MaxDimensionScore
	case x < r.IdealLow:
		if x <= r.OuterLow {
			return 0
		}
		return contracts.MaxDimensionScore * (x - r.OuterLow) / (r.IdealLow - r.OuterLow)
	default:
		if x >= r.OuterHigh {
			return 0
		}
		return contracts.MaxDimensionScore * (r.OuterHigh - x) / (r.OuterHigh - r.IdealHigh)
	}
}

// higherIsBetter saturates at best and floors at worst (best > worst)
func higherIsBetter(x, best, worst float64) float64 {
	switch {
	case x >= best:
		return contracts.MaxDimensionScore
	case x <= worst:
		return 0
	default:
		return contracts.MaxDimensionScore * (x - worst) / (best - worst)
	}
}

// lowerIsBetter saturates at best and floors at worst (best < worst)
func lowerIsBetter(x, best, worst float64) float64 {
	switch {
	case x <= best:
		return contracts.MaxDimensionScore
	case x >= worst:
		return 0
	default:
		return contracts.MaxDimensionScore * (worst - x) / (worst - best)
	}
}

// rangePosition = (price - low52) / (high52 - low52); undefined when high52 == low52
func rangePosition(row contracts.KPIRow) (float64, bool) {
	price, high, low := row.Get(contracts.KPIPrice), row.Get(contracts.KPIHigh52), row.Get(contracts.KPILow52)
	if !price.Valid || !high.Valid || !low.Valid {
		return 0, false
	}
	if high.Value == low.Value {
		return 0, false
	}
	return (price.Value - low.Value) / (high.Value - low.Value), true
}

// rangeSpreadPct = (high52 - low52) / price × 100; undefined when price == 0
func rangeSpreadPct(row contracts.KPIRow) (float64, bool) {
	price, high, low := row.Get(contracts.KPIPrice), row.Get(contracts.KPIHigh52), row.Get(contracts.KPILow52)
	if !price.Valid || !high.Valid || !low.Valid {
		return 0, false
	}
	if price.Value == 0 {
		return 0, false
	}
	return (high.Value - low.Value) / price.Value * 100, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
