package scoringconfig

import (
	"fmt"

	"github.com/wonny/dcalab/internal/contracts"
)

// DimensionsPerTable × MaxDimensionScore = MaxTotalScore
const DimensionsPerTable = 5

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
func Validate(t *Tables) error {
	if t.Version == "" {
		return ValidationError{"version", "required"}
	}
	if err := validateTable("stock", UniverseStock, t.Stock); err != nil {
		return err
	}
	return validateTable("etf", UniverseETF, t.ETF)
}

func validateTable(field string, u Universe, rules []contracts.DimensionRule) error {
	if len(rules) != DimensionsPerTable {
		return ValidationError{field, fmt.Sprintf("must have exactly %d dimensions, got %d", DimensionsPerTable, len(rules))}
	}

	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		path := fmt.Sprintf("%s[%d]", field, i)
		if r.Name == "" {
			return ValidationError{path + ".name", "required"}
		}
		if seen[r.Name] {
			return ValidationError{path + ".name", fmt.Sprintf("duplicate dimension %q", r.Name)}
		}
		seen[r.Name] = true

		if err := validateRule(path, u, r); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(path string, u Universe, r contracts.DimensionRule) error {
	switch r.Kind {
	case contracts.RuleBand, contracts.RuleHigher, contracts.RuleLower:
		if r.KPI == "" {
			return ValidationError{path + ".kpi", "required for " + string(r.Kind)}
		}
		if !universeKPIs[u][r.KPI] {
			return ValidationError{path + ".kpi", fmt.Sprintf("%q is not a %s KPI column", r.KPI, u)}
		}
	case contracts.RuleRangePosition, contracts.RuleRangeSpread:
		// Price/High52/Low52 고정
		if r.KPI != "" {
			return ValidationError{path + ".kpi", "must be empty for " + string(r.Kind)}
		}
	default:
		return ValidationError{path + ".kind", fmt.Sprintf("unknown kind %q", r.Kind)}
	}

	switch r.Kind {
	case contracts.RuleBand:
		if !(r.OuterLow <= r.IdealLow && r.IdealLow <= r.IdealHigh && r.IdealHigh <= r.OuterHigh) {
			return ValidationError{path, "must satisfy outer_low <= ideal_low <= ideal_high <= outer_high"}
		}
		if r.OuterLow == r.OuterHigh {
			return ValidationError{path, "outer_low must be < outer_high"}
		}
	case contracts.RuleHigher:
		if r.Best <= r.Worst {
			return ValidationError{path, "higher rule needs best > worst"}
		}
	case contracts.RuleLower, contracts.RuleRangeSpread:
		if r.Best >= r.Worst {
			return ValidationError{path, string(r.Kind) + " rule needs best < worst"}
		}
	}

	if r.Abs && r.Kind != contracts.RuleHigher && r.Kind != contracts.RuleLower && r.Kind != contracts.RuleBand {
		return ValidationError{path + ".abs", "only valid on kpi rules"}
	}
	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(t *Tables) []Warning {
	var warnings []Warning

	check := func(field string, rules []contracts.DimensionRule) {
		for i, r := range rules {
			if r.Kind != contracts.RuleBand {
				continue
			}
			// outer == ideal 이면 밴드 밖으로 나가는 순간 0점
			if r.OuterLow == r.IdealLow || r.OuterHigh == r.IdealHigh {
				warnings = append(warnings, Warning{
					Code:    "HARD_BAND_EDGE",
					Message: fmt.Sprintf("%s[%d] %s: band has no decay zone on one side", field, i, r.Name),
				})
			}
		}
	}
	check("stock", t.Stock)
	check("etf", t.ETF)

	return warnings
}
