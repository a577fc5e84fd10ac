package scoringconfig

import (
	"fmt"

	"github.com/wonny/dcalab/internal/contracts"
)

// Universe selects a dimension table
type Universe string

const (
	UniverseStock Universe = "stock"
	UniverseETF   Universe = "etf"
)

// ParseUniverse accepts the singular and plural forms used by the CLI and API paths
func ParseUniverse(s string) (Universe, error) {
	switch s {
	case "stock", "stocks":
		return UniverseStock, nil
	case "etf", "etfs":
		return UniverseETF, nil
	default:
		return "", fmt.Errorf("unknown universe %q (want stock or etf)", s)
	}
}

// Tables는 Stock/ETF 리스크 점수 차원 테이블
// ⭐ SSOT: 프로세스 시작 시 한 번 로드, 이후 읽기 전용
type Tables struct {
	Version string                    `yaml:"version" json:"version"`
	Stock   []contracts.DimensionRule `yaml:"stock" json:"stock"`
	ETF     []contracts.DimensionRule `yaml:"etf" json:"etf"`
}

// Table returns a copy of the rules for a universe in scoring order
func (t *Tables) Table(u Universe) ([]contracts.DimensionRule, error) {
	var rules []contracts.DimensionRule
	switch u {
	case UniverseStock:
		rules = t.Stock
	case UniverseETF:
		rules = t.ETF
	default:
		return nil, fmt.Errorf("unknown universe %q", u)
	}

	out := make([]contracts.DimensionRule, len(rules))
	copy(out, rules)
	return out, nil
}

// universeKPIs are the KPI columns each CSV provides
var universeKPIs = map[Universe]map[string]bool{
	UniverseStock: {
		contracts.KPIPE:        true,
		contracts.KPIEPS:       true,
		contracts.KPIBeta:      true,
		contracts.KPIMarketCap: true,
		contracts.KPIHigh52:    true,
		contracts.KPILow52:     true,
		contracts.KPIPrice:     true,
	},
	UniverseETF: {
		contracts.KPIPrice:     true,
		contracts.KPIHigh52:    true,
		contracts.KPILow52:     true,
		contracts.KPIVolumeAvg: true,
		contracts.KPIChangePct: true,
	},
}
