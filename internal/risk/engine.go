package risk

import (
	"sort"

	"github.com/wonny/dcalab/internal/contracts"
	"github.com/wonny/dcalab/pkg/logger"
)

// =============================================================================
// Risk Scorer - 순수 계산기
// =============================================================================

// Engine scores KPI rows against a dimension table
// ⭐ SSOT: Stock/ETF 모두 같은 엔진, 차원 테이블만 다름
// 테이블 로드/검증은 scoringconfig에서 담당
type Engine struct {
	logger *logger.Logger
}

// NewEngine 새 리스크 엔진 생성
func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{logger: log}
}

// Score computes the 0–100 total and rating of one row.
// Sub-scores keep the order of dimensions.
func (e *Engine) Score(row contracts.KPIRow, dimensions []contracts.DimensionRule) contracts.ScoreResult {
	result := contracts.ScoreResult{
		Identifier: row.Identifier,
		Dimensions: make([]contracts.DimensionScore, 0, len(dimensions)),
	}

	total := 0.0
	for _, rule := range dimensions {
		ds := scoreDimension(rule, row)
		total += ds.Score
		result.Dimensions = append(result.Dimensions, ds)
	}

	// 누락 차원은 재정규화하지 않음 (100점 만점 유지)
	result.TotalScore = clamp(total, 0, contracts.MaxTotalScore)
	result.Rating = contracts.RatingFor(result.TotalScore)
	return result
}

// ScoreAll scores every row and ranks by total score, highest first.
// Ties keep input order.
func (e *Engine) ScoreAll(rows []contracts.KPIRow, dimensions []contracts.DimensionRule) []contracts.ScoreResult {
	results := make([]contracts.ScoreResult, len(rows))
	unscored := 0
	for i, row := range rows {
		results[i] = e.Score(row, dimensions)
		if missing := results[i].Unscored(); len(missing) > 0 {
			unscored++
			e.logger.WithFields(map[string]interface{}{
				"identifier": row.Identifier,
				"unscored":   missing,
			}).Debug("Row has unscored dimensions")
		}
	}

	Rank(results)

	e.logger.WithFields(map[string]interface{}{
		"rows":          len(rows),
		"dimensions":    len(dimensions),
		"rows_with_gap": unscored,
	}).Info("Scored KPI rows")

	return results
}

// Rank sorts results in place by total score descending (stable)
func Rank(results []contracts.ScoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
}
