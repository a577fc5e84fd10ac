package contracts

// RuleKind selects the scoring curve of a dimension
type RuleKind string

const (
	RuleBand          RuleKind = "band"           // full points inside [IdealLow, IdealHigh]
	RuleHigher        RuleKind = "higher"         // higher is better
	RuleLower         RuleKind = "lower"          // lower is better
	RuleRangePosition RuleKind = "range_position" // (price-low)/(high-low)
	RuleRangeSpread   RuleKind = "range_spread"   // (high-low)/price*100, lower is better
)

// MaxDimensionScore is the cap of a single dimension
const MaxDimensionScore = 20.0

// MaxTotalScore is the cap of a total score
const MaxTotalScore = 100.0

// Standard KPI keys shared by the CSV loaders and the dimension tables
const (
	KPIPE        = "PE"
	KPIEPS       = "EPS"
	KPIBeta      = "Beta"
	KPIMarketCap = "MarketCap"
	KPIHigh52    = "High52"
	KPILow52     = "Low52"
	KPIPrice     = "Price"
	KPIVolumeAvg = "VolumeAvg"
	KPIChangePct = "ChangePct"
)

// DimensionRule maps one KPI (or a 52-week derived metric) to [0, 20]
type DimensionRule struct {
	Name string   `yaml:"name" json:"name"`
	KPI  string   `yaml:"kpi,omitempty" json:"kpi,omitempty"` // range rules read Price/High52/Low52
	Kind RuleKind `yaml:"kind" json:"kind"`
	Abs  bool     `yaml:"abs,omitempty" json:"abs,omitempty"` // score |value|

	// band
	IdealLow  float64 `yaml:"ideal_low,omitempty" json:"ideal_low,omitempty"`
	IdealHigh float64 `yaml:"ideal_high,omitempty" json:"ideal_high,omitempty"`
	OuterLow  float64 `yaml:"outer_low,omitempty" json:"outer_low,omitempty"`
	OuterHigh float64 `yaml:"outer_high,omitempty" json:"outer_high,omitempty"`

	// higher / lower / range_spread
	Best  float64 `yaml:"best,omitempty" json:"best,omitempty"`
	Worst float64 `yaml:"worst,omitempty" json:"worst,omitempty"`
}

// KPIRow is one identifier with its (possibly missing) KPI values
type KPIRow struct {
	Identifier string              `json:"identifier"`
	Values     map[string]Optional `json:"values"`
}

// Get returns the KPI value, missing when absent from the row
func (r KPIRow) Get(kpi string) Optional {
	if r.Values == nil {
		return Optional{}
	}
	return r.Values[kpi]
}

// Rating is the qualitative label of a total score
type Rating string

const (
	RatingLowRisk  Rating = "Low Risk"
	RatingModerate Rating = "Moderate"
	RatingElevated Rating = "Elevated"
	RatingHighRisk Rating = "High Risk"
)

// RatingFor maps a total score to its fixed band.
// Boundaries belong to the higher band (80 → Low Risk).
func RatingFor(score float64) Rating {
	switch {
	case score >= 80:
		return RatingLowRisk
	case score >= 60:
		return RatingModerate
	case score >= 40:
		return RatingElevated
	default:
		return RatingHighRisk
	}
}

// DimensionScore is one sub-score of a ScoreResult
type DimensionScore struct {
	Name   string   `json:"name"`
	Score  float64  `json:"score"`
	Scored bool     `json:"scored"` // false: input missing or undefined, contributes 0
	Input  Optional `json:"input"`
}

// ScoreResult is the weighted risk score of one KPI row
type ScoreResult struct {
	Identifier string           `json:"identifier"`
	TotalScore float64          `json:"total_score"`
	Rating     Rating           `json:"rating"`
	Dimensions []DimensionScore `json:"dimensions"`
}

// Unscored returns the names of dimensions that could not be scored
func (r ScoreResult) Unscored() []string {
	var names []string
	for _, d := range r.Dimensions {
		if !d.Scored {
			names = append(names, d.Name)
		}
	}
	return names
}

// ScoreColumns returns the record column order for a dimension table
func ScoreColumns(dimensions []DimensionRule) []string {
	cols := []string{"identifier", "total_score", "rating"}
	for _, d := range dimensions {
		cols = append(cols, d.Name)
	}
	return cols
}

// Record returns the result as a flat field-name → value mapping.
// Unscored dimensions map to nil.
func (r ScoreResult) Record() map[string]any {
	rec := map[string]any{
		"identifier":  r.Identifier,
		"total_score": r.TotalScore,
		"rating":      string(r.Rating),
	}
	for _, d := range r.Dimensions {
		if d.Scored {
			rec[d.Name] = d.Score
		} else {
			rec[d.Name] = nil
		}
	}
	return rec
}
