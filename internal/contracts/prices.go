package contracts

import "time"

// PricePoint is a single (date, close) observation
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is a time-ordered sequence of price points
// ⭐ SSOT: Loader → Engine 입력 계약 (strictly increasing dates)
type PriceSeries []PricePoint

// MinSimulationPoints is the minimum number of points required to simulate
const MinSimulationPoints = 2

// First returns the earliest point
func (s PriceSeries) First() PricePoint {
	return s[0]
}

// Last returns the latest point
func (s PriceSeries) Last() PricePoint {
	return s[len(s)-1]
}

// Closes returns the close prices in series order
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// IsStrictlyIncreasing reports whether every date is after the previous one
func (s PriceSeries) IsStrictlyIncreasing() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].Date.After(s[i-1].Date) {
			return false
		}
	}
	return true
}

// Since returns the points dated on or after cutoff.
// The returned slice shares the backing array with s.
func (s PriceSeries) Since(cutoff time.Time) PriceSeries {
	for i, p := range s {
		if !p.Date.Before(cutoff) {
			return s[i:]
		}
	}
	return PriceSeries{}
}

// SeriesSummary describes a loaded series for display
type SeriesSummary struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Points    int       `json:"points"`
	MeanClose float64   `json:"mean_close"`
	StdDev    float64   `json:"std_dev"`
	MinClose  float64   `json:"min_close"`
	MaxClose  float64   `json:"max_close"`
}
