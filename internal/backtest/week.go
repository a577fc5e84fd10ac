package backtest

import "github.com/wonny/dcalab/internal/contracts"

type isoWeek struct {
	year int
	week int
}

// GroupByWeek splits a sorted series into ISO calendar weeks (Monday start).
// Sub-slices share the backing array with series.
func GroupByWeek(series contracts.PriceSeries) [][]contracts.PricePoint {
	var (
		weeks   [][]contracts.PricePoint
		start   int
		current isoWeek
	)

	for i, p := range series {
		y, w := p.Date.ISOWeek()
		key := isoWeek{year: y, week: w}
		if i == 0 {
			current = key
			continue
		}
		if key != current {
			weeks = append(weeks, series[start:i])
			start = i
			current = key
		}
	}
	if len(series) > 0 {
		weeks = append(weeks, series[start:])
	}

	return weeks
}
