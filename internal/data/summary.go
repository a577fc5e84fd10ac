package data

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/wonny/dcalab/internal/contracts"
)

// Summarize describes a loaded series (date span and close statistics)
func Summarize(series contracts.PriceSeries) (contracts.SeriesSummary, error) {
	if len(series) == 0 {
		return contracts.SeriesSummary{}, fmt.Errorf("%w: empty price series", contracts.ErrInsufficientData)
	}

	closes := stats.Float64Data(series.Closes())

	mean, err := closes.Mean()
	if err != nil {
		return contracts.SeriesSummary{}, fmt.Errorf("mean close: %w", err)
	}
	stdDev, err := closes.StandardDeviation()
	if err != nil {
		return contracts.SeriesSummary{}, fmt.Errorf("close std dev: %w", err)
	}
	minClose, err := closes.Min()
	if err != nil {
		return contracts.SeriesSummary{}, fmt.Errorf("min close: %w", err)
	}
	maxClose, err := closes.Max()
	if err != nil {
		return contracts.SeriesSummary{}, fmt.Errorf("max close: %w", err)
	}

	return contracts.SeriesSummary{
		From:      series.First().Date,
		To:        series.Last().Date,
		Points:    len(series),
		MeanClose: mean,
		StdDev:    stdDev,
		MinClose:  minClose,
		MaxClose:  maxClose,
	}, nil
}
