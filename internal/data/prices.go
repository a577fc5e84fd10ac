package data

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/wonny/dcalab/internal/contracts"
	"github.com/wonny/dcalab/pkg/config"
)

// Column names of the price CSV (matched case-insensitively)
const (
	ColumnDate  = "Date"
	ColumnClose = "Close"
)

// PriceOptions controls how a price CSV is read
type PriceOptions struct {
	DateFormat   string // config.DateFormatDayFirst | config.DateFormatMonthFirst
	TrailingDays int    // keep points within N days of the last date, 0 = all
}

var dayFirstLayouts = []string{"2/1/2006 15:04:05", "2/1/2006 15:04", "2/1/2006"}
var monthFirstLayouts = []string{"1/2/2006 15:04:05", "1/2/2006 15:04", "1/2/2006"}

// ISO dates are unambiguous and accepted under either format
var isoLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00", "2006-01-02"}

// dateLayouts returns the layouts tried for a date format
func dateLayouts(format string) ([]string, error) {
	switch format {
	case config.DateFormatDayFirst, "":
		return append(append([]string{}, dayFirstLayouts...), isoLayouts...), nil
	case config.DateFormatMonthFirst:
		return append(append([]string{}, monthFirstLayouts...), isoLayouts...), nil
	default:
		return nil, fmt.Errorf("unsupported date format %q", format)
	}
}

type rawPoint struct {
	row   int
	point contracts.PricePoint
	date  string
}

// LoadPrices parses a Date/Close CSV into a sorted series.
// A malformed row aborts the whole load with a *contracts.ParseError.
func LoadPrices(r io.Reader, opts PriceOptions) (contracts.PriceSeries, error) {
	layouts, err := dateLayouts(opts.DateFormat)
	if err != nil {
		return nil, &contracts.ParseError{Column: ColumnDate, Err: err}
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &contracts.ParseError{Err: err}
	}

	// 헤더는 데이터 행이 없어도 검사
	header, err := csv.NewReader(bytes.NewReader(raw)).Read()
	if errors.Is(err, io.EOF) {
		return nil, &contracts.ParseError{Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &contracts.ParseError{Err: fmt.Errorf("read header: %w", err)}
	}
	dateKey, closeKey, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	rows, err := gocsv.CSVToMaps(bytes.NewReader(raw))
	if err != nil {
		return nil, &contracts.ParseError{Err: err}
	}
	if len(rows) == 0 {
		return contracts.PriceSeries{}, nil
	}

	points := make([]rawPoint, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1
		closeRaw := strings.TrimSpace(row[closeKey])
		if closeRaw == "" {
			// 종가 없는 행은 건너뜀 (휴장일 export)
			continue
		}

		dateRaw := strings.TrimSpace(row[dateKey])
		date, err := parseDate(dateRaw, layouts)
		if err != nil {
			return nil, &contracts.ParseError{Row: rowNum, Column: ColumnDate, Value: dateRaw, Err: err}
		}

		closePrice, err := parseClose(closeRaw)
		if err != nil {
			return nil, &contracts.ParseError{Row: rowNum, Column: ColumnClose, Value: closeRaw, Err: err}
		}

		points = append(points, rawPoint{
			row:   rowNum,
			date:  dateRaw,
			point: contracts.PricePoint{Date: date, Close: closePrice},
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].point.Date.Before(points[j].point.Date)
	})

	series := make(contracts.PriceSeries, len(points))
	for i, p := range points {
		if i > 0 && p.point.Date.Equal(points[i-1].point.Date) {
			return nil, &contracts.ParseError{
				Row:    p.row,
				Column: ColumnDate,
				Value:  p.date,
				Err:    fmt.Errorf("duplicate date (also on row %d)", points[i-1].row),
			}
		}
		series[i] = p.point
	}

	if opts.TrailingDays > 0 && len(series) > 0 {
		cutoff := series.Last().Date.AddDate(0, 0, -opts.TrailingDays)
		series = series.Since(cutoff)
	}

	return series, nil
}

// resolveColumns finds the Date and Close headers ignoring case, spaces and a UTF-8 BOM
func resolveColumns(header []string) (dateKey, closeKey string, err error) {
	for _, key := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(key, "\ufeff"))) {
		case "date":
			dateKey = key
		case "close":
			closeKey = key
		}
	}

	if dateKey == "" {
		return "", "", &contracts.ParseError{Column: ColumnDate, Err: fmt.Errorf("column not found")}
	}
	if closeKey == "" {
		return "", "", &contracts.ParseError{Column: ColumnClose, Err: fmt.Errorf("column not found")}
	}
	return dateKey, closeKey, nil
}

func parseDate(raw string, layouts []string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("does not match the selected date format")
}

func parseClose(raw string) (float64, error) {
	d, err := decimal.NewFromString(strings.NewReplacer("$", "", ",", "").Replace(raw))
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("close must be > 0")
	}
	return d.InexactFloat64(), nil
}
