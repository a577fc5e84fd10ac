package data

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/wonny/dcalab/internal/contracts"
	"github.com/wonny/dcalab/internal/scoringconfig"
)

// Identifier columns of the KPI CSVs
const (
	ColumnCompany = "Company"
	ColumnETF     = "ETF"
)

// stockRow is one line of the Stock KPI CSV
type stockRow struct {
	Company   string             `csv:"Company"`
	PE        contracts.Optional `csv:"PE"`
	EPS       contracts.Optional `csv:"EPS"`
	Beta      contracts.Optional `csv:"Beta"`
	MarketCap contracts.Optional `csv:"MarketCap"`
	High52    contracts.Optional `csv:"High52"`
	Low52     contracts.Optional `csv:"Low52"`
	Price     contracts.Optional `csv:"Price"`
}

func (r stockRow) kpiRow() contracts.KPIRow {
	return contracts.KPIRow{
		Identifier: strings.TrimSpace(r.Company),
		Values: map[string]contracts.Optional{
			contracts.KPIPE:        r.PE,
			contracts.KPIEPS:       r.EPS,
			contracts.KPIBeta:      r.Beta,
			contracts.KPIMarketCap: r.MarketCap,
			contracts.KPIHigh52:    r.High52,
			contracts.KPILow52:     r.Low52,
			contracts.KPIPrice:     r.Price,
		},
	}
}

// etfRow is one line of the ETF KPI CSV
type etfRow struct {
	ETF       string             `csv:"ETF"`
	Price     contracts.Optional `csv:"Price"`
	High52    contracts.Optional `csv:"High52"`
	Low52     contracts.Optional `csv:"Low52"`
	VolumeAvg contracts.Optional `csv:"VolumeAvg"`
	ChangePct contracts.Optional `csv:"ChangePct"`
}

func (r etfRow) kpiRow() contracts.KPIRow {
	return contracts.KPIRow{
		Identifier: strings.TrimSpace(r.ETF),
		Values: map[string]contracts.Optional{
			contracts.KPIPrice:     r.Price,
			contracts.KPIHigh52:    r.High52,
			contracts.KPILow52:     r.Low52,
			contracts.KPIVolumeAvg: r.VolumeAvg,
			contracts.KPIChangePct: r.ChangePct,
		},
	}
}

// LoadStockKPIs reads the Stock KPI CSV.
// Missing cells (#N/A, empty) become missing KPI values, not errors.
func LoadStockKPIs(r io.Reader) ([]contracts.KPIRow, error) {
	var rows []stockRow
	if err := unmarshalKPIs(r, &rows); err != nil {
		return nil, err
	}

	out := make([]contracts.KPIRow, 0, len(rows))
	for i, row := range rows {
		kr := row.kpiRow()
		if kr.Identifier == "" {
			return nil, &contracts.ParseError{Row: i + 1, Column: ColumnCompany, Err: errors.New("empty identifier")}
		}
		out = append(out, kr)
	}
	return out, nil
}

// LoadETFKPIs reads the ETF KPI CSV
func LoadETFKPIs(r io.Reader) ([]contracts.KPIRow, error) {
	var rows []etfRow
	if err := unmarshalKPIs(r, &rows); err != nil {
		return nil, err
	}

	out := make([]contracts.KPIRow, 0, len(rows))
	for i, row := range rows {
		kr := row.kpiRow()
		if kr.Identifier == "" {
			return nil, &contracts.ParseError{Row: i + 1, Column: ColumnETF, Err: errors.New("empty identifier")}
		}
		out = append(out, kr)
	}
	return out, nil
}

// unmarshalKPIs decodes with gocsv after canonicalising the header.
// Every csv column of the row struct must be present; extra columns are ignored.
func unmarshalKPIs(r io.Reader, out interface{}) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return &contracts.ParseError{Err: err}
	}
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return csvParseError(err, nil, nil)
	}
	if len(records) == 0 {
		return &contracts.ParseError{Err: errors.New("empty file")}
	}

	header, err := canonicalHeader(records[0], csvColumns(out))
	if err != nil {
		return err
	}
	records[0] = header

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return &contracts.ParseError{Err: err}
	}

	if err := gocsv.UnmarshalBytes(buf.Bytes(), out); err != nil {
		return csvParseError(err, header, records)
	}
	return nil
}

// csvParseError maps a *csv.ParseError (line numbers count the header) to a row/column ParseError
func csvParseError(err error, header []string, records [][]string) error {
	pe := &contracts.ParseError{Err: err}
	var csvErr *csv.ParseError
	if !errors.As(err, &csvErr) {
		return pe
	}

	pe.Row = csvErr.Line - 1
	pe.Err = csvErr.Err
	col := csvErr.Column - 1
	if col >= 0 && col < len(header) {
		pe.Column = header[col]
	}
	if line := csvErr.Line - 1; line > 0 && line < len(records) && col >= 0 && col < len(records[line]) {
		pe.Value = records[line][col]
	}
	return pe
}

// canonicalHeader renames header cells to their struct tag, ignoring case, spaces and a BOM.
// The first required column absent from the header is reported.
func canonicalHeader(header, required []string) ([]string, error) {
	canonical := make(map[string]string, len(required))
	for _, name := range required {
		canonical[normalizeColumn(name)] = name
	}

	out := make([]string, len(header))
	seen := make(map[string]bool, len(required))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
		if name, ok := canonical[normalizeColumn(h)]; ok && !seen[name] {
			out[i] = name
			seen[name] = true
		}
	}

	for _, name := range required {
		if !seen[name] {
			return nil, &contracts.ParseError{Column: name, Err: errors.New("column not found")}
		}
	}
	return out, nil
}

func normalizeColumn(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

// csvColumns lists the csv tags of the element type of a *[]T in field order
func csvColumns(out interface{}) []string {
	t := reflect.TypeOf(out)
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
		t = t.Elem()
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("csv"), ",")[0]
		if tag != "" && tag != "-" {
			cols = append(cols, tag)
		}
	}
	return cols
}

// LoadKPIs reads the KPI CSV of a universe
func LoadKPIs(u scoringconfig.Universe, r io.Reader) ([]contracts.KPIRow, error) {
	switch u {
	case scoringconfig.UniverseStock:
		return LoadStockKPIs(r)
	case scoringconfig.UniverseETF:
		return LoadETFKPIs(r)
	default:
		return nil, fmt.Errorf("unknown universe %q", u)
	}
}
