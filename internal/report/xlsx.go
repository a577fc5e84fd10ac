package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/dcalab/internal/contracts"
)

// Sheet names of the exported workbooks
const (
	SheetComparison = "Comparison"
	SheetTrajectory = "Trajectory"
	SheetSummary    = "Summary"
	SheetScores     = "Scores"
)

// xlsxStyles holds workbook style IDs
type xlsxStyles struct {
	Header   int
	Currency int
	Percent  int
	Number   int
}

func newXLSXStyles(fx *excelize.File) (xlsxStyles, error) {
	var styles xlsxStyles
	var err error

	// Header style - Dark slate background with white text
	styles.Header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.Currency, err = fx.NewStyle(&excelize.Style{NumFmt: 7}) // $#,##0.00
	if err != nil {
		return styles, err
	}

	// 값이 이미 ×100 이므로 % 서식 대신 0.00 사용
	styles.Percent, err = fx.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return styles, err
	}

	styles.Number, err = fx.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return styles, err
	}

	return styles, nil
}

// writeRow writes values starting at column A of row
func writeXLSXRow(fx *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// styleColumn applies a style to rows [from, to] of a 1-based column
func styleColumn(fx *excelize.File, sheet string, col, from, to, style int) error {
	if to < from {
		return nil
	}
	top, err := excelize.CoordinatesToCellName(col, from)
	if err != nil {
		return err
	}
	bottom, err := excelize.CoordinatesToCellName(col, to)
	if err != nil {
		return err
	}
	return fx.SetCellStyle(sheet, top, bottom, style)
}

func styleHeader(fx *excelize.File, sheet string, columns int, style int) error {
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return fx.SetColWidth(sheet, "A", lastCol, 16)
}

// WriteComparisonXLSX writes the comparison, per-day trajectories and the series summary
func WriteComparisonXLSX(w io.Writer, summary contracts.SeriesSummary, results []contracts.SimulationResult) error {
	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), SheetComparison); err != nil {
		return err
	}
	if _, err := fx.NewSheet(SheetTrajectory); err != nil {
		return err
	}
	if _, err := fx.NewSheet(SheetSummary); err != nil {
		return err
	}

	styles, err := newXLSXStyles(fx)
	if err != nil {
		return err
	}

	if err := writeComparisonSheet(fx, results, styles); err != nil {
		return err
	}
	if err := writeTrajectorySheet(fx, results, styles); err != nil {
		return err
	}
	if err := writeSummarySheet(fx, summary, styles); err != nil {
		return err
	}

	return fx.Write(w)
}

func writeComparisonSheet(fx *excelize.File, results []contracts.SimulationResult, styles xlsxStyles) error {
	cols := make([]interface{}, len(contracts.SimulationColumns))
	for i, c := range contracts.SimulationColumns {
		cols[i] = c
	}
	if err := writeXLSXRow(fx, SheetComparison, 1, cols...); err != nil {
		return err
	}

	for i, r := range results {
		rec := r.Record()
		values := make([]interface{}, len(contracts.SimulationColumns))
		for j, c := range contracts.SimulationColumns {
			values[j] = rec[c]
		}
		if err := writeXLSXRow(fx, SheetComparison, i+2, values...); err != nil {
			return err
		}
	}

	last := len(results) + 1
	for _, col := range []int{2, 4, 5} { // invested, final value, gain
		if err := styleColumn(fx, SheetComparison, col, 2, last, styles.Currency); err != nil {
			return err
		}
	}
	for _, col := range []int{6, 7} { // gain %, max drawdown %
		if err := styleColumn(fx, SheetComparison, col, 2, last, styles.Percent); err != nil {
			return err
		}
	}
	return styleHeader(fx, SheetComparison, len(contracts.SimulationColumns), styles.Header)
}

// writeTrajectorySheet: Date | <strategy> value ... | <strategy> invested ...
func writeTrajectorySheet(fx *excelize.File, results []contracts.SimulationResult, styles xlsxStyles) error {
	headers := []interface{}{"date"}
	for _, r := range results {
		headers = append(headers, string(r.Strategy)+" value")
	}
	for _, r := range results {
		headers = append(headers, string(r.Strategy)+" invested")
	}
	if err := writeXLSXRow(fx, SheetTrajectory, 1, headers...); err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	// 모든 전략이 같은 시계열을 공유하므로 날짜 축은 첫 결과 기준
	days := len(results[0].Trajectory)
	for d := 0; d < days; d++ {
		row := []interface{}{results[0].Trajectory[d].Date.Format("2006-01-02")}
		for _, r := range results {
			row = append(row, trajectoryValue(r, d, false))
		}
		for _, r := range results {
			row = append(row, trajectoryValue(r, d, true))
		}
		if err := writeXLSXRow(fx, SheetTrajectory, d+2, row...); err != nil {
			return err
		}
	}

	for col := 2; col <= len(headers); col++ {
		if err := styleColumn(fx, SheetTrajectory, col, 2, days+1, styles.Currency); err != nil {
			return err
		}
	}
	return styleHeader(fx, SheetTrajectory, len(headers), styles.Header)
}

func trajectoryValue(r contracts.SimulationResult, day int, invested bool) interface{} {
	if day >= len(r.Trajectory) {
		return nil
	}
	if invested {
		return r.Trajectory[day].Invested
	}
	return r.Trajectory[day].Value
}

func writeSummarySheet(fx *excelize.File, s contracts.SeriesSummary, styles xlsxStyles) error {
	rows := [][]interface{}{
		{"field", "value"},
		{"from", s.From.Format("2006-01-02")},
		{"to", s.To.Format("2006-01-02")},
		{"points", s.Points},
		{"mean_close", s.MeanClose},
		{"std_dev", s.StdDev},
		{"min_close", s.MinClose},
		{"max_close", s.MaxClose},
	}
	for i, row := range rows {
		if err := writeXLSXRow(fx, SheetSummary, i+1, row...); err != nil {
			return err
		}
	}
	if err := styleColumn(fx, SheetSummary, 2, 5, 8, styles.Number); err != nil {
		return err
	}
	return styleHeader(fx, SheetSummary, 2, styles.Header)
}

// WriteScoresXLSX writes ranked score records; unscored dimensions stay blank
func WriteScoresXLSX(w io.Writer, dimensions []contracts.DimensionRule, results []contracts.ScoreResult) error {
	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), SheetScores); err != nil {
		return err
	}

	styles, err := newXLSXStyles(fx)
	if err != nil {
		return err
	}

	columns := contracts.ScoreColumns(dimensions)
	headers := make([]interface{}, len(columns))
	for i, c := range columns {
		headers[i] = c
	}
	if err := writeXLSXRow(fx, SheetScores, 1, headers...); err != nil {
		return err
	}

	for i, r := range results {
		rec := r.Record()
		values := make([]interface{}, len(columns))
		for j, c := range columns {
			values[j] = rec[c]
		}
		if err := writeXLSXRow(fx, SheetScores, i+2, values...); err != nil {
			return err
		}
	}

	if err := styleHeader(fx, SheetScores, len(columns), styles.Header); err != nil {
		return err
	}
	return fx.Write(w)
}
