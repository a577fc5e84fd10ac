package commands

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wonny/dcalab/internal/backtest"
	"github.com/wonny/dcalab/internal/contracts"
	"github.com/wonny/dcalab/internal/data"
	"github.com/wonny/dcalab/internal/report"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "DCA 전략 비교 백테스트",
	Long: `Date/Close 가격 CSV로 6개 DCA 전략을 같은 주간 예산으로 비교합니다.

전략:
- Daily: 주간 예산 / 5 를 매 거래일 매수 (거래일이 5일 미만이어도 /5 유지)
- Every Monday..Friday: 해당 요일 첫 거래일에 주간 예산 전액 매수 (휴장 시 건너뜀)

Flags:
  --file           가격 CSV (필수)
  --budget         주간 예산 (기본: DCA_WEEKLY_BUDGET)
  --date-format    dd/mm/yyyy | mm/dd/yyyy (기본: DCA_DATE_FORMAT)
  --trailing-days  마지막 날짜 기준 최근 N일만 사용 (0 = 전체)
  --xlsx           비교 결과 XLSX 저장 경로
  --json           레코드를 JSON으로 출력

Example:
  go run ./cmd/dcalab simulate --file prices.csv --budget 500
  go run ./cmd/dcalab simulate --file prices.csv --date-format mm/dd/yyyy --trailing-days 365 --xlsx dca.xlsx`,
	RunE: runSimulate,
}

var (
	simulateFile         string
	simulateBudget       string
	simulateDateFormat   string
	simulateTrailingDays int
	simulateXLSX         string
	simulateJSON         bool
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	// Flags
	simulateCmd.Flags().StringVar(&simulateFile, "file", "", "가격 CSV 경로 (필수)")
	simulateCmd.Flags().StringVar(&simulateBudget, "budget", "", "주간 예산 (기본: DCA_WEEKLY_BUDGET)")
	simulateCmd.Flags().StringVar(&simulateDateFormat, "date-format", "", "날짜 형식 dd/mm/yyyy | mm/dd/yyyy")
	simulateCmd.Flags().IntVar(&simulateTrailingDays, "trailing-days", -1, "최근 N일만 사용 (기본: DCA_TRAILING_DAYS)")
	simulateCmd.Flags().StringVar(&simulateXLSX, "xlsx", "", "XLSX 저장 경로")
	simulateCmd.Flags().BoolVar(&simulateJSON, "json", false, "JSON 레코드 출력")

	simulateCmd.MarkFlagRequired("file")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	budgetStr := simulateBudget
	if budgetStr == "" {
		budgetStr = cfg.DCA.WeeklyBudget
	}
	budget, err := decimal.NewFromString(budgetStr)
	if err != nil {
		return fmt.Errorf("%w: %q is not a decimal number", contracts.ErrInvalidBudget, budgetStr)
	}

	opts := data.PriceOptions{
		DateFormat:   cfg.DCA.DateFormat,
		TrailingDays: cfg.DCA.TrailingDays,
	}
	if simulateDateFormat != "" {
		opts.DateFormat = simulateDateFormat
	}
	if simulateTrailingDays >= 0 {
		opts.TrailingDays = simulateTrailingDays
	}

	f, err := openInput(simulateFile)
	if err != nil {
		return err
	}
	defer f.Close()

	series, err := data.LoadPrices(f, opts)
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"file":          simulateFile,
		"points":        len(series),
		"date_format":   opts.DateFormat,
		"trailing_days": opts.TrailingDays,
	}).Debug("Loaded price series")

	engine := backtest.NewEngine(log)
	results, err := engine.Compare(series, budget)
	if err != nil {
		return err
	}

	summary, err := data.Summarize(series)
	if err != nil {
		return err
	}

	var best *contracts.SimulationResult
	if b, ok := backtest.Best(results); ok {
		best = &b
	}

	if simulateJSON {
		records := make([]map[string]any, 0, len(results))
		for _, r := range results {
			records = append(records, r.Record())
		}
		if err := PrintJSON(out, map[string]interface{}{
			"summary": summary,
			"columns": contracts.SimulationColumns,
			"results": records,
		}); err != nil {
			return err
		}
	} else if err := report.WriteComparison(out, summary, results, best); err != nil {
		return err
	}

	if simulateXLSX != "" {
		err := writeFile(simulateXLSX, func(w io.Writer) error {
			return report.WriteComparisonXLSX(w, summary, results)
		})
		if err != nil {
			return err
		}
		PrintSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Saved %s", simulateXLSX))
	}

	return nil
}
