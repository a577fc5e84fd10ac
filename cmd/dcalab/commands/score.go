package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/dcalab/internal/contracts"
	"github.com/wonny/dcalab/internal/data"
	"github.com/wonny/dcalab/internal/report"
	"github.com/wonny/dcalab/internal/risk"
	"github.com/wonny/dcalab/internal/scoringconfig"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:       "score <stocks|etfs>",
	Short:     "KPI 리스크 점수 (Stock / ETF)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"stocks", "etfs"},
	Long: `KPI CSV의 각 행을 5개 차원(차원당 20점)으로 평가해 0~100 점수와 등급을 매깁니다.

등급: 80↑ Low Risk, 60↑ Moderate, 40↑ Elevated, 그 외 High Risk
누락 KPI(#N/A, 빈 칸)는 0점 처리 (재정규화 없음)

Columns:
  stocks: Company, PE, EPS, Beta, MarketCap, High52, Low52, Price
  etfs:   ETF, Price, High52, Low52, VolumeAvg, ChangePct

Example:
  go run ./cmd/dcalab score stocks --file stocks.csv
  go run ./cmd/dcalab score etfs --file etfs.csv --xlsx etf_scores.xlsx`,
	RunE: runScore,
}

// scoreTitles are the report headings per universe
var scoreTitles = map[scoringconfig.Universe]string{
	scoringconfig.UniverseStock: "Stock Risk Scores",
	scoringconfig.UniverseETF:   "ETF Risk Scores",
}

var (
	// Flags
	scoreFile string
	scoreXLSX string
	scoreJSON bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	// Flags
	scoreCmd.Flags().StringVar(&scoreFile, "file", "", "KPI CSV 경로 (필수)")
	scoreCmd.Flags().StringVar(&scoreXLSX, "xlsx", "", "XLSX 저장 경로")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "JSON 레코드 출력")
}

func runScore(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	u, err := scoringconfig.ParseUniverse(args[0])
	if err != nil {
		return err
	}
	if scoreFile == "" {
		return fmt.Errorf("required flag \"file\" not set")
	}

	dims, err := scoringconfig.Default().Table(u)
	if err != nil {
		return err
	}

	f, err := openInput(scoreFile)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := data.LoadKPIs(u, f)
	if err != nil {
		return err
	}

	results := risk.NewEngine(log).ScoreAll(rows, dims)

	if scoreJSON {
		records := make([]map[string]any, 0, len(results))
		for _, r := range results {
			records = append(records, r.Record())
		}
		if err := PrintJSON(out, map[string]interface{}{
			"universe": u,
			"columns":  contracts.ScoreColumns(dims),
			"results":  records,
		}); err != nil {
			return err
		}
	} else if err := report.WriteScores(out, scoreTitles[u], dims, results); err != nil {
		return err
	}

	if scoreXLSX != "" {
		err := writeFile(scoreXLSX, func(w io.Writer) error {
			return report.WriteScoresXLSX(w, dims, results)
		})
		if err != nil {
			return err
		}
		PrintSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Saved %s", scoreXLSX))
	}

	return nil
}
