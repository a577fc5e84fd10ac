package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/dcalab/internal/report"
	"github.com/wonny/dcalab/internal/scoringconfig"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "리스크 점수 차원 테이블 출력",
	Long: `내장된 Stock/ETF 차원 테이블과 설정 해시를 출력합니다.

Example:
  go run ./cmd/dcalab rules
  go run ./cmd/dcalab rules --yaml`,
	RunE: runRules,
}

var rulesYAML bool

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().BoolVar(&rulesYAML, "yaml", false, "내장 YAML 원문 출력")
}

func runRules(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if rulesYAML {
		_, err := out.Write(scoringconfig.DefaultYAML())
		return err
	}

	tables := scoringconfig.Default()
	hash, err := scoringconfig.Hash(tables)
	if err != nil {
		return err
	}

	PrintKeyValue(out, "Version", tables.Version, 7)
	PrintKeyValue(out, "Hash", hash, 7)

	for _, section := range []struct {
		title    string
		universe scoringconfig.Universe
	}{
		{"Stock dimensions", scoringconfig.UniverseStock},
		{"ETF dimensions", scoringconfig.UniverseETF},
	} {
		dims, err := tables.Table(section.universe)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s\n", section.title)
		if err := report.RulesTable(dims).Render(out); err != nil {
			return err
		}
	}

	for _, w := range scoringconfig.Warn(tables) {
		PrintWarning(out, fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}

	return nil
}
