package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/dcalab/pkg/config"
	"github.com/wonny/dcalab/pkg/logger"
)

var (
	// Global flags
	env       string
	logFormat string
	verbose   bool

	// Loaded once per invocation by PersistentPreRunE
	cfg *config.Config
	log *logger.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dcalab",
	Short: "DCA backtest simulator and KPI risk scorer",
	Long: `dcalab CLI

세 가지 독립 계산기:
- DCA 백테스트: 6개 매수 타이밍 전략 비교 (Daily, Every Monday..Friday)
- Stock KPI 리스크 점수 (0~100)
- ETF KPI 리스크 점수 (0~100)

Usage:
  go run ./cmd/dcalab [command]

Examples:
  go run ./cmd/dcalab simulate --file prices.csv --budget 500
  go run ./cmd/dcalab score stocks --file stocks.csv
  go run ./cmd/dcalab rules
  go run ./cmd/dcalab api --port 8089`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production), default from ENV")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console|json), default from LOG_FORMAT")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}

// setup loads config and logger; flags override environment
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		loaded.Env = env
	}
	if logFormat != "" {
		loaded.LogFormat = logFormat
	}
	if verbose {
		loaded.LogLevel = "debug"
	}

	cfg = loaded
	log = logger.New(cfg)
	if w := cmd.ErrOrStderr(); w != os.Stderr {
		log = logger.NewWithWriter(cfg, w)
	}
	return nil
}
