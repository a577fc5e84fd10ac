package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/dcalab/internal/api"
	"github.com/wonny/dcalab/internal/api/handlers"
	"github.com/wonny/dcalab/internal/backtest"
	"github.com/wonny/dcalab/internal/risk"
	"github.com/wonny/dcalab/internal/scoringconfig"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health               - Health check
  GET  /api/risk/dimensions  - 차원 테이블 + 해시
  POST /api/dca/compare      - 가격 CSV 업로드 → 6개 전략 비교
  POST /api/risk/stocks      - Stock KPI CSV 업로드 → 점수
  POST /api/risk/etfs        - ETF KPI CSV 업로드 → 점수

Example:
  go run ./cmd/dcalab api
  go run ./cmd/dcalab api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 1. Engines (순수 계산기)
	dcaEngine := backtest.NewEngine(log)
	riskEngine := risk.NewEngine(log)

	// 2. Handlers
	dcaHandler := handlers.NewDCAHandler(dcaEngine, cfg, log)
	riskHandler, err := handlers.NewRiskHandler(riskEngine, scoringconfig.Default(), cfg, log)
	if err != nil {
		return fmt.Errorf("create risk handler: %w", err)
	}

	// 3. Router + server
	router := api.NewRouter(dcaHandler, riskHandler, cfg, log)
	server := api.New(cfg, log, router)

	// 4. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	PrintSuccess(out, fmt.Sprintf("Server running on http://localhost:%s", cfg.Port))
	PrintInfo(out, "Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
