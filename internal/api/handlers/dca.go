package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/wonny/dcalab/internal/backtest"
	"github.com/wonny/dcalab/internal/contracts"
	"github.com/wonny/dcalab/internal/data"
	"github.com/wonny/dcalab/pkg/config"
	"github.com/wonny/dcalab/pkg/logger"
)

// DCAHandler handles DCA comparison endpoints
// ⭐ SSOT: DCA API 핸들러는 이 구조체에서만
type DCAHandler struct {
	engine *backtest.Engine
	config *config.Config
	logger *logger.Logger
}

// NewDCAHandler creates a new DCA handler
func NewDCAHandler(engine *backtest.Engine, cfg *config.Config, log *logger.Logger) *DCAHandler {
	return &DCAHandler{
		engine: engine,
		config: cfg,
		logger: log,
	}
}

// CompareResponse is the body of POST /api/dca/compare
type CompareResponse struct {
	WeeklyBudget string                                        `json:"weekly_budget"`
	DateFormat   string                                        `json:"date_format"`
	TrailingDays int                                           `json:"trailing_days"`
	Summary      contracts.SeriesSummary                       `json:"summary"`
	Columns      []string                                      `json:"columns"`
	Results      []map[string]any                              `json:"results"`
	BestStrategy contracts.Strategy                            `json:"best_strategy"`
	NoBuyDays    []contracts.Strategy                          `json:"no_buy_days,omitempty"`
	Trajectories map[contracts.Strategy][]contracts.ValuePoint `json:"trajectories,omitempty"`
}

// Compare runs every strategy over an uploaded price CSV
// POST /api/dca/compare?budget=500&date_format=dd/mm/yyyy&trailing_days=365&trajectory=true
func (h *DCAHandler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	budgetStr := q.Get("budget")
	if budgetStr == "" {
		budgetStr = h.config.DCA.WeeklyBudget
	}
	budget, err := decimal.NewFromString(budgetStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "budget must be a decimal number")
		return
	}

	dateFormat := q.Get("date_format")
	if dateFormat == "" {
		dateFormat = h.config.DCA.DateFormat
	}

	trailingDays := h.config.DCA.TrailingDays
	if s := q.Get("trailing_days"); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil || d < 0 {
			respondError(w, http.StatusBadRequest, "trailing_days must be a non-negative integer")
			return
		}
		trailingDays = d
	}

	raw, err := readUpload(w, r, h.config.API.MaxUploadBytes)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read price upload")
		respondDomainError(w, err)
		return
	}

	series, err := data.LoadPrices(bytes.NewReader(raw), data.PriceOptions{
		DateFormat:   dateFormat,
		TrailingDays: trailingDays,
	})
	if err != nil {
		h.logger.WithError(err).Warn("Rejected price upload")
		respondDomainError(w, err)
		return
	}

	results, err := h.engine.Compare(series, budget)
	if err != nil {
		h.logger.WithError(err).Warn("Simulation rejected")
		respondDomainError(w, err)
		return
	}

	summary, err := data.Summarize(series)
	if err != nil {
		h.logger.WithError(err).Error("Failed to summarize series")
		respondDomainError(w, err)
		return
	}

	resp := CompareResponse{
		WeeklyBudget: budget.String(),
		DateFormat:   dateFormat,
		TrailingDays: trailingDays,
		Summary:      summary,
		Columns:      contracts.SimulationColumns,
		Results:      make([]map[string]any, 0, len(results)),
	}
	includeTrajectory, _ := strconv.ParseBool(q.Get("trajectory"))
	if includeTrajectory {
		resp.Trajectories = make(map[contracts.Strategy][]contracts.ValuePoint, len(results))
	}

	for _, res := range results {
		resp.Results = append(resp.Results, res.Record())
		if res.BuyCount == 0 {
			resp.NoBuyDays = append(resp.NoBuyDays, res.Strategy)
		}
		if includeTrajectory {
			resp.Trajectories[res.Strategy] = res.Trajectory
		}
	}
	if best, ok := backtest.Best(results); ok {
		resp.BestStrategy = best.Strategy
	}

	respondJSON(w, http.StatusOK, resp)
}
