package handlers

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/dcalab/internal/contracts"
	"github.com/wonny/dcalab/internal/data"
	"github.com/wonny/dcalab/internal/risk"
	"github.com/wonny/dcalab/internal/scoringconfig"
	"github.com/wonny/dcalab/pkg/config"
	"github.com/wonny/dcalab/pkg/logger"
)

// RiskHandler handles KPI risk scoring endpoints
type RiskHandler struct {
	engine *risk.Engine
	tables *scoringconfig.Tables
	hash   string
	config *config.Config
	logger *logger.Logger
}

// NewRiskHandler creates a new risk handler; tables are read-only afterwards
func NewRiskHandler(engine *risk.Engine, tables *scoringconfig.Tables, cfg *config.Config, log *logger.Logger) (*RiskHandler, error) {
	hash, err := scoringconfig.Hash(tables)
	if err != nil {
		return nil, err
	}
	return &RiskHandler{
		engine: engine,
		tables: tables,
		hash:   hash,
		config: cfg,
		logger: log,
	}, nil
}

// DimensionsResponse is the body of GET /api/risk/dimensions
type DimensionsResponse struct {
	Version string                    `json:"version"`
	Hash    string                    `json:"hash"`
	Stock   []contracts.DimensionRule `json:"stock"`
	ETF     []contracts.DimensionRule `json:"etf"`
}

// ScoreResponse is the body of POST /api/risk/{universe}
type ScoreResponse struct {
	Universe   scoringconfig.Universe  `json:"universe"`
	ConfigHash string                  `json:"config_hash"`
	Columns    []string                `json:"columns"`
	Results    []map[string]any        `json:"results"`
	Details    []contracts.ScoreResult `json:"details"`
}

// Dimensions returns both dimension tables
// GET /api/risk/dimensions
func (h *RiskHandler) Dimensions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DimensionsResponse{
		Version: h.tables.Version,
		Hash:    h.hash,
		Stock:   h.tables.Stock,
		ETF:     h.tables.ETF,
	})
}

// Score scores an uploaded KPI CSV of the universe in the path
// POST /api/risk/{universe}  (stocks | etfs)
func (h *RiskHandler) Score(w http.ResponseWriter, r *http.Request) {
	u, err := scoringconfig.ParseUniverse(mux.Vars(r)["universe"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	raw, err := readUpload(w, r, h.config.API.MaxUploadBytes)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read KPI upload")
		respondDomainError(w, err)
		return
	}

	rows, err := data.LoadKPIs(u, bytes.NewReader(raw))
	if err != nil {
		h.logger.WithError(err).WithField("universe", string(u)).Warn("Rejected KPI upload")
		respondDomainError(w, err)
		return
	}

	dims, err := h.tables.Table(u)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	results := h.engine.ScoreAll(rows, dims)

	resp := ScoreResponse{
		Universe:   u,
		ConfigHash: h.hash,
		Columns:    contracts.ScoreColumns(dims),
		Results:    make([]map[string]any, 0, len(results)),
		Details:    results,
	}
	for _, res := range results {
		resp.Results = append(resp.Results, res.Record())
	}

	respondJSON(w, http.StatusOK, resp)
}
