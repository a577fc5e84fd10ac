package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/dcalab/internal/contracts"
	"github.com/wonny/dcalab/internal/report"
)

// resetFlags restores flag variables between Execute calls
func resetFlags() {
	env, logFormat, verbose = "", "", false
	simulateFile, simulateBudget, simulateDateFormat = "", "", ""
	simulateTrailingDays, simulateXLSX, simulateJSON = -1, "", false
	scoreFile, scoreXLSX, scoreJSON = "", "", false
	rulesYAML = false
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const pricesCSV = "Date,Close\n01/01/2024,100\n02/01/2024,102\n03/01/2024,98\n"

func TestSimulate_Table(t *testing.T) {
	path := writeCSV(t, "prices.csv", pricesCSV)

	out, err := run(t, "simulate", "--file", path, "--budget", "500", "--date-format", "dd/mm/yyyy")
	require.NoError(t, err)

	assert.Contains(t, out, "DCA Strategy Comparison")
	assert.Contains(t, out, "2024-01-01 ~ 2024-01-03")
	for _, s := range contracts.Strategies {
		assert.Contains(t, out, string(s))
	}
	assert.Contains(t, out, "$300.00")
	assert.Contains(t, out, "Every Thursday: no buy days")
}

func TestSimulate_JSONAndXLSX(t *testing.T) {
	path := writeCSV(t, "prices.csv", pricesCSV)
	xlsx := filepath.Join(t.TempDir(), "dca.xlsx")

	out, err := run(t, "simulate", "--file", path, "--budget", "500", "--json", "--xlsx", xlsx)
	require.NoError(t, err)

	var body struct {
		Columns []string                 `json:"columns"`
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, contracts.SimulationColumns, body.Columns)
	require.Len(t, body.Results, 6)
	assert.Equal(t, 300.0, body.Results[0]["total_invested"])
	assert.InDelta(t, 3.0008, body.Results[0]["shares_held"], 1e-4)

	fx, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer fx.Close()
	assert.Contains(t, fx.GetSheetList(), report.SheetComparison)
}

func TestSimulate_Errors(t *testing.T) {
	path := writeCSV(t, "prices.csv", pricesCSV)

	_, err := run(t, "simulate", "--file", path, "--budget", "abc")
	assert.True(t, errors.Is(err, contracts.ErrInvalidBudget))

	_, err = run(t, "simulate", "--file", path, "--budget=-5")
	assert.True(t, errors.Is(err, contracts.ErrInvalidBudget))

	_, err = run(t, "simulate", "--file", path, "--date-format", "mm/dd/yyyy", "--budget", "500")
	require.NoError(t, err, "01/01, 02/01, 03/01 are valid month-first dates too")

	bad := writeCSV(t, "bad.csv", "Date,Close\n13/13/2024,100\n")
	_, err = run(t, "simulate", "--file", bad, "--budget", "500")
	assert.True(t, errors.Is(err, contracts.ErrParse))

	_, err = run(t, "simulate", "--file", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestScoreStocks(t *testing.T) {
	path := writeCSV(t, "stocks.csv", "Company,PE,EPS,Beta,MarketCap,High52,Low52,Price\n"+
		"Ghost,#N/A,#N/A,#N/A,#N/A,#N/A,#N/A,#N/A\n"+
		"Acme,15,8,0.3,300B,200,100,190\n")

	out, err := run(t, "score", "stocks", "--file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Stock Risk Scores")
	assert.Contains(t, out, "Low Risk")
	assert.Less(t, bytes.Index([]byte(out), []byte("Acme")), bytes.Index([]byte(out), []byte("Ghost")))
}

func TestScoreETFs_JSON(t *testing.T) {
	path := writeCSV(t, "etfs.csv", "ETF,Price,High52,Low52,VolumeAvg,ChangePct\nFLAT,100,100,100,20M,-0.2\n")
	xlsx := filepath.Join(t.TempDir(), "etf.xlsx")

	out, err := run(t, "score", "etfs", "--file", path, "--json", "--xlsx", xlsx)
	require.NoError(t, err)

	var body struct {
		Universe string                   `json:"universe"`
		Results  []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "etf", body.Universe)
	require.Len(t, body.Results, 1)
	assert.Nil(t, body.Results[0]["PriceStrength"])
	assert.InDelta(t, 70.0, body.Results[0]["total_score"], 1e-9)

	_, err = os.Stat(xlsx)
	assert.NoError(t, err)
}

func TestScore_RequiresFile(t *testing.T) {
	_, err := run(t, "score", "stocks")
	assert.Error(t, err)
}

func TestScore_Universe(t *testing.T) {
	path := writeCSV(t, "etfs.csv", "ETF,Price,High52,Low52,VolumeAvg,ChangePct\nFLAT,100,100,100,20M,-0.2\n")

	out, err := run(t, "score", "etf", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ETF Risk Scores")

	_, err = run(t, "score", "bonds", "--file", path)
	assert.ErrorContains(t, err, "unknown universe")

	_, err = run(t, "score", "--file", path)
	assert.Error(t, err)
}

func TestScore_MissingKPIColumn(t *testing.T) {
	path := writeCSV(t, "stocks.csv", "Company,PE,EPS\nAcme,15,8\n")

	_, err := run(t, "score", "stocks", "--file", path)
	assert.True(t, errors.Is(err, contracts.ErrParse))
}

func TestRules(t *testing.T) {
	out, err := run(t, "rules")
	require.NoError(t, err)

	assert.Contains(t, out, "Stock dimensions")
	assert.Contains(t, out, "ETF dimensions")
	assert.Contains(t, out, "Valuation")
	assert.Contains(t, out, "RangeTightness")

	out, err = run(t, "rules", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: range_position")
}
