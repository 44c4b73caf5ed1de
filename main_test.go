package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-pricer/chart"
	"catalog-pricer/config"
	"catalog-pricer/models"
	"catalog-pricer/pricing"
	"catalog-pricer/services"
	"catalog-pricer/storage"
	"catalog-pricer/utils"
)

const sampleCSV = `product_name,our_price,category,current_stock,restock_threshold,expiration_date,brand
Cordless Drill,$10.50,Tools,5,2,,Makita
Garden Hose,$25,garden,-3,1,2025-01-01,Flexi
,9.99,Tools,1,1,,
Mystery Box,abc,,2,1,,
`

func testApp(t *testing.T) (*app, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Output.Report = filepath.Join(dir, "report.md")
	cfg.Output.Chart = filepath.Join(dir, "price_difference_chart.png")
	cfg.Output.CleanedCSV = filepath.Join(dir, "cleaned.csv")

	logger := utils.Discard()
	return &app{
		cfg:      cfg,
		logger:   logger,
		renderer: chart.NewRenderer(nil, logger),
		insights: services.NewInsightService(logger),

		newWriter: newCSVRecordWriter,
	}, dir
}

func TestRunWritesReportAndChart(t *testing.T) {
	a, dir := testApp(t)
	input := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0o644))

	var out bytes.Buffer
	require.NoError(t, a.run(context.Background(), input, &out))

	chartPath := filepath.Join(dir, "price_difference_chart.svg")
	assert.Contains(t, out.String(), "Generated "+a.cfg.Output.Report+" and "+chartPath)
	assert.FileExists(t, chartPath)
	assert.FileExists(t, a.cfg.Output.CleanedCSV)

	report, err := os.ReadFile(a.cfg.Output.Report)
	require.NoError(t, err)
	text := string(report)

	assert.Contains(t, text, "- Dropped rows without product_name: 1\n")
	assert.Contains(t, text, "- **Tools**: $10.00\n")
	assert.Contains(t, text, "- **Garden**: $10.00\n")
	assert.Contains(t, text, "- **Cordless Drill** (Tools): At Market\n")
	assert.Contains(t, text, "- **Garden Hose** (Garden): Overpriced\n")
	assert.Contains(t, text, "- **Mystery Box** (uncategorized): No Data\n")
	assert.Contains(t, text, "![Price Difference Chart](price_difference_chart.svg)")
}

func TestRunMissingFile(t *testing.T) {
	a, dir := testApp(t)
	missing := filepath.Join(dir, "nope.csv")

	err := a.run(context.Background(), missing, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "Error: File not found at path "+missing, err.Error())
	assert.NoFileExists(t, a.cfg.Output.Report)
}

func TestRunUnparseableFile(t *testing.T) {
	a, dir := testApp(t)
	input := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(input, []byte("a,b\n1,2,3\n"), 0o644))

	err := a.run(context.Background(), input, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Error reading CSV: "))
}

func TestRootCmdRequiresPath(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.ErrorIs(t, err, errUsage)
	assert.Equal(t, "Usage: catalog-pricer <path_to_csv>", err.Error())
}

// A nameless row with a price and category would get a bar and an Overpriced
// verdict if it leaked past cleaning.
const namelessCSV = `product_name,our_price,category
Cordless Drill,$10.50,Tools
   ,$99,Tools
Garden Hose,$25,garden
,$80,Garden
`

func TestNamelessRowsAbsentDownstream(t *testing.T) {
	a, dir := testApp(t)
	input := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(input, []byte(namelessCSV), 0o644))

	pipeline := services.NewPipeline(storage.ReadTable,
		pricing.NewResolver(nil, a.logger, pricing.Options{}), a.logger)
	result, err := pipeline.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 2, result.DroppedRows)
	assert.Equal(t, []chart.Bar{
		{Label: "Cordless Drill", Value: 0.5},
		{Label: "Garden Hose", Value: 15},
	}, chart.Bars(result.Records))

	require.NoError(t, a.run(context.Background(), input, &bytes.Buffer{}))

	f, err := os.Open(a.cfg.Output.CleanedCSV)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	var names, prices []string
	for _, row := range rows[1:] {
		names = append(names, row[0])
		prices = append(prices, row[1])
	}
	assert.Equal(t, []string{"Cordless Drill", "Garden Hose"}, names)
	assert.Equal(t, []string{"10.5", "25"}, prices)

	svg, err := os.ReadFile(filepath.Join(dir, "price_difference_chart.svg"))
	require.NoError(t, err)
	assert.NotContains(t, string(svg), "89.00")
	assert.NotContains(t, string(svg), "70.00")

	report, err := os.ReadFile(a.cfg.Output.Report)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(report), ": Overpriced\n")+strings.Count(string(report), ": At Market\n"))
	assert.Contains(t, string(report), "- Dropped rows without product_name: 2\n")
}

type failingWriter struct{ closeErr error }

func (w *failingWriter) Write([]*models.PricedRecord) error { return nil }
func (w *failingWriter) Close() error                       { return w.closeErr }

func TestExportCSVLogsCloseError(t *testing.T) {
	a, _ := testApp(t)
	var stdout, stderr bytes.Buffer
	a.logger = utils.NewLoggerTo(&stdout, &stderr, utils.LevelInfo)
	a.newWriter = func(string, []string) (storage.RecordWriter, error) {
		return &failingWriter{closeErr: errors.New("disk full")}, nil
	}

	a.exportCSV(&models.RunResult{})

	assert.Contains(t, stderr.String(), "Cleaned CSV export failed: disk full")
	assert.NotContains(t, stdout.String(), "Cleaned records saved")
}
