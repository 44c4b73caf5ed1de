package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"catalog-pricer/models"
)

// ReportWriter renders the Markdown pricing report.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a writer targeting path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// Path returns the report location.
func (rw *ReportWriter) Path() string {
	return rw.path
}

// Write renders the report to its file. chartPath is the chart actually written,
// empty when none could be produced.
func (rw *ReportWriter) Write(result *models.RunResult, summary *models.DataSummary, chartPath string) error {
	if dir := filepath.Dir(rw.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("report: create output dir: %w", err)
		}
	}

	f, err := os.Create(rw.path)
	if err != nil {
		return fmt.Errorf("report: create file %q: %w", rw.path, err)
	}

	w := bufio.NewWriter(f)
	RenderReport(w, result, summary, rw.chartLink(chartPath))
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("report: write: %w", err)
	}
	return f.Close()
}

// chartLink makes the chart path relative to the report's directory.
func (rw *ReportWriter) chartLink(chartPath string) string {
	if chartPath == "" {
		return ""
	}
	rel, err := filepath.Rel(filepath.Dir(rw.path), chartPath)
	if err != nil {
		return filepath.ToSlash(chartPath)
	}
	return filepath.ToSlash(rel)
}

// RenderReport writes the Markdown report to w.
func RenderReport(w io.Writer, result *models.RunResult, summary *models.DataSummary, chartLink string) {
	fmt.Fprint(w, "# Data Quality Issues\n")
	if len(result.Findings) == 0 && result.DroppedRows == 0 {
		fmt.Fprint(w, "- No major data quality issues detected.\n")
	}
	for _, f := range result.Findings {
		fmt.Fprintf(w, "- %s\n", f)
	}
	if result.DroppedRows > 0 {
		fmt.Fprintf(w, "- Dropped rows without product_name: %d\n", result.DroppedRows)
	}

	fmt.Fprint(w, "\n## Cleaned Data Summary\n")
	fmt.Fprint(w, "```\n")
	fmt.Fprint(w, RenderSummaryTable(summary))
	fmt.Fprint(w, "\n```\n")

	fmt.Fprint(w, "\n## External Data Integration (Best Buy)\n")
	fmt.Fprint(w, "Approximate market prices from Best Buy for each category:\n\n")
	for _, cat := range result.Prices.Categories() {
		p, _ := result.Prices.Get(cat)
		fmt.Fprintf(w, "- **%s**: $%.2f\n", cat, p)
	}

	fmt.Fprint(w, "\n## Insights\n")
	fmt.Fprintf(w, "- Overpriced items: %d\n", result.Counts[models.Overpriced])
	fmt.Fprintf(w, "- Underpriced items: %d\n", result.Counts[models.Underpriced])
	fmt.Fprintf(w, "- At Market: %d\n", result.Counts[models.AtMarket])
	fmt.Fprintf(w, "- No Data: %d\n", result.Counts[models.NoData])

	fmt.Fprint(w, "\n### Product-Level Recommendations\n")
	for _, r := range result.Records {
		fmt.Fprintf(w, "- **%s** (%s): %s\n", r.ProductName, r.CategoryLabel(), r.Recommendation)
	}

	fmt.Fprint(w, "\n## Visualization\n")
	if chartLink == "" {
		fmt.Fprint(w, "Price difference chart could not be generated.\n\n")
	} else {
		fmt.Fprint(w, "Price difference bar chart:\n\n")
		fmt.Fprintf(w, "![Price Difference Chart](%s)\n\n", chartLink)
	}

	fmt.Fprint(w, "\n## Future Recommendations\n")
	fmt.Fprint(w, "- Investigate significant price gaps.\n")
	fmt.Fprint(w, "- Use more specific queries for better Best Buy matching.\n")
	fmt.Fprint(w, "- Expand visualizations (e.g., categories, time series).\n")
}

var summaryRows = []string{"count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}

// RenderSummaryTable lays the summary out with one column per data column and
// one row per statistic, padded by display width.
func RenderSummaryTable(summary *models.DataSummary) string {
	if summary == nil || len(summary.Columns) == 0 {
		return "Empty dataset"
	}

	cells := make([][]string, len(summaryRows)+1)
	cells[0] = append([]string{""}, columnNames(summary)...)
	for i, stat := range summaryRows {
		row := []string{stat}
		for _, cs := range summary.Columns {
			row = append(row, statCell(cs, stat))
		}
		cells[i+1] = row
	}

	widths := make([]int, len(cells[0]))
	for _, row := range cells {
		for j, c := range row {
			if w := runewidth.StringWidth(c); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var b strings.Builder
	for i, row := range cells {
		for j, c := range row {
			if j == 0 {
				b.WriteString(runewidth.FillRight(c, widths[j]))
				continue
			}
			b.WriteString("  ")
			b.WriteString(runewidth.FillLeft(c, widths[j]))
		}
		if i < len(cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func columnNames(summary *models.DataSummary) []string {
	names := make([]string, len(summary.Columns))
	for i, cs := range summary.Columns {
		names[i] = runewidth.Truncate(cs.Name, 24, "...")
	}
	return names
}

func statCell(cs models.ColumnSummary, stat string) string {
	if stat == "count" {
		return strconv.Itoa(cs.Count)
	}
	if !cs.Numeric {
		if cs.Count == 0 {
			return "NaN"
		}
		switch stat {
		case "unique":
			return strconv.Itoa(cs.Unique)
		case "top":
			return runewidth.Truncate(cs.Top, 24, "...")
		case "freq":
			return strconv.Itoa(cs.Freq)
		}
		return "NaN"
	}

	var v *float64
	switch stat {
	case "mean":
		v = cs.Mean
	case "std":
		v = cs.Std
	case "min":
		v = cs.Min
	case "25%":
		v = cs.Q25
	case "50%":
		v = cs.Q50
	case "75%":
		v = cs.Q75
	case "max":
		v = cs.Max
	}
	if v == nil {
		return "NaN"
	}
	return strconv.FormatFloat(*v, 'g', 6, 64)
}
