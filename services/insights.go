package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"catalog-pricer/models"
	"catalog-pricer/utils"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C678DD"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E5C07B"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	goodStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#98C379"))
	badStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E06C75"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// PriceGap is one product with its price difference, for ranking.
type PriceGap struct {
	ProductName string
	Category    string
	Diff        float64
}

// Insights are the headline numbers printed after a run.
type Insights struct {
	TotalRows   int
	KeptRows    int
	DroppedRows int
	Counts      map[models.Recommendation]int
	Categories  int
	// Largest gaps in each direction, at most five each.
	MostOverpriced  []PriceGap
	MostUnderpriced []PriceGap
}

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate derives the console insights from a run.
func (s *InsightService) Generate(result *models.RunResult) *Insights {
	in := &Insights{
		TotalRows:   result.TotalRows,
		KeptRows:    len(result.Records),
		DroppedRows: result.DroppedRows,
		Counts:      make(map[models.Recommendation]int),
		Categories:  result.Prices.Len(),
	}

	var gaps []PriceGap
	for _, r := range result.Records {
		in.Counts[r.Recommendation]++
		if r.PriceDiff != nil {
			gaps = append(gaps, PriceGap{ProductName: r.ProductName, Category: r.CategoryLabel(), Diff: *r.PriceDiff})
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Diff > gaps[j].Diff })
	for _, g := range gaps {
		if g.Diff <= PriceTolerance || len(in.MostOverpriced) == 5 {
			break
		}
		in.MostOverpriced = append(in.MostOverpriced, g)
	}
	for i := len(gaps) - 1; i >= 0; i-- {
		if gaps[i].Diff >= -PriceTolerance || len(in.MostUnderpriced) == 5 {
			break
		}
		in.MostUnderpriced = append(in.MostUnderpriced, gaps[i])
	}

	s.logger.Debug("[insights] %d gaps ranked", len(gaps))
	return in
}

// Print writes the insights to w.
func (s *InsightService) Print(w io.Writer, in *Insights) {
	sep := strings.Repeat("═", 54)
	thin := subtleStyle.Render(strings.Repeat("─", 54))

	fmt.Fprintf(w, "\n%s\n", titleStyle.Render(sep))
	fmt.Fprintf(w, "%s\n", titleStyle.Render("  📊 CATALOG PRICING INSIGHTS"))
	fmt.Fprintf(w, "%s\n\n", titleStyle.Render(sep))

	fmt.Fprintf(w, "%s\n", sectionStyle.Render("  Overview"))
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Rows read          : %s\n", valueStyle.Render(fmt.Sprint(in.TotalRows)))
	fmt.Fprintf(w, "  Rows kept          : %s\n", valueStyle.Render(fmt.Sprint(in.KeptRows)))
	fmt.Fprintf(w, "  Rows dropped       : %s\n", valueStyle.Render(fmt.Sprint(in.DroppedRows)))
	fmt.Fprintf(w, "  Categories priced  : %s\n\n", valueStyle.Render(fmt.Sprint(in.Categories)))

	fmt.Fprintf(w, "%s\n", sectionStyle.Render("  Recommendations"))
	fmt.Fprintf(w, "  %s\n", thin)
	for _, rec := range models.Recommendations {
		fmt.Fprintf(w, "  %-18s : %s\n", rec, valueStyle.Render(fmt.Sprint(in.Counts[rec])))
	}
	fmt.Fprintln(w)

	printGaps(w, "  Most Overpriced", thin, in.MostOverpriced, badStyle)
	printGaps(w, "  Most Underpriced", thin, in.MostUnderpriced, goodStyle)

	fmt.Fprintf(w, "%s\n\n", titleStyle.Render(sep))
}

func printGaps(w io.Writer, title, thin string, gaps []PriceGap, style lipgloss.Style) {
	fmt.Fprintf(w, "%s\n", sectionStyle.Render(title))
	fmt.Fprintf(w, "  %s\n", thin)
	if len(gaps) == 0 {
		fmt.Fprintf(w, "  None\n\n")
		return
	}
	for i, g := range gaps {
		fmt.Fprintf(w, "  %d. %-34s %s\n", i+1, truncate(g.ProductName+" ("+g.Category+")", 34),
			style.Render(fmt.Sprintf("%+.2f", g.Diff)))
	}
	fmt.Fprintln(w)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
