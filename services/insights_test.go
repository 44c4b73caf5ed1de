package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-pricer/models"
)

func sampleResult() *models.RunResult {
	records := sampleRecords()
	counts := map[models.Recommendation]int{}
	for _, r := range records {
		counts[r.Recommendation]++
	}
	return &models.RunResult{
		Records:     records,
		Prices:      models.NewCategoryPriceMap([]string{"Tools", "Garden"}, map[string]float64{"Tools": 10, "Garden": 10}),
		TotalRows:   5,
		DroppedRows: 1,
		Counts:      counts,
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	in := svc.Generate(sampleResult())

	assert.Equal(t, 5, in.TotalRows)
	assert.Equal(t, 4, in.KeptRows)
	assert.Equal(t, 1, in.DroppedRows)
	assert.Equal(t, 2, in.Categories)
	assert.Equal(t, 2, in.Counts[models.Overpriced])
	assert.Equal(t, 1, in.Counts[models.AtMarket])
	assert.Equal(t, 1, in.Counts[models.NoData])
}

func TestInsightRanksGaps(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	in := svc.Generate(sampleResult())

	require.Len(t, in.MostOverpriced, 2)
	assert.Equal(t, "C", in.MostOverpriced[0].ProductName)
	assert.Equal(t, "B", in.MostOverpriced[1].ProductName)
	assert.Empty(t, in.MostUnderpriced)
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	in := svc.Generate(&models.RunResult{})

	assert.Equal(t, 0, in.KeptRows)
	assert.Equal(t, 0, in.Categories)
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	var buf bytes.Buffer

	svc.Print(&buf, svc.Generate(sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "CATALOG PRICING INSIGHTS")
	assert.Contains(t, out, "Most Overpriced")
	assert.Contains(t, out, "C (Garden)")
	assert.Contains(t, out, "+20.00")
}
