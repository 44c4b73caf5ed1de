package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-pricer/models"
)

func sampleRecords() []*models.PricedRecord {
	return []*models.PricedRecord{
		{CleanRecord: models.CleanRecord{ProductName: "A", Price: fptr(10), Category: s("Tools"), Stock: iptr(1)},
			MarketPrice: fptr(10), PriceDiff: fptr(0), Recommendation: models.AtMarket},
		{CleanRecord: models.CleanRecord{ProductName: "B", Price: fptr(20), Category: s("Tools"), Stock: iptr(2)},
			MarketPrice: fptr(10), PriceDiff: fptr(10), Recommendation: models.Overpriced},
		{CleanRecord: models.CleanRecord{ProductName: "C", Price: fptr(30), Category: s("Garden")},
			MarketPrice: fptr(10), PriceDiff: fptr(20), Recommendation: models.Overpriced},
		{CleanRecord: models.CleanRecord{ProductName: "D", Price: fptr(40)},
			Recommendation: models.NoData},
	}
}

func findColumn(t *testing.T, summary *models.DataSummary, name string) models.ColumnSummary {
	t.Helper()
	for _, c := range summary.Columns {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not summarized", name)
	return models.ColumnSummary{}
}

func TestSummarizeNumeric(t *testing.T) {
	cols := SummaryColumns([]string{"product_name", "our_price", "category", "current_stock"})
	summary := Summarize(cols, sampleRecords())

	assert.Equal(t, 4, summary.Rows)
	require.Len(t, summary.Columns, 7)

	price := findColumn(t, summary, "our_price")
	assert.True(t, price.Numeric)
	assert.Equal(t, 4, price.Count)
	assert.InDelta(t, 25.0, *price.Mean, 1e-9)
	assert.InDelta(t, 12.909944, *price.Std, 1e-6)
	assert.InDelta(t, 10.0, *price.Min, 1e-9)
	assert.InDelta(t, 17.5, *price.Q25, 1e-9)
	assert.InDelta(t, 25.0, *price.Q50, 1e-9)
	assert.InDelta(t, 32.5, *price.Q75, 1e-9)
	assert.InDelta(t, 40.0, *price.Max, 1e-9)

	stock := findColumn(t, summary, "current_stock")
	assert.Equal(t, 2, stock.Count)
	assert.InDelta(t, 1.5, *stock.Mean, 1e-9)

	diff := findColumn(t, summary, "price_diff")
	assert.Equal(t, 3, diff.Count)
}

func TestSummarizeText(t *testing.T) {
	summary := Summarize(SummaryColumns([]string{"category"}), sampleRecords())

	cat := findColumn(t, summary, "category")
	assert.False(t, cat.Numeric)
	assert.Equal(t, 3, cat.Count)
	assert.Equal(t, 2, cat.Unique)
	assert.Equal(t, "Tools", cat.Top)
	assert.Equal(t, 2, cat.Freq)

	rec := findColumn(t, summary, "price_recommendation")
	assert.Equal(t, 4, rec.Count)
	assert.Equal(t, "Overpriced", rec.Top)
}

func TestSummarizeSingleValueHasNoStd(t *testing.T) {
	summary := Summarize([]string{"our_price"}, sampleRecords()[:1])
	price := summary.Columns[0]
	assert.Nil(t, price.Std)
	assert.InDelta(t, 10.0, *price.Q75, 1e-9)
}

func TestSummarizeEmptyColumn(t *testing.T) {
	summary := Summarize([]string{"restock_threshold", "brand"}, sampleRecords())
	assert.Equal(t, 0, summary.Columns[0].Count)
	assert.Nil(t, summary.Columns[0].Mean)
	assert.Equal(t, 0, summary.Columns[1].Count)
}
