package services

import (
	"math"
	"sort"

	"catalog-pricer/models"
)

type columnValue func(r *models.PricedRecord) (num *float64, text *string)

// numericColumns are summarized with moments and quantiles; every other column
// is summarized as text.
var numericColumns = map[string]columnValue{
	models.ColOurPrice: func(r *models.PricedRecord) (*float64, *string) { return r.Price, nil },
	models.ColCurrentStock: func(r *models.PricedRecord) (*float64, *string) {
		if r.Stock == nil {
			return nil, nil
		}
		f := float64(*r.Stock)
		return &f, nil
	},
	models.ColRestockThreshold: func(r *models.PricedRecord) (*float64, *string) { return r.RestockThreshold, nil },
	models.ColMarketPrice:      func(r *models.PricedRecord) (*float64, *string) { return r.MarketPrice, nil },
	models.ColPriceDiff:        func(r *models.PricedRecord) (*float64, *string) { return r.PriceDiff, nil },
}

func textColumn(name string) columnValue {
	switch name {
	case models.ColProductName:
		return func(r *models.PricedRecord) (*float64, *string) { return nil, &r.ProductName }
	case models.ColCategory:
		return func(r *models.PricedRecord) (*float64, *string) { return nil, r.Category }
	case models.ColExpirationDate:
		return func(r *models.PricedRecord) (*float64, *string) { return nil, r.ExpirationDate }
	case models.ColBrand:
		return func(r *models.PricedRecord) (*float64, *string) { return nil, r.Brand }
	case models.ColRecommendation:
		return func(r *models.PricedRecord) (*float64, *string) {
			s := r.Recommendation.String()
			return nil, &s
		}
	default:
		return func(r *models.PricedRecord) (*float64, *string) { return nil, r.Extra[name] }
	}
}

// SummaryColumns returns the columns of the cleaned set: the input header
// followed by the derived pricing columns.
func SummaryColumns(input []string) []string {
	cols := append([]string{}, input...)
	return append(cols, models.ColMarketPrice, models.ColPriceDiff, models.ColRecommendation)
}

// Summarize computes describe-style statistics for every column of the cleaned set.
func Summarize(columns []string, records []*models.PricedRecord) *models.DataSummary {
	summary := &models.DataSummary{Rows: len(records)}
	for _, col := range columns {
		if get, ok := numericColumns[col]; ok {
			summary.Columns = append(summary.Columns, summarizeNumeric(col, records, get))
			continue
		}
		summary.Columns = append(summary.Columns, summarizeText(col, records, textColumn(col)))
	}
	return summary
}

func summarizeNumeric(name string, records []*models.PricedRecord, get columnValue) models.ColumnSummary {
	cs := models.ColumnSummary{Name: name, Numeric: true}

	values := make([]float64, 0, len(records))
	for _, r := range records {
		if v, _ := get(r); v != nil {
			values = append(values, *v)
		}
	}
	cs.Count = len(values)
	if cs.Count == 0 {
		return cs
	}

	sort.Float64s(values)
	var total float64
	for _, v := range values {
		total += v
	}
	mean := total / float64(len(values))
	cs.Mean = &mean

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			sq += (v - mean) * (v - mean)
		}
		std := math.Sqrt(sq / float64(len(values)-1))
		cs.Std = &std
	}

	minV, maxV := values[0], values[len(values)-1]
	q25, q50, q75 := quantile(values, 0.25), quantile(values, 0.5), quantile(values, 0.75)
	cs.Min, cs.Max = &minV, &maxV
	cs.Q25, cs.Q50, cs.Q75 = &q25, &q50, &q75
	return cs
}

// quantile uses linear interpolation between closest ranks on sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func summarizeText(name string, records []*models.PricedRecord, get columnValue) models.ColumnSummary {
	cs := models.ColumnSummary{Name: name}

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		_, v := get(r)
		if v == nil {
			continue
		}
		cs.Count++
		if _, seen := counts[*v]; !seen {
			order = append(order, *v)
		}
		counts[*v]++
	}

	cs.Unique = len(order)
	for _, v := range order {
		if counts[v] > cs.Freq {
			cs.Top, cs.Freq = v, counts[v]
		}
	}
	return cs
}
