package models

import (
	"fmt"
	"strings"
)

// Expected catalog columns, in schema order.
const (
	ColProductName      = "product_name"
	ColOurPrice         = "our_price"
	ColCategory         = "category"
	ColCurrentStock     = "current_stock"
	ColRestockThreshold = "restock_threshold"
	ColExpirationDate   = "expiration_date"
	ColBrand            = "brand"
)

// Derived columns appended by the pipeline.
const (
	ColMarketPrice    = "market_price"
	ColPriceDiff      = "price_diff"
	ColRecommendation = "price_recommendation"
)

// ExpectedColumns is the fixed input schema.
var ExpectedColumns = []string{
	ColProductName,
	ColOurPrice,
	ColCategory,
	ColCurrentStock,
	ColRestockThreshold,
	ColExpirationDate,
	ColBrand,
}

// Table is a parsed input file: header order plus one RawRecord per data row.
type Table struct {
	Path    string
	Columns []string
	Rows    []*RawRecord
}

// HasColumn reports whether the table header contains name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RawRecord holds one input row exactly as read. A nil cell is a missing value.
type RawRecord struct {
	Line  int
	Cells map[string]*string
}

// Cell returns the raw value for column, nil when absent or missing.
func (r *RawRecord) Cell(column string) *string {
	if r == nil || r.Cells == nil {
		return nil
	}
	return r.Cells[column]
}

// CleanRecord is a row after field normalization. Nil pointers are missing values.
type CleanRecord struct {
	Line             int
	ProductName      string
	Price            *float64
	Category         *string
	Stock            *int
	RestockThreshold *float64
	ExpirationDate   *string
	Brand            *string

	// Extra carries columns outside the expected schema, untouched.
	Extra map[string]*string
}

// CategoryLabel returns the category or a placeholder for display.
func (r *CleanRecord) CategoryLabel() string {
	if r.Category == nil {
		return "uncategorized"
	}
	return *r.Category
}

// PricedRecord is a CleanRecord joined with its reference price and classification.
type PricedRecord struct {
	CleanRecord
	MarketPrice    *float64
	PriceDiff      *float64
	Recommendation Recommendation
}

// FindingKind distinguishes the two schema findings.
type FindingKind int

const (
	MissingColumns FindingKind = iota
	ExtraColumns
)

func (k FindingKind) String() string {
	switch k {
	case MissingColumns:
		return "Missing columns"
	case ExtraColumns:
		return "Extra columns"
	default:
		return "Unknown finding"
	}
}

// SchemaFinding is an advisory note about the input header.
type SchemaFinding struct {
	Kind    FindingKind
	Columns []string
}

func (f SchemaFinding) String() string {
	return fmt.Sprintf("%s: [%s]", f.Kind, strings.Join(f.Columns, ", "))
}

// RunResult is everything one pipeline run hands to the reporting side.
type RunResult struct {
	SourcePath  string
	Columns     []string
	Records     []*PricedRecord
	Findings    []SchemaFinding
	Prices      *CategoryPriceMap
	TotalRows   int
	DroppedRows int
	Counts      map[Recommendation]int
}
