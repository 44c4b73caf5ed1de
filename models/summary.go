package models

// ColumnSummary holds describe-style statistics for one column. Numeric columns
// fill the moment fields, text columns fill Unique/Top/Freq.
type ColumnSummary struct {
	Name    string
	Numeric bool
	Count   int

	Unique int
	Top    string
	Freq   int

	Mean *float64
	Std  *float64
	Min  *float64
	Q25  *float64
	Q50  *float64
	Q75  *float64
	Max  *float64
}

// DataSummary is the statistical summary of the cleaned record set.
type DataSummary struct {
	Rows    int
	Columns []ColumnSummary
}
