package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"catalog-pricer/models"
)

// CSVWriter writes priced records to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	extra  []string
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. extra names passthrough columns appended after the
// expected ones. Intermediate directories are created automatically.
func NewCSVWriter(path string, extra []string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	header := append([]string{}, models.ExpectedColumns...)
	header = append(header, extra...)
	header = append(header, models.ColMarketPrice, models.ColPriceDiff, models.ColRecommendation)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, extra: extra}, nil
}

// Write appends one row per record. Missing values are written as empty cells.
func (c *CSVWriter) Write(records []*models.PricedRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		row := []string{
			r.ProductName,
			formatFloat(r.Price),
			formatString(r.Category),
			formatInt(r.Stock),
			formatFloat(r.RestockThreshold),
			formatString(r.ExpirationDate),
			formatString(r.Brand),
		}
		for _, col := range c.extra {
			row = append(row, formatString(r.Extra[col]))
		}
		row = append(row, formatFloat(r.MarketPrice), formatFloat(r.PriceDiff), r.Recommendation.String())

		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
