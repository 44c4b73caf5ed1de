package services

import (
	"catalog-pricer/models"
	"catalog-pricer/utils"
)

// Cleaner transforms raw table rows into CleanRecords.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean normalizes every row of table and drops rows without a product name.
// Columns absent from the header are skipped and leave their field nil.
func (c *Cleaner) Clean(table *models.Table) []*models.CleanRecord {
	var extra []string
	for _, f := range ValidateSchema(table.Columns) {
		if f.Kind == models.ExtraColumns {
			extra = f.Columns
		}
	}

	result := make([]*models.CleanRecord, 0, len(table.Rows))
	for _, r := range table.Rows {
		rec := c.normalise(r, table, extra)
		if rec == nil {
			c.logger.Warn("[cleaner] Dropping line %d: missing product_name", r.Line)
			continue
		}
		result = append(result, rec)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d records (dropped %d)",
		len(table.Rows), len(result), len(table.Rows)-len(result))
	return result
}

// normalise returns nil when the row has no usable product name.
func (c *Cleaner) normalise(r *models.RawRecord, table *models.Table, extra []string) *models.CleanRecord {
	var name *string
	if table.HasColumn(models.ColProductName) {
		name = CleanText(r.Cell(models.ColProductName))
	}
	if name == nil {
		return nil
	}

	rec := &models.CleanRecord{
		Line:        r.Line,
		ProductName: *name,
	}
	if table.HasColumn(models.ColOurPrice) {
		rec.Price = CleanPrice(r.Cell(models.ColOurPrice))
		if rec.Price == nil && r.Cell(models.ColOurPrice) != nil {
			c.logger.Debug("[cleaner] line %d: unparseable price %q", r.Line, *r.Cell(models.ColOurPrice))
		}
	}
	if table.HasColumn(models.ColCategory) {
		rec.Category = CleanCategory(r.Cell(models.ColCategory))
	}
	if table.HasColumn(models.ColCurrentStock) {
		rec.Stock = CleanStock(r.Cell(models.ColCurrentStock))
		if rec.Stock == nil && r.Cell(models.ColCurrentStock) != nil {
			c.logger.Debug("[cleaner] line %d: unparseable stock %q", r.Line, *r.Cell(models.ColCurrentStock))
		}
	}
	if table.HasColumn(models.ColRestockThreshold) {
		rec.RestockThreshold = CoerceNumber(r.Cell(models.ColRestockThreshold))
	}
	if table.HasColumn(models.ColExpirationDate) {
		rec.ExpirationDate = r.Cell(models.ColExpirationDate)
	}
	if table.HasColumn(models.ColBrand) {
		rec.Brand = r.Cell(models.ColBrand)
	}
	if len(extra) > 0 {
		rec.Extra = make(map[string]*string, len(extra))
		for _, col := range extra {
			rec.Extra[col] = r.Cell(col)
		}
	}
	return rec
}
