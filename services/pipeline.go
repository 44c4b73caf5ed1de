package services

import (
	"context"
	"fmt"

	"catalog-pricer/models"
	"catalog-pricer/storage"
	"catalog-pricer/utils"
)

// CategoryResolver produces reference prices for a set of categories.
type CategoryResolver interface {
	ResolveAll(ctx context.Context, categories []string) *models.CategoryPriceMap
}

// Pipeline runs validation, cleaning, price resolution and classification.
type Pipeline struct {
	read     storage.TableReader
	cleaner  *Cleaner
	resolver CategoryResolver
	logger   *utils.Logger
}

// NewPipeline wires a Pipeline. read loads the input table.
func NewPipeline(read storage.TableReader, resolver CategoryResolver, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		read:     read,
		cleaner:  NewCleaner(logger),
		resolver: resolver,
		logger:   logger,
	}
}

// Run processes the file at path. Only a failure to load the table is returned
// as an error; every other problem degrades and is reported in the result.
func (p *Pipeline) Run(ctx context.Context, path string) (*models.RunResult, error) {
	table, err := p.read(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	p.logger.Info("[pipeline] Loaded %d rows, %d columns from %s", len(table.Rows), len(table.Columns), path)

	return p.Process(ctx, table), nil
}

// Process runs every stage after loading on an already parsed table.
func (p *Pipeline) Process(ctx context.Context, table *models.Table) *models.RunResult {
	findings := ValidateSchema(table.Columns)
	for _, f := range findings {
		p.logger.Warn("[pipeline] %s", f)
	}

	clean := p.cleaner.Clean(table)

	categories := make([]string, 0, len(clean))
	for _, r := range clean {
		if r.Category != nil {
			categories = append(categories, *r.Category)
		}
	}
	prices := p.resolver.ResolveAll(ctx, categories)

	result := &models.RunResult{
		SourcePath:  table.Path,
		Columns:     table.Columns,
		Records:     make([]*models.PricedRecord, 0, len(clean)),
		Findings:    findings,
		Prices:      prices,
		TotalRows:   len(table.Rows),
		DroppedRows: len(table.Rows) - len(clean),
		Counts:      make(map[models.Recommendation]int),
	}

	for _, r := range clean {
		market := prices.Lookup(r.Category)
		diff, rec := Classify(r.Price, market)
		result.Records = append(result.Records, &models.PricedRecord{
			CleanRecord:    *r,
			MarketPrice:    market,
			PriceDiff:      diff,
			Recommendation: rec,
		})
		result.Counts[rec]++
	}

	p.logger.Info("[pipeline] Classified %d records: %d overpriced, %d underpriced, %d at market, %d no data",
		len(result.Records), result.Counts[models.Overpriced], result.Counts[models.Underpriced],
		result.Counts[models.AtMarket], result.Counts[models.NoData])
	return result
}
