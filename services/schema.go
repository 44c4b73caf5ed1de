package services

import (
	"catalog-pricer/models"
	"catalog-pricer/utils"
)

// ValidateSchema compares the input header with models.ExpectedColumns.
// It never fails: missing and extra columns are returned as findings, missing
// ones in schema order and extra ones in input order.
func ValidateSchema(columns []string) []models.SchemaFinding {
	actual := utils.NewOrderedSet()
	for _, c := range columns {
		actual.Add(c)
	}
	expected := utils.NewOrderedSet()
	for _, c := range models.ExpectedColumns {
		expected.Add(c)
	}

	var missing, extra []string
	for _, c := range expected.Keys() {
		if !actual.Contains(c) {
			missing = append(missing, c)
		}
	}
	for _, c := range actual.Keys() {
		if !expected.Contains(c) {
			extra = append(extra, c)
		}
	}

	var findings []models.SchemaFinding
	if len(missing) > 0 {
		findings = append(findings, models.SchemaFinding{Kind: models.MissingColumns, Columns: missing})
	}
	if len(extra) > 0 {
		findings = append(findings, models.SchemaFinding{Kind: models.ExtraColumns, Columns: extra})
	}
	return findings
}
