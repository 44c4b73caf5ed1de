package storage

import "catalog-pricer/models"

// RecordWriter is the interface any export of priced records must satisfy.
type RecordWriter interface {
	Write(records []*models.PricedRecord) error
	Close() error
}

// TableReader loads the input catalog.
type TableReader func(path string) (*models.Table, error)
