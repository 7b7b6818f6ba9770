package storage

import (
	"context"

	"berlin-bridges/models"
)

// CatalogWriter is the interface any catalog backend must satisfy.
type CatalogWriter interface {
	Write(ctx context.Context, entries []*models.CatalogEntry) error
	FetchAll(ctx context.Context) ([]*models.CatalogEntry, error)
	Close() error
}

// ReportWriter persists the unmatched and validation reports.
type ReportWriter interface {
	WriteUnmatched(path string, rows []models.UnmatchedBridge) (bool, error)
	WriteIssues(path string, issues []models.ValidationIssue) error
}

var (
	_ CatalogWriter = (*PostgresWriter)(nil)
	_ CatalogWriter = (*MemoryCatalog)(nil)
	_ ReportWriter  = (*CSVWriter)(nil)
)
