package storage

import (
	"context"

	"ebay-research/models"
)

// ScoredListingStore is the interface any scored-listing backend must satisfy.
type ScoredListingStore interface {
	Write(ctx context.Context, runID string, listings []*models.ScoredListing) error
	FetchRun(ctx context.Context, runID string) ([]*models.ScoredListing, error)
	LatestRunID(ctx context.Context) (string, error)
	Close() error
}

// RawListingWriter is the interface for persisting unprocessed scraped data.
type RawListingWriter interface {
	WriteRaw(listings []*models.RawListing) error
	Close() error
}

var (
	_ ScoredListingStore = (*PostgresWriter)(nil)
	_ RawListingWriter   = (*CSVWriter)(nil)
)
