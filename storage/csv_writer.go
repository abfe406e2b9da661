package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"ebay-research/models"
)

var rawHeader = []string{
	"title", "raw_price", "raw_sold", "raw_watchers", "shipping", "seller",
	"search_keyword", "url", "image_url", "scraped_at",
}

var scoredHeader = []string{
	"title", "price", "sold_count", "watchers", "shipping", "seller",
	"search_keyword", "url", "image_url", "scraped_at",
	"advanced_score", "tier", "analysis_timestamp",
}

// CSVWriter writes listings to a CSV file. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewRawCSVWriter creates (or truncates) a CSV file for raw listings.
func NewRawCSVWriter(path string) (*CSVWriter, error) {
	return newCSVWriter(path, rawHeader)
}

// NewScoredCSVWriter creates (or truncates) a CSV file for scored listings.
func NewScoredCSVWriter(path string) (*CSVWriter, error) {
	return newCSVWriter(path, scoredHeader)
}

// newCSVWriter creates the file at path and writes the header row.
// Intermediate directories are created automatically.
func newCSVWriter(path string, header []string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends raw listings exactly as scraped.
func (c *CSVWriter) WriteRaw(listings []*models.RawListing) error {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		scraped := ""
		if !l.ScrapedAt.IsZero() {
			scraped = l.ScrapedAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			l.Title, l.RawPrice, l.RawSold, l.RawWatchers, l.Shipping, l.Seller,
			l.SearchKeyword, l.URL, l.ImageURL, scraped,
		})
	}
	return c.writeRows(rows)
}

// WriteScored appends scored listings.
func (c *CSVWriter) WriteScored(listings []*models.ScoredListing) error {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{
			l.Title,
			strconv.FormatFloat(l.Price, 'f', 2, 64),
			strconv.Itoa(l.SoldCount),
			strconv.Itoa(l.Watchers),
			l.Shipping,
			l.Seller,
			l.SearchKeyword,
			l.URL,
			l.ImageURL,
			l.ScrapedAt,
			strconv.FormatFloat(l.AdvancedScore, 'f', 2, 64),
			string(l.Tier),
			l.AnalysisTimestamp.Format(time.RFC3339),
		})
	}
	return c.writeRows(rows)
}

func (c *CSVWriter) writeRows(rows [][]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, row := range rows {
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
