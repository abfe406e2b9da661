package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ebay-research/models"
)

// OutputFiles names the files a single run produces.
type OutputFiles struct {
	JSON          string
	TopSelling    string
	HighPotential string
}

// NewOutputFiles derives timestamped file names under dir, e.g.
// ebay_market_research_top_selling_20261019_142500.csv.
func NewOutputFiles(dir, prefix string, at time.Time) OutputFiles {
	ts := at.Format("20060102_150405")
	return OutputFiles{
		JSON:          filepath.Join(dir, fmt.Sprintf("%s_%s.json", prefix, ts)),
		TopSelling:    filepath.Join(dir, fmt.Sprintf("%s_top_selling_%s.csv", prefix, ts)),
		HighPotential: filepath.Join(dir, fmt.Sprintf("%s_high_potential_%s.csv", prefix, ts)),
	}
}

// WriteJSON writes the full research result as indented JSON.
func WriteJSON(path string, result *models.ResearchResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", path, err)
	}
	return nil
}

// SaveResult writes the JSON result and both scored CSV files.
func SaveResult(files OutputFiles, result *models.ResearchResult) error {
	if err := WriteJSON(files.JSON, result); err != nil {
		return err
	}

	for path, listings := range map[string][]*models.ScoredListing{
		files.TopSelling:    result.TopSellingProducts,
		files.HighPotential: result.HighPotentialProducts,
	} {
		w, err := NewScoredCSVWriter(path)
		if err != nil {
			return err
		}
		if err := w.WriteScored(listings); err != nil {
			_ = w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("csv: close %q: %w", path, err)
		}
	}
	return nil
}
