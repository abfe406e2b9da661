package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ebay-research/models"
)

var inputFile string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score listings from a JSON file",
	Long: `The analyze command scores listings that were collected elsewhere.

The input is a JSON array of objects. Recognised keys are title, price,
sold_count, watchers, shipping, seller, search_keyword, url, image_url and
scraped_at; missing or malformed values fall back to neutral defaults.
An empty array produces a zeroed report. An element that is not an object
fails the whole run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&inputFile, "input", "i", "", "JSON file with listing records (required)")
	_ = analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command) error {
	cfg, logger := loadConfig(cmd)

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	records, err := models.DecodeRecords(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", inputFile, err)
	}

	listings := make([]*models.Listing, len(records))
	for i, r := range records {
		listings[i] = models.ListingFromRecord(r)
	}
	logger.Info("Loaded %d records from %s", len(listings), inputFile)

	result := newAnalyzer(cfg, logger).Analyze(listings)
	return publish(cmd, cfg, logger, result)
}
