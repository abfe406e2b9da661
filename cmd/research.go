package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ebay-research/scraper/ebay"
	"ebay-research/services"
	"ebay-research/storage"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Scrape sold eBay listings and score them",
	Long: `The research command searches eBay for recently sold listings in every
tracked category and trend phrase, cleans and scores them, then writes the
report files.

A headless Chrome or Chromium is required; set CHROME_BIN if it is not on PATH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResearch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command) error {
	cfg, logger := loadConfig(cmd)
	started := time.Now()

	logger.Info("=== eBay market research starting ===")
	logger.Info("Config: %d/%d listings per search | concurrency: %d | rate: %dms",
		cfg.ListingsPerSearch, cfg.TrendListingsPerSearch, cfg.MaxConcurrency, cfg.RateLimitMs)

	raw, err := ebay.New(cfg, logger).Scrape(cmd.Context())
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("no listings were scraped")
	}

	rawPath := filepath.Join(cfg.OutputDir,
		fmt.Sprintf("%s_raw_%s.csv", cfg.OutputPrefix, started.Format(runIDLayout)))
	csvWriter, err := storage.NewRawCSVWriter(rawPath)
	if err != nil {
		return err
	}
	if err := csvWriter.WriteRaw(raw); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Raw listings saved to %s", rawPath)
	}
	if err := csvWriter.Close(); err != nil {
		logger.Warn("Closing %s: %v", rawPath, err)
	}

	listings := services.NewCleaner(logger).Clean(raw)
	if len(listings) == 0 {
		return errors.New("all listings were dropped during cleaning")
	}
	logger.Info("Cleaned dataset: %d listings", len(listings))

	result := newAnalyzer(cfg, logger).Analyze(listings)
	if err := publish(cmd, cfg, logger, result); err != nil {
		return err
	}

	logger.Info("Done in %s", time.Since(started).Round(time.Second))
	return nil
}
