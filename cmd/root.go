package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ebay-research/config"
	"ebay-research/models"
	"ebay-research/scoring"
	"ebay-research/services"
	"ebay-research/storage"
	"ebay-research/utils"
)

const runIDLayout = "20060102_150405"

var (
	envFile   string
	verbose   bool
	outputDir string
	topN      int
	workers   int
	noDB      bool
)

var rootCmd = &cobra.Command{
	Use:   "ebay-research",
	Short: "Score sold eBay listings for resale potential",
	Long: `ebay-research collects recently sold eBay listings, scores each one for
resale potential and writes a market research report.

Scores combine price, sales volume, watcher interest, category, trend
keywords, shipping and seller feedback into a single 0-100 value. Results
are written as JSON and CSV and, when enabled, stored in PostgreSQL.`,
	SilenceUsage: true,
}

// Execute runs the root command, cancelling on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file to load (defaults to ./.env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for JSON and CSV output (overrides OUTPUT_DIR)")
	rootCmd.PersistentFlags().IntVar(&topN, "top", 0, "Number of listings in each shortlist (overrides TOP_N)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Scoring workers (overrides SCORING_WORKERS)")
	rootCmd.PersistentFlags().BoolVar(&noDB, "no-db", false, "Skip PostgreSQL even when POSTGRES_ENABLED is set")
}

// loadConfig reads env configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, *utils.Logger) {
	var cfg *config.Config
	if envFile != "" {
		cfg = config.LoadFile(envFile)
	} else {
		cfg = config.Load()
	}

	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if topN > 0 {
		cfg.TopN = topN
	}
	if workers > 0 {
		cfg.ScoringWorkers = workers
	}
	if noDB {
		cfg.PostgresEnabled = false
	}

	// Logs go to stderr so the report on stdout stays clean.
	logger := utils.NewLoggerTo(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	logger.SetDebug(cfg.Debug || verbose)
	return cfg, logger
}

func newAnalyzer(cfg *config.Config, logger *utils.Logger) *services.Analyzer {
	engine := scoring.NewDefaultEngine(scoring.WithWorkers(cfg.ScoringWorkers))
	return services.NewAnalyzer(engine, logger, cfg.TopN)
}

// publish writes the result files, stores the run in PostgreSQL when
// enabled and prints the console report.
func publish(cmd *cobra.Command, cfg *config.Config, logger *utils.Logger, result *models.ResearchResult) error {
	files := storage.NewOutputFiles(cfg.OutputDir, cfg.OutputPrefix, result.Timestamp)
	if err := storage.SaveResult(files, result); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	logger.Info("Results saved to %s", files.JSON)
	logger.Info("Top selling CSV → %s", files.TopSelling)
	logger.Info("High potential CSV → %s", files.HighPotential)

	if cfg.PostgresEnabled {
		if err := storeRun(cmd.Context(), cfg, logger, result); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		}
	}

	services.NewReportPrinter(cmd.OutOrStdout()).Print(result)
	return nil
}

// openStore connects to the scored-listing store; replaced in tests.
var openStore = func(ctx context.Context, cfg *config.Config) (storage.ScoredListingStore, error) {
	pg, err := storage.NewPostgresWriter(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	return pg, nil
}

func storeRun(ctx context.Context, cfg *config.Config, logger *utils.Logger, result *models.ResearchResult) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	runID := result.Timestamp.Format(runIDLayout)
	all := allScored(result)
	if err := store.Write(ctx, runID, all); err != nil {
		return err
	}
	logger.Info("Stored %d scored listings in PostgreSQL (run %s)", len(all), runID)
	return nil
}

// allScored flattens the tier partition back into score order.
func allScored(result *models.ResearchResult) []*models.ScoredListing {
	var all []*models.ScoredListing
	for _, t := range models.Tiers {
		all = append(all, result.Tiers[t]...)
	}
	return all
}
