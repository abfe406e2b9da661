package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ebay-research/services"
)

var runID string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the report for a stored run",
	Long: `The report command reads a previous run back from PostgreSQL and prints
its report. Stored scores are reused as they are.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
}

func init() {
	reportCmd.Flags().StringVar(&runID, "run", "", "Run id to report on (defaults to the latest run)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command) error {
	cfg, logger := loadConfig(cmd)
	if !cfg.PostgresEnabled {
		return errors.New("report needs PostgreSQL: set POSTGRES_ENABLED=true and drop --no-db")
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	id := runID
	if id == "" {
		if id, err = store.LatestRunID(ctx); err != nil {
			return err
		}
	}

	scored, err := store.FetchRun(ctx, id)
	if err != nil {
		return err
	}
	if len(scored) == 0 {
		return fmt.Errorf("run %s has no listings", id)
	}
	logger.Info("Loaded %d scored listings from run %s", len(scored), id)

	result := newAnalyzer(cfg, logger).Summarize(scored)
	services.NewReportPrinter(cmd.OutOrStdout()).Print(result)
	return nil
}
