package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"ebay-research/models"
)

// ErrNoRuns is returned when the scored_listings table holds no runs yet.
var ErrNoRuns = errors.New("postgres: no stored runs")

const scoredColumns = 14

// PostgresWriter persists scored listings to PostgreSQL, one run at a time.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS scored_listings (
			id                 SERIAL PRIMARY KEY,
			run_id             VARCHAR(32)   NOT NULL,
			title              TEXT          NOT NULL,
			price              NUMERIC(12,2) NOT NULL DEFAULT 0,
			has_price          BOOLEAN       NOT NULL DEFAULT FALSE,
			sold_count         INTEGER       NOT NULL DEFAULT 0,
			watchers           INTEGER       NOT NULL DEFAULT 0,
			shipping           TEXT          NOT NULL DEFAULT '',
			seller             TEXT          NOT NULL DEFAULT '',
			search_keyword     TEXT          NOT NULL DEFAULT '',
			url                TEXT          NOT NULL DEFAULT '',
			image_url          TEXT          NOT NULL DEFAULT '',
			scraped_at         TEXT          NOT NULL DEFAULT '',
			advanced_score     NUMERIC(5,2)  NOT NULL,
			analysis_timestamp TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_scored_listings_run     ON scored_listings(run_id);
		CREATE INDEX IF NOT EXISTS idx_scored_listings_score   ON scored_listings(advanced_score);
		CREATE INDEX IF NOT EXISTS idx_scored_listings_keyword ON scored_listings(search_keyword);
	`)
	return err
}

// Write batch-inserts one run of scored listings inside a transaction.
func (pw *PostgresWriter) Write(ctx context.Context, runID string, listings []*models.ScoredListing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := insertBatch(ctx, tx, runID, listings[i:end]); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, runID string, batch []*models.ScoredListing) error {
	query, args := buildInsert(runID, batch)
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// buildInsert renders a multi-row INSERT with positional placeholders.
func buildInsert(runID string, batch []*models.ScoredListing) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*scoredColumns)

	for idx, l := range batch {
		base := idx * scoredColumns
		placeholders := make([]string, scoredColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runID, l.Title, l.Price, l.HasPrice, l.SoldCount, l.Watchers, l.Shipping,
			l.Seller, l.SearchKeyword, l.URL, l.ImageURL, l.ScrapedAt,
			l.AdvancedScore, l.AnalysisTimestamp)
	}

	query := fmt.Sprintf(`
		INSERT INTO scored_listings (run_id, title, price, has_price, sold_count, watchers, shipping,
			seller, search_keyword, url, image_url, scraped_at, advanced_score, analysis_timestamp)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

// LatestRunID returns the run with the most recent analysis timestamp.
func (pw *PostgresWriter) LatestRunID(ctx context.Context) (string, error) {
	var runID string
	err := pw.db.QueryRowContext(ctx, `
		SELECT run_id FROM scored_listings
		ORDER BY analysis_timestamp DESC, id DESC
		LIMIT 1
	`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	if err != nil {
		return "", fmt.Errorf("postgres: latest run: %w", err)
	}
	return runID, nil
}

// FetchRun retrieves every listing stored for a run in insertion order.
func (pw *PostgresWriter) FetchRun(ctx context.Context, runID string) ([]*models.ScoredListing, error) {
	rows, err := pw.db.QueryContext(ctx, `
		SELECT title, price, has_price, sold_count, watchers, shipping, seller,
			search_keyword, url, image_url, scraped_at, advanced_score, analysis_timestamp
		FROM scored_listings
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch run: %w", err)
	}
	defer rows.Close()

	var listings []*models.ScoredListing
	for rows.Next() {
		l := &models.ScoredListing{}
		if err := rows.Scan(
			&l.Title, &l.Price, &l.HasPrice, &l.SoldCount, &l.Watchers, &l.Shipping, &l.Seller,
			&l.SearchKeyword, &l.URL, &l.ImageURL, &l.ScrapedAt, &l.AdvancedScore, &l.AnalysisTimestamp,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
