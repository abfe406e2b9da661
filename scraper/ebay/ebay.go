package ebay

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"ebay-research/config"
	"ebay-research/models"
	"ebay-research/scoring"
	"ebay-research/utils"
)

const searchBase = "https://www.ebay.com/sch/i.html"

// SearchTerm is one query sent to eBay together with the number of results
// to keep from it.
type SearchTerm struct {
	Keyword string
	Limit   int
}

// fetchFunc returns the rendered HTML of a page.
type fetchFunc func(ctx context.Context, pageURL string) (string, error)

// Scraper collects sold listings from eBay search result pages.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	pool   *utils.WorkerPool
	retry  *utils.RetryConfig
	fetch  fetchFunc
	now    func() time.Time
}

// New creates a ready-to-use eBay Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		now: time.Now,
	}
}

// SearchTerms lists every category name followed by every trend phrase.
func SearchTerms(cfg *config.Config) []SearchTerm {
	tables := scoring.DefaultTables()
	terms := make([]SearchTerm, 0, len(tables.Categories)+len(tables.Trends))
	for _, c := range tables.Categories {
		terms = append(terms, SearchTerm{Keyword: c.Pattern, Limit: cfg.ListingsPerSearch})
	}
	for _, t := range tables.Trends {
		terms = append(terms, SearchTerm{Keyword: t.Pattern, Limit: cfg.TrendListingsPerSearch})
	}
	return terms
}

// SearchURL builds the sold-and-completed search URL for a keyword, newest
// listings first.
func SearchURL(keyword string, limit int) string {
	q := url.Values{}
	q.Set("_nkw", keyword)
	q.Set("_sacat", "0")
	q.Set("_sop", "12")
	q.Set("_ipg", strconv.Itoa(limit))
	q.Set("_from", "R40")
	q.Set("LH_Sold", "1")
	q.Set("LH_Complete", "1")
	return searchBase + "?" + q.Encode()
}

// Scrape runs every search term through the worker pool and returns the raw
// listings in search-term order. A term that keeps failing is logged and
// contributes nothing.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.RawListing, error) {
	terms := SearchTerms(s.cfg)
	s.logger.Info("[ebay] Starting scrape: %d search terms, concurrency %d, rate limit %dms",
		len(terms), s.cfg.MaxConcurrency, s.cfg.RateLimitMs)

	fetch := s.fetch
	if fetch == nil {
		browserFetch, closeBrowser, err := s.openBrowser(ctx)
		if err != nil {
			return nil, err
		}
		defer closeBrowser()
		fetch = browserFetch
	}

	results := make([][]*models.RawListing, len(terms))
	for i, term := range terms {
		i, term := i, term
		s.pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			listings, err := s.scrapeTerm(ctx, fetch, term)
			if err != nil {
				s.logger.Error("[ebay] Search %q failed: %v", term.Keyword, err)
				return
			}
			s.logger.Info("[ebay] %q: %d listings", term.Keyword, len(listings))
			results[i] = listings
		})
	}
	s.pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ebay: scrape cancelled: %w", err)
	}

	var all []*models.RawListing
	for _, r := range results {
		all = append(all, r...)
	}
	s.logger.Info("[ebay] Scrape complete: %d raw listings", len(all))
	return all, nil
}

func (s *Scraper) scrapeTerm(ctx context.Context, fetch fetchFunc, term SearchTerm) ([]*models.RawListing, error) {
	pageURL := SearchURL(term.Keyword, term.Limit)
	s.logger.Debug("[ebay] GET %s", pageURL)

	var listings []*models.RawListing
	err := s.retry.Do(ctx, "search-"+term.Keyword, func(ctx context.Context) error {
		html, err := fetch(ctx, pageURL)
		if err != nil {
			return err
		}
		listings, err = ParseResults(strings.NewReader(html), term.Keyword, term.Limit, s.now())
		return err
	})
	return listings, err
}

// openBrowser starts a headless browser and returns a fetch function that
// opens one tab per page.
func (s *Scraper) openBrowser(ctx context.Context) (fetchFunc, func(), error) {
	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Info("[ebay] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	closeAll := func() {
		cancelBrowser()
		cancelAlloc()
	}

	if err := chromedp.Run(browserCtx); err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("ebay: start browser: %w", err)
	}

	fetch := func(ctx context.Context, pageURL string) (string, error) {
		tabCtx, cancelTab := chromedp.NewContext(browserCtx)
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
		defer cancelTimeout()

		stop := context.AfterFunc(ctx, cancelTab)
		defer stop()

		var html string
		err := chromedp.Run(tabCtx,
			chromedp.Navigate(pageURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(2*time.Second),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
		if err != nil {
			return "", fmt.Errorf("chromedp page load: %w", err)
		}
		return html, nil
	}

	return fetch, closeAll, nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
