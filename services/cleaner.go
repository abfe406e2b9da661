package services

import (
	"strings"
	"time"
	"unicode"

	"ebay-research/models"
	"ebay-research/utils"
)

// notAvailable is the placeholder the fetcher writes for a missing element.
const notAvailable = "N/A"

// Cleaner transforms RawListings into typed Listings ready for scoring.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean parses the text fields of raw listings. Unparseable numbers become
// 0; only listings without a title and repeated (keyword, URL) pairs are
// dropped.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.Listing {
	seen := utils.NewURLSet()
	result := make([]*models.Listing, 0, len(raw))

	for _, r := range raw {
		if r == nil {
			continue
		}

		title := normaliseText(r.Title)
		if title == "" {
			c.logger.Debug("[cleaner] Dropping listing without title: %s", r.URL)
			continue
		}

		url := normaliseText(r.URL)
		if url != "" && !seen.Add(r.SearchKeyword+"|"+url) {
			c.logger.Debug("[cleaner] Duplicate URL skipped: %s", url)
			continue
		}

		price, hasPrice := c.parsePrice(r.RawPrice)
		listing := &models.Listing{
			Title:         title,
			Price:         price,
			HasPrice:      hasPrice,
			SoldCount:     c.parseCount(r.RawSold),
			Watchers:      c.parseCount(r.RawWatchers),
			Shipping:      normaliseText(r.Shipping),
			Seller:        normaliseText(r.Seller),
			SearchKeyword: normaliseText(r.SearchKeyword),
			URL:           url,
			ImageURL:      normaliseText(r.ImageURL),
			CreatedAt:     time.Now(),
		}
		if !r.ScrapedAt.IsZero() {
			listing.ScrapedAt = r.ScrapedAt.Format(time.RFC3339)
		}

		result = append(result, listing)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parsePrice takes the first amount in the price text.
// Examples:
//
//	"$25.99"            → 25.99
//	"$1,299.00"         → 1299
//	"$10.00 to $20.00"  → 10
func (c *Cleaner) parsePrice(raw string) (float64, bool) {
	raw = normaliseText(raw)
	if raw == "" {
		return 0, false
	}
	price, ok := models.ParseNumber(raw)
	if !ok {
		c.logger.Debug("[cleaner] Unparseable price %q, using 0", raw)
	}
	return price, ok
}

// parseCount reads counts such as "1,234 sold" or "25 watchers".
func (c *Cleaner) parseCount(raw string) int {
	raw = normaliseText(raw)
	if raw == "" {
		return 0
	}
	n, ok := models.ParseNumber(raw)
	if !ok {
		return 0
	}
	return models.CountFromFloat(n)
}

// normaliseText strips leading/trailing whitespace, collapses internal
// whitespace, and maps the "N/A" placeholder to "".
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, notAvailable) {
		return ""
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
