package ebay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ebay-research/config"
	"ebay-research/models"
	"ebay-research/utils"
)

const resultsPage = `<html><body><ul class="srp-results">
  <li class="s-item s-item__pl-on-bottom">
    <div class="s-item__title">Shop on eBay</div>
    <span class="s-item__price">$20.00</span>
  </li>
  <li class="s-item">
    <a class="s-item__link" href="https://www.ebay.com/itm/111"><div class="s-item__title"> Best Selling iPhone Case </div></a>
    <img class="s-item__image-img" src="https://i.ebayimg.com/111.jpg">
    <span class="s-item__price">$12.99</span>
    <span class="s-item__shipping">Free shipping</span>
    <span class="s-item__seller-info-text">caseking (5,210) 99.1% positive</span>
    <span class="s-item__hotness-count">1,024 sold</span>
    <span class="s-item__watchers">37 watchers</span>
  </li>
  <li class="s-item">
    <a class="s-item__link" href="https://www.ebay.com/itm/222"><div class="s-item__title">Vintage Lamp</div></a>
    <span class="s-item__price">$40.00 to $55.00</span>
    <span class="s-item__quantity-sold">3 sold</span>
  </li>
  <li class="s-item">
    <span class="s-item__price">$5.00</span>
  </li>
  <li class="s-item">
    <a class="s-item__link" href="https://www.ebay.com/itm/333"><div class="s-item__title">Garden Hose</div></a>
  </li>
</ul></body></html>`

func TestParseResults(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	got, err := ParseResults(strings.NewReader(resultsPage), "Electronics", 0, at)
	if err != nil {
		t.Fatalf("ParseResults: %v", err)
	}

	want := []*models.RawListing{
		{
			Title:         "Best Selling iPhone Case",
			RawPrice:      "$12.99",
			RawSold:       "1,024 sold",
			RawWatchers:   "37 watchers",
			Shipping:      "Free shipping",
			Seller:        "caseking (5,210) 99.1% positive",
			SearchKeyword: "Electronics",
			URL:           "https://www.ebay.com/itm/111",
			ImageURL:      "https://i.ebayimg.com/111.jpg",
			ScrapedAt:     at,
		},
		{
			Title:         "Vintage Lamp",
			RawPrice:      "$40.00 to $55.00",
			RawSold:       "3 sold",
			Shipping:      "N/A",
			Seller:        "N/A",
			SearchKeyword: "Electronics",
			URL:           "https://www.ebay.com/itm/222",
			ImageURL:      "N/A",
			ScrapedAt:     at,
		},
		{
			Title:         "Garden Hose",
			RawPrice:      "N/A",
			Shipping:      "N/A",
			Seller:        "N/A",
			SearchKeyword: "Electronics",
			URL:           "https://www.ebay.com/itm/333",
			ImageURL:      "N/A",
			ScrapedAt:     at,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseResults mismatch (-want +got):\n%s", diff)
	}
}

func TestParseResultsLimit(t *testing.T) {
	got, err := ParseResults(strings.NewReader(resultsPage), "Toys", 3, time.Time{})
	if err != nil {
		t.Fatalf("ParseResults: %v", err)
	}
	// The limit counts cards, so the title-less third card uses up a slot.
	if len(got) != 2 {
		t.Fatalf("got %d listings, want 2", len(got))
	}
	if got[0].Title != "Best Selling iPhone Case" {
		t.Errorf("unexpected first listing %q", got[0].Title)
	}
}

func TestParseResultsNoItems(t *testing.T) {
	got, err := ParseResults(strings.NewReader("<html><body>No exact matches found</body></html>"), "Motors", 20, time.Time{})
	if err != nil {
		t.Fatalf("ParseResults: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d listings, want 0", len(got))
	}
}

func TestSearchURL(t *testing.T) {
	raw := SearchURL("Home & Garden", 20)
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	if u.Host != "www.ebay.com" || u.Path != "/sch/i.html" {
		t.Errorf("unexpected endpoint %s", raw)
	}

	want := map[string]string{
		"_nkw": "Home & Garden", "_sacat": "0", "_sop": "12", "_ipg": "20",
		"_from": "R40", "LH_Sold": "1", "LH_Complete": "1",
	}
	for k, v := range want {
		if got := u.Query().Get(k); got != v {
			t.Errorf("%s: got %q, want %q", k, got, v)
		}
	}
}

func TestSearchTerms(t *testing.T) {
	cfg := &config.Config{ListingsPerSearch: 20, TrendListingsPerSearch: 15}
	terms := SearchTerms(cfg)
	if len(terms) != 19 {
		t.Fatalf("got %d terms, want 19", len(terms))
	}
	if terms[0] != (SearchTerm{Keyword: "Clothing, Shoes & Accessories", Limit: 20}) {
		t.Errorf("first term: got %+v", terms[0])
	}
	if terms[10] != (SearchTerm{Keyword: "trending", Limit: 15}) {
		t.Errorf("first trend term: got %+v", terms[10])
	}
}

func newTestScraper(fetch fetchFunc) *Scraper {
	cfg := &config.Config{
		MaxConcurrency:         4,
		MaxRetries:             2,
		ListingsPerSearch:      20,
		TrendListingsPerSearch: 15,
	}
	s := New(cfg, utils.NewDiscardLogger())
	s.retry.BaseDelay = time.Millisecond
	s.fetch = fetch
	return s
}

func TestScrapeKeepsTermOrderAndSkipsFailures(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}

	s := newTestScraper(func(ctx context.Context, pageURL string) (string, error) {
		u, _ := url.Parse(pageURL)
		kw := u.Query().Get("_nkw")

		mu.Lock()
		calls[kw]++
		mu.Unlock()

		if kw == "Motors" {
			return "", errors.New("connection reset")
		}
		return fmt.Sprintf(`<ul><li class="s-item"><a class="s-item__link" href="https://www.ebay.com/itm/%s">`+
			`<div class="s-item__title">%s item</div></a></li></ul>`, url.PathEscape(kw), kw), nil
	})

	got, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}

	terms := SearchTerms(s.cfg)
	if len(got) != len(terms)-1 {
		t.Fatalf("got %d listings, want %d", len(got), len(terms)-1)
	}
	i := 0
	for _, term := range terms {
		if term.Keyword == "Motors" {
			continue
		}
		if got[i].SearchKeyword != term.Keyword {
			t.Errorf("listing %d: keyword %q, want %q", i, got[i].SearchKeyword, term.Keyword)
		}
		i++
	}
	if calls["Motors"] != 2 {
		t.Errorf("failing term fetched %d times, want 2", calls["Motors"])
	}
}

func TestScrapeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestScraper(func(context.Context, string) (string, error) {
		return resultsPage, nil
	})
	if _, err := s.Scrape(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
