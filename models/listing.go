package models

import "time"

// RawListing holds unprocessed scraped data directly from the search page.
// This is written to CSV before any cleaning or transformation.
type RawListing struct {
	Title         string
	RawPrice      string
	RawSold       string
	RawWatchers   string
	Shipping      string
	Seller        string
	SearchKeyword string
	URL           string
	ImageURL      string
	ScrapedAt     time.Time
}

// Listing is the cleaned, typed record the scoring engine consumes.
// Every field has a usable zero value, so a partially filled Listing
// always scores.
type Listing struct {
	Title         string    `json:"title"`
	Price         float64   `json:"price"`
	HasPrice      bool      `json:"-"`
	SoldCount     int       `json:"sold_count"`
	Watchers      int       `json:"watchers"`
	Shipping      string    `json:"shipping"`
	Seller        string    `json:"seller"`
	SearchKeyword string    `json:"search_keyword"`
	URL           string    `json:"url"`
	ImageURL      string    `json:"image_url"`
	ScrapedAt     string    `json:"scraped_at"`
	CreatedAt     time.Time `json:"-"`
}

// ScoredListing is a Listing with its aggregate score. It is produced once
// by the scoring engine; the categorizer only fills in Tier.
type ScoredListing struct {
	Listing
	AdvancedScore     float64   `json:"advanced_score"`
	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
	Tier              Tier      `json:"tier,omitempty"`
}
