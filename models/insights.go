package models

import "time"

// TierCounts is the number of listings per potential tier.
type TierCounts struct {
	High   int `json:"high_potential"`
	Medium int `json:"medium_potential"`
	Low    int `json:"low_potential"`
	Poor   int `json:"poor_potential"`
}

// Total returns the sum over all four tiers.
func (c TierCounts) Total() int {
	return c.High + c.Medium + c.Low + c.Poor
}

// Of returns the count for one tier.
func (c TierCounts) Of(t Tier) int {
	switch t {
	case TierHigh:
		return c.High
	case TierMedium:
		return c.Medium
	case TierLow:
		return c.Low
	case TierPoor:
		return c.Poor
	}
	return 0
}

// PriceRange is one bucket of the price histogram, covering [Min, Max).
// A zero Max marks the open-ended last bucket.
type PriceRange struct {
	Label string  `json:"range"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max,omitempty"`
	Count int     `json:"count"`
}

// PriceAnalysis holds price statistics over listings with a known price.
type PriceAnalysis struct {
	AveragePrice float64      `json:"average_price"`
	MedianPrice  float64      `json:"median_price"`
	MinPrice     float64      `json:"min_price"`
	MaxPrice     float64      `json:"max_price"`
	PriceRanges  []PriceRange `json:"price_ranges"`
}

// KeywordFrequency is a title word and how many times it appeared.
type KeywordFrequency struct {
	Keyword   string `json:"keyword"`
	Frequency int    `json:"frequency"`
}

// InsightReport holds the computed analytics over a scored batch.
type InsightReport struct {
	TotalProducts       int                `json:"total_products"`
	AverageScore        float64            `json:"average_score"`
	ScoreDistribution   TierCounts         `json:"score_distribution"`
	PriceAnalysis       PriceAnalysis      `json:"price_analysis"`
	CategoryPerformance map[string]float64 `json:"category_performance"`
	TopTrends           []KeywordFrequency `json:"top_trends"`
}

// ResearchResult is everything one analysis run emits.
type ResearchResult struct {
	Timestamp             time.Time                 `json:"timestamp"`
	TotalProductsAnalyzed int                       `json:"total_products_analyzed"`
	TopSellingProducts    []*ScoredListing          `json:"top_selling_products"`
	HighPotentialProducts []*ScoredListing          `json:"high_potential_products"`
	Tiers                 map[Tier][]*ScoredListing `json:"-"`
	Insights              *InsightReport            `json:"insights"`
}
