package services

import (
	"fmt"
	"testing"

	"ebay-research/models"
	"ebay-research/scoring"
)

func TestAnalyzerEndToEnd(t *testing.T) {
	a := NewAnalyzer(scoring.NewDefaultEngine(scoring.WithWorkers(4)), newTestLogger(), 10)

	listings := []*models.Listing{
		{Title: "Plain Mug"},
		{
			Title: "Best Selling iPhone Case", Price: 60, HasPrice: true, SoldCount: 150,
			Watchers: 25, Shipping: "Free shipping", Seller: "x 99.5% positive", SearchKeyword: "Electronics",
		},
		{
			Title: "Trending Fashion T-Shirt", Price: 15.5, HasPrice: true, SoldCount: 75,
			Watchers: 12, Shipping: "Standard shipping", Seller: "fashionstore 98% positive (500)",
			SearchKeyword: "Clothing, Shoes & Accessories",
		},
	}

	r := a.Analyze(listings)
	if r.TotalProductsAnalyzed != 3 {
		t.Errorf("TotalProductsAnalyzed: got %d, want 3", r.TotalProductsAnalyzed)
	}
	if r.TopSellingProducts[0].Title != "Best Selling iPhone Case" {
		t.Errorf("top product: got %q", r.TopSellingProducts[0].Title)
	}
	if r.TopSellingProducts[0].AdvancedScore != 99 {
		t.Errorf("top score: got %.2f, want 99.00", r.TopSellingProducts[0].AdvancedScore)
	}
	if r.TopSellingProducts[2].AdvancedScore != 14.5 {
		t.Errorf("last score: got %.2f, want 14.50", r.TopSellingProducts[2].AdvancedScore)
	}

	// T-shirt: 100×0.30 + 70×0.25 + 40×0.15 + 120×0.10 + 150×0.10 + 60×0.05 + 80×0.05 = 87.5
	if got := r.TopSellingProducts[1].AdvancedScore; got != 87.5 {
		t.Errorf("t-shirt score: got %.2f, want 87.50", got)
	}

	if len(r.HighPotentialProducts) != 2 {
		t.Errorf("HighPotentialProducts: got %d, want 2", len(r.HighPotentialProducts))
	}
	for _, s := range r.HighPotentialProducts {
		if s.Tier != models.TierHigh {
			t.Errorf("%q in high potential list has tier %s", s.Title, s.Tier)
		}
	}
	if r.Insights.TotalProducts != 3 {
		t.Errorf("Insights.TotalProducts: got %d, want 3", r.Insights.TotalProducts)
	}
}

func TestAnalyzerTopNBound(t *testing.T) {
	a := NewAnalyzer(scoring.NewDefaultEngine(), newTestLogger(), 3)

	var listings []*models.Listing
	for i := 0; i < 8; i++ {
		listings = append(listings, &models.Listing{
			Title: fmt.Sprintf("Hot Selling gadget %d", i), Price: 75, SoldCount: 1000,
			Watchers: 100, Shipping: "free", SearchKeyword: "Electronics",
		})
	}

	r := a.Analyze(listings)
	if len(r.TopSellingProducts) != 3 {
		t.Errorf("TopSellingProducts: got %d, want 3", len(r.TopSellingProducts))
	}
	if len(r.HighPotentialProducts) != 3 {
		t.Errorf("HighPotentialProducts: got %d, want 3", len(r.HighPotentialProducts))
	}
	if r.TopSellingProducts[0].Title != "Hot Selling gadget 0" {
		t.Errorf("tie order: got %q first", r.TopSellingProducts[0].Title)
	}
	if len(r.Tiers[models.TierHigh]) != 8 {
		t.Errorf("high tier: got %d, want 8", len(r.Tiers[models.TierHigh]))
	}
}

func TestAnalyzerSummarizeKeepsScores(t *testing.T) {
	a := NewAnalyzer(scoring.NewDefaultEngine(), newTestLogger(), 10)
	stored := []*models.ScoredListing{
		scoredListing("Stored low", "Motors", 5, 12),
		scoredListing("Stored high", "Motors", 80, 88),
	}

	r := a.Summarize(stored)
	if r.TopSellingProducts[0].Title != "Stored high" || r.TopSellingProducts[0].AdvancedScore != 88 {
		t.Errorf("Summarize should reorder but not rescore: got %+v", r.TopSellingProducts[0])
	}
	if r.Insights.ScoreDistribution.Poor != 1 {
		t.Errorf("Poor: got %d, want 1", r.Insights.ScoreDistribution.Poor)
	}
}

func TestAnalyzerEmptyBatch(t *testing.T) {
	a := NewAnalyzer(scoring.NewDefaultEngine(), newTestLogger(), 10)
	r := a.Analyze(nil)

	if r.TotalProductsAnalyzed != 0 || len(r.TopSellingProducts) != 0 {
		t.Errorf("expected empty result, got %+v", r)
	}
	if r.Insights == nil || r.Insights.TotalProducts != 0 {
		t.Errorf("expected zeroed insights, got %+v", r.Insights)
	}
}
