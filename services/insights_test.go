package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"ebay-research/models"
	"ebay-research/scoring"
)

func scoredListing(title, keyword string, price float64, score float64) *models.ScoredListing {
	return &models.ScoredListing{
		Listing: models.Listing{
			Title:         title,
			Price:         price,
			HasPrice:      price > 0,
			SearchKeyword: keyword,
		},
		AdvancedScore: score,
	}
}

func sampleScored() []*models.ScoredListing {
	return []*models.ScoredListing{
		scoredListing("Best Selling iPhone Case", "Electronics", 60, 92),
		scoredListing("Best Selling Phone Case", "Electronics", 20, 70),
		scoredListing("Trending Fashion T-Shirt", "trending", 15.5, 55),
		scoredListing("Vintage Lamp for the Desk", "Home & Garden", 300, 35),
		scoredListing("Mystery Box", "Collectibles", 0, 20),
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleScored())

	if r.TotalProducts != 5 {
		t.Errorf("TotalProducts: got %d, want 5", r.TotalProducts)
	}
	if r.AverageScore != 54.4 {
		t.Errorf("AverageScore: got %.2f, want 54.40", r.AverageScore)
	}

	want := models.TierCounts{High: 1, Medium: 1, Low: 1, Poor: 2}
	if r.ScoreDistribution != want {
		t.Errorf("ScoreDistribution: got %+v, want %+v", r.ScoreDistribution, want)
	}
}

func TestInsightDistributionMatchesCategorizer(t *testing.T) {
	listings := sampleScored()
	r := NewInsightService(newTestLogger()).Generate(listings)
	buckets := scoring.Categorize(listings)

	for tier, list := range buckets {
		if got := r.ScoreDistribution.Of(tier); got != len(list) {
			t.Errorf("%s: insights counted %d, categorizer bucketed %d", tier, got, len(list))
		}
	}
	if r.ScoreDistribution.Total() != len(listings) {
		t.Errorf("distribution total: got %d, want %d", r.ScoreDistribution.Total(), len(listings))
	}
}

func TestInsightPrices(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(sampleScored())
	pa := r.PriceAnalysis

	// The zero-priced listing has no known price and is excluded.
	if pa.AveragePrice != 98.875 {
		t.Errorf("AveragePrice: got %v, want 98.875", pa.AveragePrice)
	}
	if pa.MedianPrice != 40 {
		t.Errorf("MedianPrice: got %.2f, want 40", pa.MedianPrice)
	}
	if pa.MinPrice != 15.5 {
		t.Errorf("MinPrice: got %.2f, want 15.50", pa.MinPrice)
	}
	if pa.MaxPrice != 300 {
		t.Errorf("MaxPrice: got %.2f, want 300", pa.MaxPrice)
	}
}

func TestInsightPriceHistogram(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(sampleScored())

	got := make([]int, 0, 6)
	total := 0
	for _, pr := range r.PriceAnalysis.PriceRanges {
		got = append(got, pr.Count)
		total += pr.Count
	}
	want := []int{2, 0, 1, 0, 1, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("histogram mismatch (-want +got):\n%s", diff)
	}
	if total != 4 {
		t.Errorf("histogram total: got %d, want 4", total)
	}
}

func TestInsightMeansAreNotRounded(t *testing.T) {
	listings := []*models.ScoredListing{
		scoredListing("Brass Hook", "Home & Garden", 10.004, 10.01),
		scoredListing("Brass Hinge", "Home & Garden", 10.004, 10.02),
	}
	r := NewInsightService(newTestLogger()).Generate(listings)

	approx := cmpopts.EquateApprox(0, 1e-9)
	if !cmp.Equal(r.AverageScore, 10.015, approx) {
		t.Errorf("AverageScore: got %v, want 10.015", r.AverageScore)
	}
	if !cmp.Equal(r.CategoryPerformance["Home & Garden"], 10.015, approx) {
		t.Errorf("CategoryPerformance: got %v, want 10.015", r.CategoryPerformance["Home & Garden"])
	}

	pa := r.PriceAnalysis
	for name, got := range map[string]float64{
		"AveragePrice": pa.AveragePrice,
		"MedianPrice":  pa.MedianPrice,
		"MinPrice":     pa.MinPrice,
		"MaxPrice":     pa.MaxPrice,
	} {
		if !cmp.Equal(got, 10.004, approx) {
			t.Errorf("%s: got %v, want 10.004", name, got)
		}
	}
}

func TestPriceBucketEdges(t *testing.T) {
	tests := []struct {
		price float64
		want  int
	}{
		{0, 0},
		{24.99, 0},
		{25, 1},
		{50, 2},
		{100, 3},
		{250, 4},
		{499.99, 4},
		{500, 5},
		{10000, 5},
	}

	for _, tt := range tests {
		if got := priceBucket(tt.price); got != tt.want {
			t.Errorf("priceBucket(%v) = %d; want %d", tt.price, got, tt.want)
		}
	}
}

func TestInsightCategoryPerformance(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(sampleScored())

	want := map[string]float64{
		"Electronics":   81,
		"trending":      55,
		"Home & Garden": 35,
		"Collectibles":  20,
	}
	if diff := cmp.Diff(want, r.CategoryPerformance); diff != "" {
		t.Errorf("CategoryPerformance mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractTrendingKeywords(t *testing.T) {
	got := extractTrendingKeywords([]string{"Best Selling iPhone Case", "Best Selling Phone Case"}, 10)

	want := []models.KeywordFrequency{
		{Keyword: "best", Frequency: 2},
		{Keyword: "selling", Frequency: 2},
		{Keyword: "case", Frequency: 2},
		{Keyword: "iphone", Frequency: 1},
		{Keyword: "phone", Frequency: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractTrendingKeywordsFiltersAndLimits(t *testing.T) {
	titles := []string{
		"The Lamp and the Desk for an Office",
		"alpha beta gamma delta epsilon zeta theta iota kappa lambda sigma",
		"Go 4K TV",
	}
	got := extractTrendingKeywords(titles, 10)

	if len(got) != 10 {
		t.Fatalf("len: got %d, want 10", len(got))
	}
	for _, kf := range got {
		if _, stop := stopWords[kf.Keyword]; stop {
			t.Errorf("stop word %q was kept", kf.Keyword)
		}
		if len(kf.Keyword) < 3 {
			t.Errorf("short word %q was kept", kf.Keyword)
		}
	}
	if got[0].Keyword != "lamp" {
		t.Errorf("first keyword: got %q, want lamp", got[0].Keyword)
	}
}

func TestInsightEmptyInput(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(nil)

	if r.TotalProducts != 0 || r.AverageScore != 0 {
		t.Errorf("expected zeroed report, got total=%d avg=%.2f", r.TotalProducts, r.AverageScore)
	}
	if len(r.PriceAnalysis.PriceRanges) != 6 {
		t.Fatalf("histogram buckets: got %d, want 6", len(r.PriceAnalysis.PriceRanges))
	}
	for _, pr := range r.PriceAnalysis.PriceRanges {
		if pr.Count != 0 {
			t.Errorf("bucket %s: got %d, want 0", pr.Label, pr.Count)
		}
	}
	if len(r.TopTrends) != 0 {
		t.Errorf("TopTrends: got %d, want 0", len(r.TopTrends))
	}
}

func TestInsightPanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a nil listing")
		}
	}()
	NewInsightService(newTestLogger()).Generate([]*models.ScoredListing{nil})
}
