package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"ebay-research/models"
	"ebay-research/utils"
)

// topTrendCount is how many title keywords the report keeps.
const topTrendCount = 10

// wordRegexp matches alphabetic words of three or more letters.
var wordRegexp = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "a": {}, "an": {},
}

// priceEdges are the histogram bucket boundaries; the last bucket is open.
var priceEdges = []float64{0, 25, 50, 100, 250, 500}

// InsightService summarizes a fully scored batch.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the insight report. Means and price statistics are
// exact; rounding is left to the presentation layer. An empty batch yields
// a zeroed report with an all-zero histogram. A nil entry is a caller bug
// and panics.
func (s *InsightService) Generate(scored []*models.ScoredListing) *models.InsightReport {
	report := &models.InsightReport{
		PriceAnalysis:       models.PriceAnalysis{PriceRanges: newPriceRanges()},
		CategoryPerformance: make(map[string]float64),
		TopTrends:           []models.KeywordFrequency{},
	}

	if len(scored) == 0 {
		s.logger.Warn("[insights] Empty batch, returning zeroed report")
		return report
	}

	var (
		scoreTotal float64
		prices     []float64
		titles     []string
	)
	termTotals := make(map[string]float64)
	termCounts := make(map[string]int)

	for i, l := range scored {
		if l == nil {
			panic(fmt.Sprintf("insights: Generate: nil listing at index %d", i))
		}
		report.TotalProducts++
		scoreTotal += l.AdvancedScore
		countTier(&report.ScoreDistribution, l.AdvancedScore)

		if l.HasPrice {
			prices = append(prices, l.Price)
		}
		termTotals[l.SearchKeyword] += l.AdvancedScore
		termCounts[l.SearchKeyword]++
		titles = append(titles, l.Title)
	}

	if report.TotalProducts > 0 {
		report.AverageScore = scoreTotal / float64(report.TotalProducts)
	}
	for term, total := range termTotals {
		report.CategoryPerformance[term] = total / float64(termCounts[term])
	}

	s.analysePrices(&report.PriceAnalysis, prices)
	report.TopTrends = extractTrendingKeywords(titles, topTrendCount)

	s.logger.Info("[insights] Summarized %d listings — avg score %.2f, %d priced",
		report.TotalProducts, report.AverageScore, len(prices))
	return report
}

// countTier applies the tier thresholds directly rather than reusing the
// categorizer, so the two can be checked against each other.
func countTier(c *models.TierCounts, score float64) {
	switch {
	case score >= 80:
		c.High++
	case score >= 60:
		c.Medium++
	case score >= 40:
		c.Low++
	default:
		c.Poor++
	}
}

func (s *InsightService) analysePrices(pa *models.PriceAnalysis, prices []float64) {
	if len(prices) == 0 {
		return
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	var total float64
	for _, p := range sorted {
		total += p
		pa.PriceRanges[priceBucket(p)].Count++
	}

	pa.AveragePrice = total / float64(len(sorted))
	pa.MedianPrice = median(sorted)
	pa.MinPrice = sorted[0]
	pa.MaxPrice = sorted[len(sorted)-1]
}

func newPriceRanges() []models.PriceRange {
	ranges := []models.PriceRange{
		{Label: "$0-$25"},
		{Label: "$25-$50"},
		{Label: "$50-$100"},
		{Label: "$100-$250"},
		{Label: "$250-$500"},
		{Label: "$500+"},
	}
	for i := range ranges {
		ranges[i].Min = priceEdges[i]
		if i+1 < len(priceEdges) {
			ranges[i].Max = priceEdges[i+1]
		}
	}
	return ranges
}

// priceBucket returns the histogram index for a price.
func priceBucket(p float64) int {
	for i := len(priceEdges) - 1; i > 0; i-- {
		if p >= priceEdges[i] {
			return i
		}
	}
	return 0
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// extractTrendingKeywords counts significant title words and returns the
// most frequent, ties going to the word seen first.
func extractTrendingKeywords(titles []string, limit int) []models.KeywordFrequency {
	counts := make(map[string]int)
	var order []string

	for _, title := range titles {
		for _, word := range wordRegexp.FindAllString(strings.ToLower(title), -1) {
			if _, stop := stopWords[word]; stop {
				continue
			}
			if counts[word] == 0 {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}

	trends := make([]models.KeywordFrequency, 0, len(order))
	for _, word := range order {
		trends = append(trends, models.KeywordFrequency{Keyword: word, Frequency: counts[word]})
	}
	return trends
}
