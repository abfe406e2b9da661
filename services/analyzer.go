package services

import (
	"time"

	"ebay-research/models"
	"ebay-research/scoring"
	"ebay-research/utils"
)

// Analyzer runs the scoring, categorizing and summarizing steps over a batch.
type Analyzer struct {
	engine   *scoring.Engine
	insights *InsightService
	logger   *utils.Logger
	topN     int
	now      func() time.Time
}

// NewAnalyzer wires an Analyzer around a scoring engine. topN bounds the
// top-selling and high-potential lists.
func NewAnalyzer(engine *scoring.Engine, logger *utils.Logger, topN int) *Analyzer {
	if topN <= 0 {
		topN = 10
	}
	return &Analyzer{
		engine:   engine,
		insights: NewInsightService(logger),
		logger:   logger,
		topN:     topN,
		now:      time.Now,
	}
}

// Analyze scores every listing and builds the full research result.
func (a *Analyzer) Analyze(listings []*models.Listing) *models.ResearchResult {
	a.logger.Info("[scoring] Scoring %d listings", len(listings))
	scored := a.engine.ScoreAll(listings)
	return a.Summarize(scored)
}

// Summarize builds a result from listings that already carry scores, e.g.
// ones read back from storage. Scores are not recomputed.
func (a *Analyzer) Summarize(scored []*models.ScoredListing) *models.ResearchResult {
	scoring.SortByScore(scored)
	tiers := scoring.Categorize(scored)
	report := a.insights.Generate(scored)

	result := &models.ResearchResult{
		Timestamp:             a.now(),
		TotalProductsAnalyzed: len(scored),
		TopSellingProducts:    head(scored, a.topN),
		HighPotentialProducts: head(tiers[models.TierHigh], a.topN),
		Tiers:                 tiers,
		Insights:              report,
	}

	a.logger.Info("[scoring] %d high / %d medium / %d low / %d poor potential",
		len(tiers[models.TierHigh]), len(tiers[models.TierMedium]),
		len(tiers[models.TierLow]), len(tiers[models.TierPoor]))
	return result
}

func head(list []*models.ScoredListing, n int) []*models.ScoredListing {
	if len(list) > n {
		list = list[:n]
	}
	out := make([]*models.ScoredListing, len(list))
	copy(out, list)
	return out
}
