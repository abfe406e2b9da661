package scoring

import (
	"math"
	"sort"
	"time"

	"ebay-research/models"
	"ebay-research/utils"
)

// Breakdown shows the per-factor sub-scores behind an aggregate score.
type Breakdown struct {
	Price    float64 `json:"price"`
	Sales    float64 `json:"sales"`
	Interest float64 `json:"interest"`
	Category float64 `json:"category"`
	Trend    float64 `json:"trend"`
	Shipping float64 `json:"shipping"`
	Seller   float64 `json:"seller"`

	// CategoryMatched and TrendMatched are false when the sub-score is the
	// Neutral default rather than a table hit.
	CategoryMatched bool `json:"category_matched"`
	TrendMatched    bool `json:"trend_matched"`

	Total float64 `json:"total"`
}

// Engine computes aggregate scores from a fixed set of tables and weights.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	tables  Tables
	weights Weights
	workers int
	now     func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithWorkers sets how many goroutines ScoreAll uses.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithClock replaces time.Now for analysis timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine validates the configuration and returns a ready Engine.
func NewEngine(tables Tables, weights Weights, opts ...Option) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		tables:  tables.clone(),
		weights: weights,
		workers: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewDefaultEngine builds an Engine from DefaultTables and DefaultWeights.
func NewDefaultEngine(opts ...Option) *Engine {
	e, err := NewEngine(DefaultTables(), DefaultWeights(), opts...)
	if err != nil {
		// The built-in tables are constants; failing here is a programming error.
		panic(err)
	}
	return e
}

// Breakdown computes every sub-score and the weighted, rounded total.
func (e *Engine) Breakdown(l *models.Listing) Breakdown {
	var b Breakdown
	if l == nil {
		l = &models.Listing{}
	}

	b.Price = PriceScore(l.Price, e.tables.PriceBands)
	b.Sales = SalesScore(l.SoldCount, e.tables.SalesSteps)
	b.Interest = InterestScore(l.Watchers, e.tables.WatchSteps)
	b.Category, b.CategoryMatched = CategoryScore(l.SearchKeyword, e.tables.Categories)
	b.Trend, b.TrendMatched = TrendScore(l.Title, l.SearchKeyword, e.tables.Trends)
	b.Shipping = ShippingScore(l.Shipping)
	b.Seller = SellerScore(l.Seller)

	w := e.weights
	total := b.Price*w.Price +
		b.Sales*w.Sales +
		b.Interest*w.Interest +
		b.Category*w.Category +
		b.Trend*w.Trend +
		b.Shipping*w.Shipping +
		b.Seller*w.Seller

	b.Total = Round2(clamp(total, 0, 100))
	return b
}

// Score returns the aggregate score for a single listing.
func (e *Engine) Score(l *models.Listing) float64 {
	return e.Breakdown(l).Total
}

// ScoreAll scores every listing and returns them sorted by score
// descending. Listings with equal scores keep their input order.
func (e *Engine) ScoreAll(listings []*models.Listing) []*models.ScoredListing {
	scored := make([]*models.ScoredListing, len(listings))

	pool := utils.NewWorkerPool(e.workers, 0)
	for i, l := range listings {
		i, l := i, l
		pool.Submit(func() {
			scored[i] = e.stamp(l)
		})
	}
	pool.Wait()

	SortByScore(scored)
	return scored
}

func (e *Engine) stamp(l *models.Listing) *models.ScoredListing {
	s := &models.ScoredListing{
		AdvancedScore:     e.Score(l),
		AnalysisTimestamp: e.now(),
	}
	if l != nil {
		s.Listing = *l
	}
	return s
}

// SortByScore orders listings by score descending, stable on input order.
func SortByScore(listings []*models.ScoredListing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].AdvancedScore > listings[j].AdvancedScore
	})
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func clamp(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}
