package scoring

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights is returned by NewEngine when the configuration cannot
// produce a meaningful score.
var ErrInvalidWeights = errors.New("invalid scoring configuration")

// WeightedPattern pairs a case-insensitive substring with a multiplier.
// Tables of patterns are ordered; order decides ties.
type WeightedPattern struct {
	Pattern string
	Weight  float64
}

// PriceBand is a half-open price interval [Min, Max) with a multiplier.
type PriceBand struct {
	Min        float64
	Max        float64
	Multiplier float64
}

// Step awards Score when a count is at least Min.
type Step struct {
	Min   int
	Score float64
}

// Tables is the static configuration the field scorers read from.
type Tables struct {
	Categories []WeightedPattern
	Trends     []WeightedPattern
	PriceBands []PriceBand
	SalesSteps []Step
	WatchSteps []Step
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Categories: []WeightedPattern{
			{"Clothing, Shoes & Accessories", 1.2},
			{"Home & Garden", 1.1},
			{"Health & Beauty", 1.3},
			{"Electronics", 1.0},
			{"Jewelry & Watches", 0.9},
			{"Collectibles", 0.8},
			{"Sporting Goods", 1.0},
			{"Toys & Hobbies", 1.1},
			{"Business & Industrial", 0.7},
			{"Motors", 0.6},
		},
		Trends: []WeightedPattern{
			{"trending", 1.5},
			{"hot selling", 1.4},
			{"best seller", 1.3},
			{"popular", 1.2},
			{"top rated", 1.1},
			{"most watched", 1.0},
			{"fast shipping", 0.8},
			{"new arrival", 1.0},
			{"limited edition", 1.2},
		},
		PriceBands: []PriceBand{
			{0, 10, 0.5},
			{10, 25, 1.0},
			{25, 50, 1.3},
			{50, 100, 1.5},
			{100, 250, 1.2},
			{250, 500, 1.0},
			{500, 1000, 0.8},
			{1000, math.Inf(1), 0.5},
		},
		SalesSteps: []Step{
			{1000, 100},
			{500, 90},
			{100, 80},
			{50, 70},
			{20, 60},
			{10, 50},
			{5, 40},
			{1, 30},
		},
		WatchSteps: []Step{
			{100, 100},
			{50, 80},
			{20, 60},
			{10, 40},
			{5, 30},
			{1, 20},
		},
	}
}

// clone copies every slice so an Engine never shares backing arrays with its caller.
func (t Tables) clone() Tables {
	return Tables{
		Categories: append([]WeightedPattern(nil), t.Categories...),
		Trends:     append([]WeightedPattern(nil), t.Trends...),
		PriceBands: append([]PriceBand(nil), t.PriceBands...),
		SalesSteps: append([]Step(nil), t.SalesSteps...),
		WatchSteps: append([]Step(nil), t.WatchSteps...),
	}
}

// Validate checks that bands are ordered and steps descend.
func (t Tables) Validate() error {
	for i, b := range t.PriceBands {
		if b.Max <= b.Min {
			return fmt.Errorf("%w: price band %d has max %.2f <= min %.2f", ErrInvalidWeights, i, b.Max, b.Min)
		}
		if i > 0 && b.Min < t.PriceBands[i-1].Max {
			return fmt.Errorf("%w: price band %d overlaps band %d", ErrInvalidWeights, i, i-1)
		}
	}
	for name, steps := range map[string][]Step{"sales": t.SalesSteps, "watch": t.WatchSteps} {
		for i := 1; i < len(steps); i++ {
			if steps[i].Min >= steps[i-1].Min {
				return fmt.Errorf("%w: %s steps must have descending minimums", ErrInvalidWeights, name)
			}
		}
	}
	return nil
}

// Weights is the share each sub-score contributes to the aggregate score.
type Weights struct {
	Price    float64
	Sales    float64
	Interest float64
	Category float64
	Trend    float64
	Shipping float64
	Seller   float64
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Price:    0.30,
		Sales:    0.25,
		Interest: 0.15,
		Category: 0.10,
		Trend:    0.10,
		Shipping: 0.05,
		Seller:   0.05,
	}
}

// Sum returns the total of all seven weights.
func (w Weights) Sum() float64 {
	return w.Price + w.Sales + w.Interest + w.Category + w.Trend + w.Shipping + w.Seller
}

// Validate requires non-negative weights summing to 1.00.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Price, w.Sales, w.Interest, w.Category, w.Trend, w.Shipping, w.Seller} {
		if v < 0 {
			return fmt.Errorf("%w: negative weight %.2f", ErrInvalidWeights, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %.4f, want 1.00", ErrInvalidWeights, sum)
	}
	return nil
}
