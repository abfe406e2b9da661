package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// Neutral is returned by the table-driven scorers when nothing matched.
const Neutral = 50.0

// feedbackRegexp captures a feedback percentage such as "99.5% positive".
var feedbackRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)%\s+positive`)

// PriceScore maps a price onto the first band containing it and returns
// 100 × multiplier. Non-positive prices score 0; a price no band covers
// scores Neutral.
func PriceScore(price float64, bands []PriceBand) float64 {
	if !(price > 0) {
		return 0
	}
	for _, b := range bands {
		if b.Min <= price && price < b.Max {
			return 100 * b.Multiplier
		}
	}
	return Neutral
}

// SalesScore is a step function of the sold count.
func SalesScore(sold int, steps []Step) float64 {
	return stepScore(sold, steps)
}

// InterestScore is a step function of the watcher count.
func InterestScore(watchers int, steps []Step) float64 {
	return stepScore(watchers, steps)
}

func stepScore(n int, steps []Step) float64 {
	if n <= 0 {
		return 0
	}
	for _, s := range steps {
		if n >= s.Min {
			return s.Score
		}
	}
	return 0
}

// CategoryScore returns 100 × weight of the first category contained in the
// search term. The second result reports whether any category matched.
func CategoryScore(searchTerm string, categories []WeightedPattern) (float64, bool) {
	term := strings.ToLower(searchTerm)
	for _, c := range categories {
		if strings.Contains(term, strings.ToLower(c.Pattern)) {
			return 100 * c.Weight, true
		}
	}
	return Neutral, false
}

// TrendScore returns 100 × weight of the heaviest trend phrase found in
// either the title or the search term.
func TrendScore(title, searchTerm string, trends []WeightedPattern) (float64, bool) {
	title = strings.ToLower(title)
	term := strings.ToLower(searchTerm)

	best, matched := 0.0, false
	for _, tr := range trends {
		phrase := strings.ToLower(tr.Pattern)
		if !strings.Contains(title, phrase) && !strings.Contains(term, phrase) {
			continue
		}
		if score := 100 * tr.Weight; !matched || score > best {
			best = score
		}
		matched = true
	}
	if !matched {
		return Neutral, false
	}
	return best, true
}

// ShippingScore rewards free, then fast, then standard shipping.
func ShippingScore(shipping string) float64 {
	s := strings.ToLower(shipping)
	switch {
	case strings.Contains(s, "free"):
		return 100
	case strings.Contains(s, "fast"), strings.Contains(s, "express"):
		return 80
	case strings.Contains(s, "standard"):
		return 60
	}
	return 40
}

// SellerScore reads the "NN.N% positive" feedback out of the seller text.
func SellerScore(seller string) float64 {
	if seller == "" {
		return Neutral
	}
	m := feedbackRegexp.FindStringSubmatch(strings.ToLower(seller))
	if len(m) < 2 {
		return Neutral
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Neutral
	}

	switch {
	case pct >= 99:
		return 100
	case pct >= 95:
		return 80
	case pct >= 90:
		return 60
	case pct >= 85:
		return 40
	}
	return 20
}
