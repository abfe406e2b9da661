package scoring

import (
	"fmt"

	"ebay-research/models"
)

// Tier thresholds; a score belongs to the first tier whose minimum it meets.
const (
	HighMin   = 80.0
	MediumMin = 60.0
	LowMin    = 40.0
)

// TierFor buckets a single aggregate score.
func TierFor(score float64) models.Tier {
	switch {
	case score >= HighMin:
		return models.TierHigh
	case score >= MediumMin:
		return models.TierMedium
	case score >= LowMin:
		return models.TierLow
	}
	return models.TierPoor
}

// Categorize partitions scored listings into the four tiers, labelling each
// listing with its tier. Every tier key is present; buckets keep input order
// and their sizes sum to len(scored). A nil entry is a caller bug and panics.
func Categorize(scored []*models.ScoredListing) map[models.Tier][]*models.ScoredListing {
	buckets := make(map[models.Tier][]*models.ScoredListing, len(models.Tiers))
	for _, t := range models.Tiers {
		buckets[t] = []*models.ScoredListing{}
	}

	for i, s := range scored {
		if s == nil {
			panic(fmt.Sprintf("scoring: Categorize: nil listing at index %d", i))
		}
		tier := TierFor(s.AdvancedScore)
		s.Tier = tier
		buckets[tier] = append(buckets[tier], s)
	}
	return buckets
}
