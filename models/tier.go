package models

// Tier is the resale potential bucket derived from an aggregate score.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	TierPoor   Tier = "poor"
)

// Tiers lists every tier from best to worst.
var Tiers = []Tier{TierHigh, TierMedium, TierLow, TierPoor}

// Label is the key used for the tier in reports, e.g. "high_potential".
func (t Tier) Label() string {
	return string(t) + "_potential"
}
