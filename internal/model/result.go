package model

// Tier identifies which cascade stage produced a match.
type Tier string

const (
	TierLearned     Tier = "learned"      // learning store hit
	TierItemExact   Tier = "item_exact"   // identifier + vintage + size + quantity agreement
	TierPriceUnique Tier = "price_unique" // single catalog row shares the source price
	TierFuzzy       Tier = "fuzzy"        // name similarity above threshold
	TierFallback    Tier = "fallback"     // factor conversion, needs human review
)

// MatchResult is the outcome of resolving a single mention. Exactly one is
// produced per input mention, in input order. ItemID and TargetPrice are nil
// only for fallback results without a resolvable catalog reference.
type MatchResult struct {
	SequenceIndex int      `json:"sequence_index"`
	ItemID        *int64   `json:"item_id,omitempty"`
	TargetPrice   *float64 `json:"target_price,omitempty"`
	Tier          Tier     `json:"tier"`
	Confidence    float64  `json:"confidence"`
	Reason        string   `json:"reason,omitempty"`
}

// Resolved reports whether the result carries a catalog reference.
func (r MatchResult) Resolved() bool {
	return r.ItemID != nil
}
