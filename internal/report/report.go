// Package report renders resolution output: the human-readable match
// report, the corrections round-trip file, and the Lines spreadsheet.
package report

import (
	"github.com/Antagata/Month-recap-AVU/internal/catalog"
	"github.com/Antagata/Month-recap-AVU/internal/model"
)

// Entry pairs a mention with its resolution and, when resolved, the
// catalog row behind it.
type Entry struct {
	Mention model.Mention
	Result  model.MatchResult
	Item    *catalog.Item
}

// Build assembles report entries in input order, resolving item ids back
// to catalog rows. Prefers the row whose source price matches the
// mention, falling back to the newest row for the id.
func Build(idx *catalog.Index, mentions []model.Mention, results []model.MatchResult) []Entry {
	entries := make([]Entry, len(mentions))
	for i := range mentions {
		e := Entry{Mention: mentions[i], Result: results[i]}
		if results[i].ItemID != nil {
			e.Item = pickRow(idx, *results[i].ItemID, mentions[i].SourcePrice)
		}
		entries[i] = e
	}
	return entries
}

// NeedsReview reports whether an entry belongs in the corrections file:
// fallbacks always, and price-only matches whose name was never verified.
func NeedsReview(e Entry) bool {
	switch e.Result.Tier {
	case model.TierFallback, model.TierPriceUnique:
		return true
	}
	return false
}

func pickRow(idx *catalog.Index, id int64, rawPrice string) *catalog.Item {
	rows := idx.ByItemID(id)
	if len(rows) == 0 {
		return nil
	}
	if price, ok := parsePrice(rawPrice); ok {
		for i := range rows {
			if rows[i].Eligible() && catalog.SamePrice(rows[i].SourcePrice, price) {
				return &rows[i]
			}
		}
	}
	return &rows[0]
}
