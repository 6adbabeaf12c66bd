package catalog

import (
	"math"
	"sort"

	"github.com/Antagata/Month-recap-AVU/internal/model"
)

// contextKey is the bulletproof lookup key: four independent signals
// agreeing removes ambiguity entirely.
type contextKey struct {
	itemID  int64
	vintage model.Vintage
	sizeCl  int64 // size * 10, avoids float map keys
	minQty  int
}

// Index provides read-only lookups over the catalog. Built once per run;
// safe for concurrent readers afterward.
type Index struct {
	byID      map[int64][]Item
	byPrice   map[int64][]Item // key: price in cents
	byContext map[contextKey]Item
	size      int
}

// NewIndex builds all indices from the loaded catalog rows. Candidate
// lists preserve a deterministic order: latest campaign first, item id as
// the final tie-break.
func NewIndex(items []Item) *Index {
	idx := &Index{
		byID:      make(map[int64][]Item),
		byPrice:   make(map[int64][]Item),
		byContext: make(map[contextKey]Item),
		size:      len(items),
	}

	for _, it := range items {
		idx.byID[it.ItemID] = append(idx.byID[it.ItemID], it)
		idx.byPrice[cents(it.SourcePrice)] = append(idx.byPrice[cents(it.SourcePrice)], it)

		key := contextKey{it.ItemID, it.Vintage, tenths(it.Size), it.MinQuantity}
		if it.Eligible() {
			// Latest campaign wins when the same context appears twice.
			if prev, ok := idx.byContext[key]; !ok || it.CampaignTime.After(prev.CampaignTime) {
				idx.byContext[key] = it
			}
		}
	}

	for _, m := range []map[int64][]Item{idx.byID, idx.byPrice} {
		for _, list := range m {
			sort.SliceStable(list, func(i, j int) bool {
				if !list[i].CampaignTime.Equal(list[j].CampaignTime) {
					return list[i].CampaignTime.After(list[j].CampaignTime)
				}
				return list[i].ItemID < list[j].ItemID
			})
		}
	}

	return idx
}

// Len returns the number of indexed rows.
func (idx *Index) Len() int { return idx.size }

// ByItemID returns all rows for an identifier (different sizes, quantity
// tiers or campaigns may share one id).
func (idx *Index) ByItemID(id int64) []Item {
	return idx.byID[id]
}

// BySourcePrice returns all rows whose source price equals the given
// amount to the cent.
func (idx *Index) BySourcePrice(price float64) []Item {
	return idx.byPrice[cents(price)]
}

// ByIdentifierAndContext performs the bulletproof lookup: exact identifier,
// vintage, size and quantity tier, restricted to eligible campaign rows.
func (idx *Index) ByIdentifierAndContext(id int64, vintage model.Vintage, size float64, minQty int) (Item, bool) {
	it, ok := idx.byContext[contextKey{id, vintage, tenths(size), minQty}]
	return it, ok
}

// SamePrice reports whether two amounts agree to the cent.
func SamePrice(a, b float64) bool {
	return cents(a) == cents(b)
}

func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func tenths(v float64) int64 {
	return int64(math.Round(v * 10))
}
