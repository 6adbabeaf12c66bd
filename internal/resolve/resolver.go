// Package resolve implements the tiered resolution cascade: learning
// store, identifier-exact, price-unique, fuzzy name, and factor fallback.
// Tier priority is data (an ordered evaluator list), not control flow.
package resolve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Antagata/Month-recap-AVU/internal/catalog"
	"github.com/Antagata/Month-recap-AVU/internal/learning"
	"github.com/Antagata/Month-recap-AVU/internal/model"
	"github.com/Antagata/Month-recap-AVU/internal/normalize"
	"github.com/Antagata/Month-recap-AVU/internal/pricing"
)

// Options tunes the cascade. Zero values are replaced by defaults.
type Options struct {
	Threshold    float64 // minimum fuzzy score to accept (default 0.6)
	VintageBonus float64 // added on exact vintage agreement (default 0.1)
	BulkQuantity int     // quantity tier implied by a bulk hint (default 36)
	DefaultSize  float64 // bottle size assumed without a hint (default 75)
	Workers      int     // parallel workers for batches (default 1)
}

// DefaultOptions returns the cascade defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:    0.6,
		VintageBonus: 0.1,
		BulkQuantity: 36,
		DefaultSize:  model.SizeStandard,
		Workers:      1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Threshold == 0 {
		o.Threshold = d.Threshold
	}
	if o.VintageBonus == 0 {
		o.VintageBonus = d.VintageBonus
	}
	if o.BulkQuantity == 0 {
		o.BulkQuantity = d.BulkQuantity
	}
	if o.DefaultSize == 0 {
		o.DefaultSize = d.DefaultSize
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	return o
}

// tier pairs a tier name with its evaluator. Evaluators return (result,
// true) on a hit; the first hit short-circuits the rest of the cascade.
type tier struct {
	name model.Tier
	eval func(ctx context.Context, st *state) (model.MatchResult, bool)
}

// state carries the per-mention working set through the tiers.
type state struct {
	mention model.Mention
	price   float64
	key     learning.Key
	size    float64
	minQty  int

	learnedID  int64   // identifier inferred by tier 1, consumed by tier 2
	candidates int     // price candidates seen by tier 4
	bestScore  float64 // best fuzzy score, for the fallback reason
}

// Resolver runs the cascade over mentions. The catalog index is read-only;
// the learning store is the only shared mutable resource, and learned
// writes are batched until the whole input is resolved.
type Resolver struct {
	idx   *catalog.Index
	store learning.Store
	conv  pricing.Converter
	opts  Options
	tiers []tier
}

// New creates a Resolver. The store may be nil, disabling tier 1 and
// auto-learning.
func New(idx *catalog.Index, store learning.Store, conv pricing.Converter, opts Options) *Resolver {
	r := &Resolver{
		idx:   idx,
		store: store,
		conv:  conv,
		opts:  opts.withDefaults(),
	}
	r.tiers = []tier{
		{model.TierLearned, r.evalLearned},
		{model.TierItemExact, r.evalItemExact},
		{model.TierPriceUnique, r.evalPriceUnique},
		{model.TierFuzzy, r.evalFuzzy},
	}
	return r
}

// Resolve runs the cascade for one mention. It never fails: malformed
// prices and missing catalog references degrade to the fallback tier.
func (r *Resolver) Resolve(ctx context.Context, m model.Mention) model.MatchResult {
	res, _ := r.resolve(ctx, m)
	return res
}

// resolve additionally reports whether the result should be recorded to
// the learning store (resolved by tiers 2-4 with a usable name).
func (r *Resolver) resolve(ctx context.Context, m model.Mention) (model.MatchResult, bool) {
	price, err := normalize.ParsePrice(m.SourcePrice)
	if err != nil {
		zap.L().Warn("resolve: unparseable price",
			zap.Int("sequence", m.SequenceIndex),
			zap.String("price", m.SourcePrice),
		)
		return model.MatchResult{
			SequenceIndex: m.SequenceIndex,
			Tier:          model.TierFallback,
			Reason:        "unparseable price",
		}, false
	}

	st := &state{
		mention: m,
		price:   price,
		key:     learning.NewKey(m.NameFragment, m.Vintage),
		size:    m.Size,
		minQty:  0,
	}
	if st.size == 0 {
		st.size = r.opts.DefaultSize
	}
	if m.Bulk {
		st.minQty = r.opts.BulkQuantity
	}

	for _, t := range r.tiers {
		if res, ok := t.eval(ctx, st); ok {
			learnable := res.Tier != model.TierLearned && st.key.Name != ""
			return res, learnable
		}
	}
	return r.fallback(st), false
}

// fallback is tier 5: factor conversion, confidence zero, a signal for
// human review rather than a silent success.
func (r *Resolver) fallback(st *state) model.MatchResult {
	target := r.conv.Convert(st.price, nil)
	reason := "no catalog row shares this price"
	if st.candidates > 0 {
		reason = fmt.Sprintf("no candidate above similarity threshold (best %.2f)", st.bestScore)
	}
	return model.MatchResult{
		SequenceIndex: st.mention.SequenceIndex,
		TargetPrice:   &target,
		Tier:          model.TierFallback,
		Confidence:    0,
		Reason:        reason,
	}
}

func (r *Resolver) result(st *state, tierName model.Tier, it catalog.Item, confidence float64, reason string) model.MatchResult {
	id := it.ItemID
	var matched *float64
	if it.TargetPrice > 0 {
		matched = &it.TargetPrice
	}
	target := r.conv.Convert(st.price, matched)
	return model.MatchResult{
		SequenceIndex: st.mention.SequenceIndex,
		ItemID:        &id,
		TargetPrice:   &target,
		Tier:          tierName,
		Confidence:    confidence,
		Reason:        reason,
	}
}
