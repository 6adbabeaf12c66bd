package resolve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Antagata/Month-recap-AVU/internal/catalog"
	"github.com/Antagata/Month-recap-AVU/internal/learning"
	"github.com/Antagata/Month-recap-AVU/internal/model"
	"github.com/Antagata/Month-recap-AVU/internal/similarity"
)

// evalLearned is tier 1: a prior (name, vintage) decision from the
// learning store, confirmed against the current catalog. A learned item
// that no longer matches any eligible row does not win outright; its
// identifier is handed to tier 2 and the cascade continues.
func (r *Resolver) evalLearned(ctx context.Context, st *state) (model.MatchResult, bool) {
	if r.store == nil || st.key.Name == "" {
		return model.MatchResult{}, false
	}
	rec, err := r.store.Lookup(ctx, st.key)
	if err != nil {
		zap.L().Warn("resolve: learning lookup failed",
			zap.String("name", st.key.Name),
			zap.Error(err),
		)
		return model.MatchResult{}, false
	}
	if rec == nil {
		return model.MatchResult{}, false
	}
	st.learnedID = rec.ItemID

	for _, it := range r.idx.ByItemID(rec.ItemID) {
		if !it.Eligible() || it.MinQuantity != st.minQty {
			continue
		}
		if !catalog.SamePrice(it.SourcePrice, st.price) {
			continue
		}
		reason := "learned decision"
		if rec.Origin == learning.OriginManualCorrection {
			reason = "manual correction"
		}
		return r.result(st, model.TierLearned, it, 1.0, reason), true
	}
	zap.L().Debug("resolve: learned item absent from catalog, degrading",
		zap.Int64("item_id", rec.ItemID),
		zap.String("name", st.key.Name),
	)
	return model.MatchResult{}, false
}

// evalItemExact is tier 2: an explicit identifier on the mention, or the
// one inferred by tier 1, matched bulletproof on vintage, size, and
// quantity tier.
func (r *Resolver) evalItemExact(ctx context.Context, st *state) (model.MatchResult, bool) {
	id := st.mention.ItemID
	if id == 0 {
		id = st.learnedID
	}
	if id == 0 {
		return model.MatchResult{}, false
	}
	it, ok := r.idx.ByIdentifierAndContext(id, st.mention.Vintage, st.size, st.minQty)
	if !ok {
		return model.MatchResult{}, false
	}
	return r.result(st, model.TierItemExact, it, 1.0, "identifier and context match"), true
}

// evalPriceUnique is tier 3: among eligible rows on the mention's
// quantity tier, exactly one shares the source price.
func (r *Resolver) evalPriceUnique(ctx context.Context, st *state) (model.MatchResult, bool) {
	var hit catalog.Item
	n := 0
	for _, it := range r.idx.BySourcePrice(st.price) {
		if !it.Eligible() || it.MinQuantity != st.minQty {
			continue
		}
		if n == 0 {
			hit = it
		}
		n++
	}
	if n != 1 {
		return model.MatchResult{}, false
	}
	return r.result(st, model.TierPriceUnique, hit, 1.0, "unique price match"), true
}

// evalFuzzy is tier 4: price candidates filtered by context, then ranked
// by name similarity with a bonus for exact vintage agreement. An explicit
// size hint filters strictly; a mention asking for a magnum never matches
// a standard bottle on name alone. Candidate order is campaign time
// descending, so on equal scores the most recent campaign wins.
func (r *Resolver) evalFuzzy(ctx context.Context, st *state) (model.MatchResult, bool) {
	cands := make([]catalog.Item, 0, 4)
	for _, it := range r.idx.BySourcePrice(st.price) {
		if !it.Eligible() || it.MinQuantity != st.minQty {
			continue
		}
		if st.mention.Size > 0 && it.Size != st.mention.Size {
			continue
		}
		cands = append(cands, it)
	}
	st.candidates = len(cands)
	if len(cands) == 0 {
		return model.MatchResult{}, false
	}

	var best catalog.Item
	bestScore := -1.0
	for _, it := range cands {
		score := similarity.Score(st.mention.NameFragment, it.Name)
		if st.mention.Vintage != model.VintageNV && it.Vintage == st.mention.Vintage {
			score += r.opts.VintageBonus
			if score > 1.0 {
				score = 1.0
			}
		}
		if score > bestScore {
			best = it
			bestScore = score
		}
	}
	st.bestScore = bestScore
	if bestScore < r.opts.Threshold {
		return model.MatchResult{}, false
	}
	reason := fmt.Sprintf("name similarity %.2f", bestScore)
	return r.result(st, model.TierFuzzy, best, bestScore, reason), true
}
