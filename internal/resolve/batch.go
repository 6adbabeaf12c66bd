package resolve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Antagata/Month-recap-AVU/internal/learning"
	"github.com/Antagata/Month-recap-AVU/internal/model"
)

// ResolveAll resolves a batch, preserving input order: results[i]
// corresponds to mentions[i] regardless of worker scheduling. Learned
// writes happen only after every mention is resolved, so mentions within
// one batch never observe each other's decisions.
func (r *Resolver) ResolveAll(ctx context.Context, mentions []model.Mention) ([]model.MatchResult, error) {
	results := make([]model.MatchResult, len(mentions))
	learnable := make([]bool, len(mentions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, m := range mentions {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], learnable[i] = r.resolve(gctx, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "resolve: batch")
	}

	if r.store != nil {
		if err := r.learn(ctx, mentions, results, learnable); err != nil {
			return nil, err
		}
	}

	counts := make(map[model.Tier]int, 5)
	for _, res := range results {
		counts[res.Tier]++
	}
	zap.L().Info("resolve: batch complete",
		zap.Int("mentions", len(mentions)),
		zap.Int("learned", counts[model.TierLearned]),
		zap.Int("item_exact", counts[model.TierItemExact]),
		zap.Int("price_unique", counts[model.TierPriceUnique]),
		zap.Int("fuzzy", counts[model.TierFuzzy]),
		zap.Int("fallback", counts[model.TierFallback]),
	)
	return results, nil
}

// learn records the batch's fresh decisions in input order and flushes
// the store once.
func (r *Resolver) learn(ctx context.Context, mentions []model.Mention, results []model.MatchResult, learnable []bool) error {
	for i, res := range results {
		if !learnable[i] || res.ItemID == nil {
			continue
		}
		key := learning.NewKey(mentions[i].NameFragment, mentions[i].Vintage)
		if _, err := r.store.Record(ctx, key, *res.ItemID, learning.OriginAuto); err != nil {
			return eris.Wrapf(err, "resolve: record %q", key.Name)
		}
	}
	if err := r.store.Flush(ctx); err != nil {
		return eris.Wrap(err, "resolve: flush learning store")
	}
	return nil
}
