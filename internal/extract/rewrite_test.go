package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Antagata/Month-recap-AVU/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestRewriteMatched(t *testing.T) {
	text := "Margaux 2015 : CHF 720.00 la bouteille\n"
	mentions, sites := Scan(text)
	require.Len(t, mentions, 1)

	results := []model.MatchResult{{
		Tier:        model.TierPriceUnique,
		TargetPrice: ptr(760.00),
	}}

	got := Rewrite(text, sites, results)
	assert.Equal(t, "Margaux 2015 : EUR 760.00 la bouteille\n", got)
}

func TestRewriteRoundsMatchedToWholeUnits(t *testing.T) {
	text := "Solaia 2019 : CHF 95.00\n"
	_, sites := Scan(text)

	results := []model.MatchResult{{
		Tier:        model.TierFuzzy,
		TargetPrice: ptr(101.60),
	}}

	got := Rewrite(text, sites, results)
	assert.Contains(t, got, "EUR 102.00")
}

func TestRewriteFallbackFloors(t *testing.T) {
	text := "Mystery 2019 : CHF 99.00\n"
	_, sites := Scan(text)

	// 99 * 1.08 = 106.92, presented as 106.00, never above the estimate.
	results := []model.MatchResult{{
		Tier:        model.TierFallback,
		TargetPrice: ptr(106.92),
	}}

	got := Rewrite(text, sites, results)
	assert.Contains(t, got, "EUR 106.00")
}

func TestRewriteCurrencyLastShape(t *testing.T) {
	text := "Margaux 2015 : 720.00 CHF la bouteille\n"
	_, sites := Scan(text)

	results := []model.MatchResult{{
		Tier:        model.TierPriceUnique,
		TargetPrice: ptr(760.00),
	}}

	got := Rewrite(text, sites, results)
	assert.Contains(t, got, "760.00 EUR")
}

func TestRewriteTruncatedCurrency(t *testing.T) {
	text := "Margaux 2015 : 29.00 CH \n"
	_, sites := Scan(text)

	results := []model.MatchResult{{
		Tier:        model.TierPriceUnique,
		TargetPrice: ptr(31.00),
	}}

	got := Rewrite(text, sites, results)
	assert.Contains(t, got, "31.00 EUR ")
}

func TestRewriteMultipleBackToFront(t *testing.T) {
	text := "A 2019 : CHF 10.00\nB 2020 : CHF 1'480.00\n"
	_, sites := Scan(text)
	require.Len(t, sites, 2)

	results := []model.MatchResult{
		{Tier: model.TierPriceUnique, TargetPrice: ptr(11.00)},
		{Tier: model.TierPriceUnique, TargetPrice: ptr(1550.00)},
	}

	got := Rewrite(text, sites, results)
	assert.Equal(t, "A 2019 : EUR 11.00\nB 2020 : EUR 1550.00\n", got)
}

func TestRewriteSkipsMissingTarget(t *testing.T) {
	text := "A 2019 : CHF 10.00\n"
	_, sites := Scan(text)

	results := []model.MatchResult{{Tier: model.TierFallback}}

	got := Rewrite(text, sites, results)
	assert.Equal(t, text, got)
}
