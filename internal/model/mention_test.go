package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVintage(t *testing.T) {
	assert.Equal(t, Vintage(2015), ParseVintage("2015"))
	assert.Equal(t, Vintage(1982), ParseVintage("1982"))
	assert.Equal(t, VintageNV, ParseVintage("NV"))
	assert.Equal(t, VintageNV, ParseVintage("N/A"))
	assert.Equal(t, VintageNV, ParseVintage(""))
	assert.Equal(t, VintageNV, ParseVintage("1492"))
	assert.Equal(t, VintageNV, ParseVintage("2150"))
}

func TestVintageString(t *testing.T) {
	assert.Equal(t, "2015", Vintage(2015).String())
	assert.Equal(t, "NV", VintageNV.String())
}

func TestMatchResultResolved(t *testing.T) {
	id := int64(10001)
	assert.True(t, MatchResult{Tier: TierFuzzy, ItemID: &id}.Resolved())
	assert.False(t, MatchResult{Tier: TierFallback}.Resolved())
}
