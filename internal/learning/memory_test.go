package learning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLookupUnknown(t *testing.T) {
	s := NewMemory()
	rec, err := s.Lookup(context.Background(), NewKey("Margaux", 2015))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemoryRecordAndLookup(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	key := NewKey("Château Margaux", 2015)

	out, err := s.Record(ctx, key, 10001, OriginAuto)
	require.NoError(t, err)
	assert.Equal(t, Stored, out)

	// Lookup normalizes through the key, so a differently spelled name
	// finds the same record.
	rec, err := s.Lookup(ctx, NewKey("margaux", 2015))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(10001), rec.ItemID)
	assert.Equal(t, OriginAuto, rec.Origin)
}

func TestMemoryDuplicateSkipped(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	key := NewKey("Margaux", 2015)

	_, err := s.Record(ctx, key, 10001, OriginAuto)
	require.NoError(t, err)
	out, err := s.Record(ctx, key, 10001, OriginAuto)
	require.NoError(t, err)
	assert.Equal(t, DuplicateSkipped, out)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryManualCorrectionWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	key := NewKey("Margaux", 2015)

	_, err := s.Record(ctx, key, 10001, OriginAuto)
	require.NoError(t, err)
	out, err := s.Record(ctx, key, 20002, OriginManualCorrection)
	require.NoError(t, err)
	assert.Equal(t, Corrected, out)

	rec, err := s.Lookup(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(20002), rec.ItemID)
	assert.Equal(t, OriginManualCorrection, rec.Origin)

	// A later auto record never displaces the correction.
	_, err = s.Record(ctx, key, 30003, OriginAuto)
	require.NoError(t, err)
	rec, err = s.Lookup(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(20002), rec.ItemID)
}

func TestMemoryAutoRefreshesAuto(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	key := NewKey("Margaux", 2015)

	_, err := s.Record(ctx, key, 10001, OriginAuto)
	require.NoError(t, err)
	_, err = s.Record(ctx, key, 10002, OriginAuto)
	require.NoError(t, err)

	rec, err := s.Lookup(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(10002), rec.ItemID)
}

func TestVintageDistinguishesKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.Record(ctx, NewKey("Margaux", 2015), 10001, OriginAuto)
	require.NoError(t, err)

	rec, err := s.Lookup(ctx, NewKey("Margaux", 2016))
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = s.Lookup(ctx, NewKey("Margaux", 0))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSupersedes(t *testing.T) {
	assert.True(t, supersedes(OriginAuto, OriginAuto))
	assert.True(t, supersedes(OriginAuto, OriginManualCorrection))
	assert.True(t, supersedes(OriginManualCorrection, OriginManualCorrection))
	assert.False(t, supersedes(OriginManualCorrection, OriginAuto))
}
