package learning

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "learning.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteRecordAndLookup(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	key := NewKey("Château Margaux", 2015)

	out, err := s.Record(ctx, key, 10001, OriginAuto)
	require.NoError(t, err)
	assert.Equal(t, Stored, out)

	rec, err := s.Lookup(ctx, NewKey("margaux", 2015))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(10001), rec.ItemID)
	assert.Equal(t, OriginAuto, rec.Origin)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteLookupUnknown(t *testing.T) {
	s := openTestSQLite(t)
	rec, err := s.Lookup(context.Background(), NewKey("nothing", 2000))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSQLiteDuplicateSkipped(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	key := NewKey("Margaux", 2015)

	_, err := s.Record(ctx, key, 10001, OriginAuto)
	require.NoError(t, err)
	out, err := s.Record(ctx, key, 10001, OriginAuto)
	require.NoError(t, err)
	assert.Equal(t, DuplicateSkipped, out)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteManualCorrectionPrecedence(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	key := NewKey("Margaux", 2015)

	_, err := s.Record(ctx, key, 10001, OriginAuto)
	require.NoError(t, err)
	out, err := s.Record(ctx, key, 20002, OriginManualCorrection)
	require.NoError(t, err)
	assert.Equal(t, Corrected, out)

	// The correction wins regardless of insertion order.
	rec, err := s.Lookup(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(20002), rec.ItemID)
	assert.Equal(t, OriginManualCorrection, rec.Origin)

	_, err = s.Record(ctx, key, 30003, OriginAuto)
	require.NoError(t, err)
	rec, err = s.Lookup(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(20002), rec.ItemID)

	// All three rows remain; corrections never rewrite history.
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learning.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, NewKey("Margaux", 2015), 10001, OriginAuto)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	rec, err := reopened.Lookup(ctx, NewKey("Margaux", 2015))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(10001), rec.ItemID)
}
