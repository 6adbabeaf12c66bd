package learning

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learning_db.txt")

	s, err := OpenFile(path)
	require.NoError(t, err)

	_, err = s.Record(ctx, NewKey("Château Margaux", 2015), 10001, OriginAuto)
	require.NoError(t, err)
	_, err = s.Record(ctx, NewKey("Krug Rosé", 0), 20002, OriginManualCorrection)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopen and read back through the same key normalization.
	reopened, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())

	rec, err := reopened.Lookup(ctx, NewKey("margaux", 2015))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(10001), rec.ItemID)
	assert.Equal(t, OriginAuto, rec.Origin)

	rec, err = reopened.Lookup(ctx, NewKey("Krug Rosé", 0))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(20002), rec.ItemID)
	assert.Equal(t, OriginManualCorrection, rec.Origin)
}

func TestFileStoreFormatIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learning_db.txt")

	s, err := OpenFile(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, NewKey("Margaux", 2015), 10001, OriginAuto)
	require.NoError(t, err)
	_, err = s.Record(ctx, NewKey("Margaux", 2015), 20002, OriginManualCorrection)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "# Learning database")
	assert.Contains(t, text, "margaux | 2015 | 10001 | ")
	assert.Contains(t, text, "margaux | 2015 | 20002 | ")
	assert.Contains(t, text, "(manual correction)")
}

func TestFileStoreLoadsLegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learning_db.txt")
	legacy := "# old header\n" +
		"Château Margaux | 2015 | 10001 | 2024-11-02 09:15:00\n" +
		"Krug Rosé | NV | 20002 NOT_VERIFIED | 2024-11-03 10:00:00 (manual correction)\n" +
		"garbage line without separators\n" +
		"Broken | 2015 | not-a-number | 2024-11-04 11:00:00\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s, err := OpenFile(path)
	require.NoError(t, err)

	rec, err := s.Lookup(context.Background(), NewKey("margaux", 2015))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(10001), rec.ItemID)
	assert.Equal(t, 2024, rec.Timestamp.Year())

	rec, err = s.Lookup(context.Background(), NewKey("Krug Rosé", 0))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(20002), rec.ItemID, "annotations after the id are ignored")
	assert.Equal(t, OriginManualCorrection, rec.Origin)
}

func TestFileStoreMissingFile(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestFileStoreFlushIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "learning_db.txt")

	s, err := OpenFile(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, NewKey("Margaux", 2015), 10001, OriginAuto)
	require.NoError(t, err)
	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "10001"))
}
