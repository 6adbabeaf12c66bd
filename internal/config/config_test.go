package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "learning_db.txt", cfg.Store.Path)
	assert.InDelta(t, 0.6, cfg.Cascade.Threshold, 0.0001)
	assert.InDelta(t, 0.1, cfg.Cascade.VintageBonus, 0.0001)
	assert.Equal(t, 36, cfg.Cascade.BulkQuantity)
	assert.InDelta(t, 75.0, cfg.Cascade.DefaultSize, 0.0001)
	assert.Equal(t, 4, cfg.Cascade.Workers)
	assert.InDelta(t, 1.08, cfg.Pricing.Factor, 0.0001)
	assert.InDelta(t, 300.0, cfg.Pricing.RoundAbove, 0.0001)
	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.True(t, cfg.Output.TimestampName)
	assert.False(t, cfg.Translate.Enabled)
	assert.Equal(t, []string{"DE", "FR"}, cfg.Translate.Languages)
	assert.Equal(t, "https://api-free.deepl.com/v2", cfg.Translate.BaseURL)
	assert.Equal(t, "outputs/translations", cfg.Translate.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	// Column mapping falls back to the standard catalog headers.
	assert.Equal(t, "Item No.", cfg.Catalog.Columns.ItemID)
}

func TestLoadFromFile(t *testing.T) {
	dir := chdirTemp(t)
	content := `
store:
  driver: sqlite
  path: /var/lib/recap/learning.db
catalog:
  path: catalog.xlsx
cascade:
  threshold: 0.75
  workers: 8
pricing:
  factor: 1.12
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/var/lib/recap/learning.db", cfg.Store.Path)
	assert.Equal(t, "catalog.xlsx", cfg.Catalog.Path)
	assert.InDelta(t, 0.75, cfg.Cascade.Threshold, 0.0001)
	assert.Equal(t, 8, cfg.Cascade.Workers)
	assert.InDelta(t, 1.12, cfg.Pricing.Factor, 0.0001)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	// Untouched keys keep their defaults.
	assert.Equal(t, 36, cfg.Cascade.BulkQuantity)
	assert.InDelta(t, 300.0, cfg.Pricing.RoundAbove, 0.0001)
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("RECAP_STORE_DRIVER", "postgres")
	t.Setenv("RECAP_STORE_DATABASE_URL", "postgres://localhost/recap")
	t.Setenv("RECAP_CASCADE_THRESHOLD", "0.9")
	t.Setenv("RECAP_TRANSLATE_API_KEY", "secret-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/recap", cfg.Store.DatabaseURL)
	assert.InDelta(t, 0.9, cfg.Cascade.Threshold, 0.0001)
	assert.Equal(t, "secret-key", cfg.Translate.APIKey)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [oops"), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "console"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
