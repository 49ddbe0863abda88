package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ".", cfg.Workspace)
	assert.Equal(t, "python", cfg.Pipeline.Language)
	assert.True(t, cfg.Pipeline.DedentSource)
	assert.Equal(t, "300ms", cfg.Pipeline.WatchDebounce)
	assert.False(t, cfg.Logging.DebugMode)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "python", cfg.Pipeline.Language)
}

func TestLoad_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
workspace: /tmp/workspace
logging:
  debug_mode: true
  level: debug
pipeline:
  language: python
  dedent_source: false
  watch_debounce: 500ms
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/workspace", cfg.Workspace)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Pipeline.DedentSource)
	assert.Equal(t, "500ms", cfg.Pipeline.WatchDebounce)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workspace: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Workspace = "/some/workspace"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/some/workspace", loaded.Workspace)
}

func TestGetWatchDebounce(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 300_000_000, int(cfg.GetWatchDebounce()))

	cfg.Pipeline.WatchDebounce = "not-a-duration"
	assert.Equal(t, 300_000_000, int(cfg.GetWatchDebounce()))

	cfg.Pipeline.WatchDebounce = "1s"
	assert.Equal(t, 1_000_000_000, int(cfg.GetWatchDebounce()))
}

func TestIsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{DebugMode: false}
	assert.False(t, lc.IsCategoryEnabled("pipeline"))

	lc = LoggingConfig{DebugMode: true}
	assert.True(t, lc.IsCategoryEnabled("pipeline"))

	lc = LoggingConfig{DebugMode: true, Categories: map[string]bool{"pipeline": false}}
	assert.False(t, lc.IsCategoryEnabled("pipeline"))
	assert.True(t, lc.IsCategoryEnabled("overlay"))
}
