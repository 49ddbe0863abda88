package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLoggingState(t *testing.T) {
	t.Helper()
	CloseAll()
	loggersMu.Lock()
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()
	configMu.Lock()
	config = loggingConfig{}
	configLoaded = false
	configMu.Unlock()
	workspace = ""
	logsDir = ""
}

func writeConfig(t *testing.T, ws string, cfg loggingConfig) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(ws, ".nerd"), 0755))
	data, err := json.Marshal(configFile{Logging: cfg})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(ws, ".nerd", "config.json"), data, 0644))
}

func TestInitialize_NoConfigFile(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()

	err := Initialize(ws)
	require.NoError(t, err)
	assert.False(t, IsDebugMode())

	_, err = os.Stat(filepath.Join(ws, ".nerd", "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestInitialize_DebugModeCreatesLogsDir(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: true, Level: "debug"})

	err := Initialize(ws)
	require.NoError(t, err)
	assert.True(t, IsDebugMode())

	info, err := os.Stat(filepath.Join(ws, ".nerd", "logs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInitialize_RequiresWorkspace(t *testing.T) {
	resetLoggingState(t)
	err := Initialize("")
	assert.Error(t, err)
}

func TestIsCategoryEnabled_DefaultsEnabledWhenDebug(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: true})
	require.NoError(t, Initialize(ws))

	assert.True(t, IsCategoryEnabled(CategoryEnvStack))
	assert.True(t, IsCategoryEnabled(CategoryPipeline))
}

func TestIsCategoryEnabled_RespectsExplicitMap(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{
		DebugMode:  true,
		Categories: map[string]bool{string(CategoryOverlay): false},
	})
	require.NoError(t, Initialize(ws))

	assert.False(t, IsCategoryEnabled(CategoryOverlay))
	assert.True(t, IsCategoryEnabled(CategoryWatch))
}

func TestIsCategoryEnabled_FalseWhenDebugDisabled(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: false})
	require.NoError(t, Initialize(ws))

	assert.False(t, IsCategoryEnabled(CategoryBoot))
}

func TestGet_NoOpWhenDisabled(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: false})
	require.NoError(t, Initialize(ws))

	l := Get(CategoryEnvStack)
	require.NotNil(t, l)
	assert.Nil(t, l.logger)

	// must not panic when logger is a no-op
	l.Info("should not write")
	l.Debug("should not write")
	l.Warn("should not write")
	l.Error("should not write")
}

func TestGet_WritesLogFileWhenEnabled(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: true, Level: "debug"})
	require.NoError(t, Initialize(ws))

	l := Get(CategoryPipeline)
	require.NotNil(t, l.logger)
	l.Info("pipeline test message %d", 1)

	entries, err := os.ReadDir(logsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	found := false
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".log" {
			data, err := os.ReadFile(filepath.Join(logsDir, e.Name()))
			require.NoError(t, err)
			if len(data) > 0 {
				found = true
			}
		}
	}
	assert.True(t, found, "expected at least one non-empty log file")
}

func TestGet_CachesLoggerPerCategory(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: true, Level: "debug"})
	require.NoError(t, Initialize(ws))

	a := Get(CategoryBoot)
	b := Get(CategoryBoot)
	assert.Same(t, a, b)
}

func TestLevelFiltering(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: true, Level: "warn"})
	require.NoError(t, Initialize(ws))

	l := Get(CategoryWatch)
	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")
	l.Error("kept")
	assert.Equal(t, LevelWarn, logLevel)
}

func TestReloadConfig(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: false})
	require.NoError(t, Initialize(ws))
	assert.False(t, IsDebugMode())

	writeConfig(t, ws, loggingConfig{DebugMode: true, Level: "info"})
	require.NoError(t, ReloadConfig())
	assert.True(t, IsDebugMode())
}

func TestConvenienceFunctions_DoNotPanicWhenUninitialized(t *testing.T) {
	resetLoggingState(t)
	assert.NotPanics(t, func() {
		Boot("boot %s", "msg")
		BootDebug("boot debug")
		BootWarn("boot warn")
		EnvStack("envstack msg")
		EnvStackDebug("envstack debug")
		EnvStackError("envstack error")
		Overlay("overlay msg")
		OverlayDebug("overlay debug")
		Pipeline("pipeline msg")
		PipelineDebug("pipeline debug")
		PipelineError("pipeline error")
		Watch("watch msg")
		WatchDebug("watch debug")
		WatchWarn("watch warn")
	})
}

func TestTimer_Stop(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: true, Level: "debug"})
	require.NoError(t, Initialize(ws))

	timer := StartTimer(CategoryPipeline, "produce ast")
	elapsed := timer.Stop()
	assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
}

func TestTimer_StopWithThreshold(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: true, Level: "debug"})
	require.NoError(t, Initialize(ws))

	timer := StartTimer(CategoryOverlay, "getOrCreateOverlay")
	elapsed := timer.StopWithThreshold(0)
	assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
}

func TestCloseAll(t *testing.T) {
	resetLoggingState(t)
	ws := t.TempDir()
	writeConfig(t, ws, loggingConfig{DebugMode: true, Level: "debug"})
	require.NoError(t, Initialize(ws))

	_ = Get(CategoryBoot)
	_ = Get(CategoryWatch)

	CloseAll()

	loggersMu.RLock()
	count := len(loggers)
	loggersMu.RUnlock()
	assert.Equal(t, 0, count)
}
