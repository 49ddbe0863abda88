package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codenerd/internal/logging"

	"gopkg.in/yaml.v3"
)

// Config holds all envstack configuration.
type Config struct {
	// Workspace is the root directory containing .nerd/ (config and
	// logs).
	Workspace string `yaml:"workspace" json:"workspace,omitempty"`

	// Logging configures the categorized file logger.
	Logging LoggingConfig `yaml:"logging" json:"logging,omitempty"`

	// Pipeline configures the code/ast/classbody/parents/grandparents
	// layer stack and its watcher.
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline,omitempty"`
}

// PipelineConfig configures the concrete layer pipeline (package pipeline)
// and its filesystem watcher (package watch).
type PipelineConfig struct {
	// Language names the tree-sitter grammar for the ast layer. Only
	// "python" is supported: the ast layer always parses with the Python
	// grammar and does not read this field.
	Language string `yaml:"language" json:"language,omitempty"`

	// DedentSource strips common leading whitespace from module source
	// before parsing, so callers can pass indented literal blocks.
	DedentSource bool `yaml:"dedent_source" json:"dedent_source,omitempty"`

	// WatchDebounce is a watcher debounce interval, parsed by
	// GetWatchDebounce. ModuleWatcher does not read it; it waits a fixed
	// 300ms after the last write to a path before calling Stack.Update.
	WatchDebounce string `yaml:"watch_debounce" json:"watch_debounce,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Workspace: ".",
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},
		Pipeline: PipelineConfig{
			Language:      "python",
			DedentSource:  true,
			WatchDebounce: "300ms",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// (plus environment overrides) if the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("Loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("Config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		logging.BootWarn("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logging.BootWarn("Failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Boot("Config loaded: workspace=%s language=%s", cfg.Workspace, cfg.Pipeline.Language)

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if ws := os.Getenv("NERD_WORKSPACE"); ws != "" {
		c.Workspace = ws
	}
	if lvl := os.Getenv("NERD_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if os.Getenv("NERD_DEBUG") == "1" || os.Getenv("NERD_DEBUG") == "true" {
		c.Logging.DebugMode = true
	}
	if lang := os.Getenv("NERD_PIPELINE_LANGUAGE"); lang != "" {
		c.Pipeline.Language = lang
	}
	if d := os.Getenv("NERD_WATCH_DEBOUNCE"); d != "" {
		c.Pipeline.WatchDebounce = d
	}
}

// GetWatchDebounce returns the watcher debounce interval as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Pipeline.WatchDebounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}
