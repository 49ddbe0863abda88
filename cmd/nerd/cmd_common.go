package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codenerd/internal/config"
	"codenerd/internal/pipeline"
)

// loadStack scans dir (non-recursively, ignoring its .overlay
// subdirectory) for *.py files and builds a Stack seeded with their
// contents, one module per file.
func loadStack(dir string) (*pipeline.Stack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading module directory %s: %w", dir, err)
	}

	code := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".py") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading module file %s: %w", entry.Name(), err)
		}
		module := strings.TrimSuffix(entry.Name(), ".py")
		code[module] = string(data)
	}

	cfg := config.DefaultConfig()
	return pipeline.New(code, cfg.Pipeline.DedentSource), nil
}

func formatList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	return "[" + strings.Join(values, ", ") + "]"
}
