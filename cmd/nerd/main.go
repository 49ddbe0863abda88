// Package main implements the nerd CLI: a thin command-line surface over
// the envstack/pipeline core, for querying and driving the
// code/ast/classbody/parents/grandparents layer stack without an editor
// integration.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"codenerd/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose   bool
	workspace string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nerd",
	Short: "nerd - query and drive the class-hierarchy envstack pipeline",
	Long: `nerd exposes the stacked environment-table core as a CLI: query
derived views (parents, grandparents) over a directory of Python
modules, push edits to the base stack or to a per-module overlay, and
watch a directory for saves.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize file logging: %v\n", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	queryCmd.AddCommand(queryParentsCmd, queryGrandparentsCmd)

	rootCmd.AddCommand(
		queryCmd,
		updateCmd,
		watchCmd,
	)
}

func resolveWorkspace() (string, error) {
	if workspace == "" {
		return os.Getwd()
	}
	return filepath.Abs(workspace)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
