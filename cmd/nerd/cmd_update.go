package main

import (
	"fmt"
	"os"

	"codenerd/internal/envstack"
	"codenerd/internal/logging"

	"github.com/spf13/cobra"
)

var (
	updateDir     string
	updateOverlay bool
)

var updateCmd = &cobra.Command{
	Use:   "update <module> <file>",
	Short: "Push a file's contents into the base stack or a module overlay",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		module, path := args[0], args[1]

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		stack, err := loadStack(updateDir)
		if err != nil {
			return err
		}

		touched, err := stack.Update(module, string(data), updateOverlay)
		if err != nil {
			return err
		}

		logging.Pipeline("update module=%s overlay=%v touched=%v", module, updateOverlay, touched)
		fmt.Printf("updated %s, recomputed: %s\n", module, formatList(touchedStrings(touched)))
		return nil
	},
}

func touchedStrings(keys []envstack.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

func init() {
	updateCmd.Flags().StringVarP(&updateDir, "dir", "d", ".", "Directory of Python modules")
	updateCmd.Flags().BoolVar(&updateOverlay, "overlay", false, "Apply the update to the module's overlay instead of the base stack")
}
