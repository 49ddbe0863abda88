package main

import (
	"fmt"

	"codenerd/internal/logging"

	"github.com/spf13/cobra"
)

var queryDir string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query derived views over a directory of Python modules",
}

var queryParentsCmd = &cobra.Command{
	Use:   "parents <module.classname>",
	Short: "Print the direct base classes of a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := loadStack(queryDir)
		if err != nil {
			return err
		}
		v, err := stack.ClassParents.Get(args[0], "")
		if err != nil {
			return err
		}
		parents, _ := v.([]string)
		logging.Pipeline("query parents key=%s result=%v", args[0], parents)
		fmt.Println(formatList(parents))
		return nil
	},
}

var queryGrandparentsCmd = &cobra.Command{
	Use:   "grandparents <module.classname>",
	Short: "Print the parents-of-parents of a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := loadStack(queryDir)
		if err != nil {
			return err
		}
		v, err := stack.Get(args[0])
		if err != nil {
			return err
		}
		grandparents, _ := v.([]string)
		logging.Pipeline("query grandparents key=%s result=%v", args[0], grandparents)
		fmt.Println(formatList(grandparents))
		return nil
	},
}

func init() {
	queryCmd.PersistentFlags().StringVarP(&queryDir, "dir", "d", ".", "Directory of Python modules")
}
