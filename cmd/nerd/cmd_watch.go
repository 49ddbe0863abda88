package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codenerd/internal/logging"
	"codenerd/internal/watch"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory of Python modules and push edits as they're saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		stack, err := loadStack(dir)
		if err != nil {
			return err
		}

		w, err := watch.NewModuleWatcher(stack, dir)
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer w.Stop()

		logging.Watch("watching %s, press Ctrl-C to stop", dir)
		fmt.Printf("watching %s, press Ctrl-C to stop\n", dir)
		<-ctx.Done()
		return nil
	},
}
