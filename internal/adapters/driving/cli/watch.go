package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and keep the index fresh",
	Long: `Indexes the vault to catch up on offline edits, then runs the indexing
engine until interrupted. Note edits are batched and re-indexed after a
quiet period; deletions are applied immediately. Pending work is flushed
on shutdown.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catch up on edits made while not watching before going live.
	cmd.Println("Indexing vault...")
	report, err := indexService.IndexAll(ctx, progressPrinter(cmd))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			cmd.Println("\nStopped.")
			return nil
		}
		return fmt.Errorf("initial index failed: %w", err)
	}
	cmd.Printf("\rIndexed %d notes (%d skipped, %d failed)\n",
		report.Indexed, report.Skipped, report.Failed)

	cmd.Println("Watching vault for changes. Press Ctrl-C to stop.")

	err = indexService.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Println("Stopped.")
	return nil
}
