package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the note vault",
	Long: `Chunks and embeds every note in the vault into the local vector store.
Notes whose content is unchanged since the last run are skipped, so
re-running is cheap. Use --rebuild to discard the index first and
re-embed everything, for example after switching embedding models.`,
	RunE: runIndex,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runIndexStats,
}

var indexClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire index",
	Long: `Removes every indexed chunk and all content hashes. The next index
run re-embeds the whole vault.`,
	RunE: runIndexClear,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "clear the index and re-embed everything")
	indexCmd.AddCommand(indexStatsCmd)
	indexCmd.AddCommand(indexClearCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	ctx := cmd.Context()

	if indexRebuild {
		cmd.Println("Clearing existing index...")
		if err := indexService.ClearIndex(ctx); err != nil {
			return fmt.Errorf("clear index: %w", err)
		}
	}

	cmd.Println("Indexing vault...")

	report, err := indexService.IndexAll(ctx, progressPrinter(cmd))
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	cmd.Printf("\rIndexed %d notes (%d skipped, %d failed) in %s\n",
		report.Indexed, report.Skipped, report.Failed, report.Elapsed.Round(time.Millisecond))
	if report.Failed > 0 {
		cmd.Println("Re-run with --verbose for per-note failure detail.")
	}

	return nil
}

// progressPrinter renders per-note progress. Intermediate lines are rate
// limited so large vaults do not flood the terminal; failures and the
// final note always print.
func progressPrinter(cmd *cobra.Command) domain.ProgressFunc {
	limiter := rate.NewLimiter(rate.Limit(20), 1)
	return func(p domain.IndexProgress) {
		if p.Err != nil {
			cmd.Printf("\rFailed %s: %v\n", p.Path, p.Err)
			return
		}
		if p.Current < p.Total && !limiter.Allow() {
			return
		}
		cmd.Printf("\r[%d/%d] %s", p.Current, p.Total, p.Path)
	}
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	stats := indexService.Stats()
	cmd.Printf("Indexed chunks: %d\n", stats.TotalDocuments)
	return nil
}

func runIndexClear(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	if err := indexService.ClearIndex(cmd.Context()); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}

	cmd.Println("Index cleared.")
	return nil
}
