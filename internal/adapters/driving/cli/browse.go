package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notedex/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the index in an interactive terminal UI",
	Long: `Launches a full-screen terminal interface for searching notes and
reading matching chunks without leaving the keyboard.

Controls:
  Enter    - Search / open the highlighted chunk
  ↑/k, ↓/j - Navigate results and scroll previews
  n        - Start a new search
  Esc      - Back
  q        - Quit`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	// Indexer is optional here; without it the status bar just omits
	// the index size.
	ports := tui.NewPorts(retrievalService, indexService)

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}

	return nil
}
