// Package cli provides the notedex command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/notedex/internal/core/ports/driving"
	"github.com/custodia-labs/notedex/internal/logger"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// Services injected by main before Execute. Commands nil-check the ones
// they use; tests swap in mocks.
var (
	indexService     driving.Indexer
	retrievalService driving.Retriever
	settingsService  driving.SettingsService
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "notedex",
	Short: "Semantic search over your note vault",
	Long: `Notedex indexes a folder of plain-text notes into a local vector store
and retrieves them by meaning. Notes are chunked, embedded with a local
or cloud provider, and searched by cosine similarity. Everything stays
on your machine.

Start with 'notedex settings wizard' to configure the vault path and an
embedding provider, then run 'notedex index'.`,
	// main prints the error once; keep cobra from printing it again.
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// Services aggregates the driving ports the CLI commands call.
type Services struct {
	Indexer   driving.Indexer
	Retriever driving.Retriever
	Settings  driving.SettingsService
}

// SetServices injects service implementations into the command tree.
func SetServices(s Services) {
	indexService = s.Indexer
	retrievalService = s.Retriever
	settingsService = s.Settings
}

// SetVersion records the binary version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
