package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askShowSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question answered from your notes",
	Long: `Retrieves the most relevant note chunks and asks the configured LLM
to answer using only that context. For a multi-turn conversation use
'notedex chat' instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "list the note chunks used as context")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	answer, result, err := retrievalService.Ask(cmd.Context(), args[0], nil)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer)

	if askShowSources && len(result.Chunks) > 0 {
		faint := color.New(color.Faint).SprintfFunc()
		cmd.Println()
		cmd.Println("Sources:")
		for i := range result.Chunks {
			c := &result.Chunks[i]
			cmd.Printf("  - %s %s\n", c.NoteTitle, faint("(%s, %.2f)", c.SourcePath, c.Similarity))
		}
	}

	return nil
}
