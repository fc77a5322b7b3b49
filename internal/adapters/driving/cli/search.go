package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

var (
	searchTopK      int
	searchThreshold float64
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes by meaning",
	Long: `Embeds the query and returns the closest note chunks by cosine
similarity. This is pure vector retrieval; no LLM is involved.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of chunks (0 = configured default)")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", 0, "minimum cosine similarity (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	result, err := retrievalService.Retrieve(cmd.Context(), query, nil, searchTopK, searchThreshold)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, result.Chunks)
	}

	return outputSearchTable(cmd, result.Chunks)
}

func outputSearchJSON(cmd *cobra.Command, chunks []domain.RetrievedChunk) error {
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, chunks []domain.RetrievedChunk) error {
	if len(chunks) == 0 {
		cmd.Println("No matching notes found.")
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintfFunc()

	cmd.Println("Results:")
	cmd.Println()
	for i := range chunks {
		c := &chunks[i]

		title := c.NoteTitle
		if title == "" {
			title = c.SourcePath
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, bold(title), c.Similarity)
		cmd.Printf("      %s\n", faint("%s, chunk %d/%d", c.SourcePath, c.ChunkIndex+1, c.TotalChunks))
		cmd.Printf("      %s\n", snippet(c.Content, 160))
		cmd.Println()
	}

	return nil
}

// snippet returns the first maxRunes runes of text on a single line.
func snippet(text string, maxRunes int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes]) + "..."
}
