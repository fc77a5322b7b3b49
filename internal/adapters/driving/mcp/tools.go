package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search_notes tool.
type SearchInput struct {
	Query     string  `json:"query" jsonschema:"the search query to find relevant notes"`
	TopK      int     `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default from settings)"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"minimum similarity score between 0 and 1 (default from settings)"`
}

// SearchOutput is the output schema for the search_notes tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved chunk.
type SearchResultOutput struct {
	Path       string  `json:"path"`
	Title      string  `json:"title"`
	ChunkIndex int     `json:"chunk_index"`
	Similarity float64 `json:"similarity"`
	Content    string  `json:"content"`
}

// AskInput is the input schema for the ask_notes tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the notes"`
}

// AskOutput is the output schema for the ask_notes tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// IndexVaultInput is the input schema for the index_vault tool.
type IndexVaultInput struct {
	Rebuild bool `json:"rebuild,omitempty" jsonschema:"clear the index and re-embed every note"`
}

// IndexVaultOutput is the output schema for the index_vault tool.
type IndexVaultOutput struct {
	Total   int    `json:"total"`
	Indexed int    `json:"indexed"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Elapsed string `json:"elapsed"`
}

// StatsOutput is the output schema for the index_stats tool.
type StatsOutput struct {
	TotalChunks int `json:"total_chunks"`
}

// ClearOutput is the output schema for the clear_index tool.
type ClearOutput struct {
	Cleared bool `json:"cleared"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_notes",
		Description: "Semantically search the note vault and return the most relevant chunks",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_notes",
		Description: "Answer a question using retrieved note content",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_vault",
		Description: "Index every note in the vault, skipping unchanged notes",
	}, s.handleIndexVault)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_stats",
		Description: "Report how many chunks are currently indexed",
	}, s.handleIndexStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_index",
		Description: "Remove every chunk and content hash from the index",
	}, s.handleClearIndex)
}

// handleSearch handles the search_notes tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	rag, err := s.ports.Retriever.Retrieve(ctx, input.Query, nil, input.TopK, input.Threshold)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(rag.Chunks)),
		Count:   len(rag.Chunks),
	}

	for i := range rag.Chunks {
		output.Results[i] = SearchResultOutput{
			Path:       rag.Chunks[i].SourcePath,
			Title:      rag.Chunks[i].NoteTitle,
			ChunkIndex: rag.Chunks[i].ChunkIndex,
			Similarity: rag.Chunks[i].Similarity,
			Content:    rag.Chunks[i].Content,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask_notes tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, rag, err := s.ports.Retriever.Ask(ctx, input.Question, nil)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{Answer: answer}
	seen := make(map[string]bool)
	for i := range rag.Chunks {
		path := rag.Chunks[i].SourcePath
		if seen[path] {
			continue
		}
		seen[path] = true
		output.Sources = append(output.Sources, path)
	}

	return nil, output, nil
}

// handleIndexVault handles the index_vault tool invocation.
func (s *Server) handleIndexVault(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexVaultInput,
) (*mcp.CallToolResult, IndexVaultOutput, error) {
	if s.ports.Indexer == nil {
		return nil, IndexVaultOutput{}, errIndexerUnavailable
	}

	if input.Rebuild {
		if err := s.ports.Indexer.ClearIndex(ctx); err != nil {
			return nil, IndexVaultOutput{}, err
		}
	}

	report, err := s.ports.Indexer.IndexAll(ctx, nil)
	if err != nil {
		return nil, IndexVaultOutput{}, err
	}

	output := IndexVaultOutput{
		Total:   report.Total,
		Indexed: report.Indexed,
		Skipped: report.Skipped,
		Failed:  report.Failed,
		Elapsed: report.Elapsed.String(),
	}

	return nil, output, nil
}

// handleIndexStats handles the index_stats tool invocation.
func (s *Server) handleIndexStats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatsOutput, error) {
	if s.ports.Indexer == nil {
		return nil, StatsOutput{}, errIndexerUnavailable
	}

	stats := s.ports.Indexer.Stats()
	return nil, StatsOutput{TotalChunks: stats.TotalDocuments}, nil
}

// handleClearIndex handles the clear_index tool invocation.
func (s *Server) handleClearIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ClearOutput, error) {
	if s.ports.Indexer == nil {
		return nil, ClearOutput{}, errIndexerUnavailable
	}

	if err := s.ports.Indexer.ClearIndex(ctx); err != nil {
		return nil, ClearOutput{}, err
	}

	return nil, ClearOutput{Cleared: true}, nil
}
