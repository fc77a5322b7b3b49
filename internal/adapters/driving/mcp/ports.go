package mcp

import (
	"github.com/custodia-labs/notedex/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever provides semantic search and question answering.
	Retriever driving.Retriever

	// Indexer manages the vault index.
	Indexer driving.Indexer

	// Settings exposes the current configuration.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	// Indexer and Settings are optional; tools and resources that need
	// them report their absence per call.
	return nil
}
