// Package tui provides an interactive terminal user interface for browsing
// the note index. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/notedex/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever performs semantic search over the index.
	Retriever driving.Retriever

	// Indexer reports index statistics. Optional; when nil the status
	// bar omits the index size.
	Indexer driving.Indexer
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(retriever driving.Retriever, indexer driving.Indexer) *Ports {
	return &Ports{
		Retriever: retriever,
		Indexer:   indexer,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
