// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/notedex/internal/core/domain"
)

// SearchCompleted carries retrieved chunks back to the model.
type SearchCompleted struct {
	Chunks []domain.RetrievedChunk
	Err    error
}

// ChunkSelected is sent when a result is opened for preview.
type ChunkSelected struct {
	Chunk domain.RetrievedChunk
}

// StatsLoaded carries the index size fetched at startup.
type StatsLoaded struct {
	Total int
	Err   error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and results view.
	ViewSearch ViewType = iota
	// ViewPreview shows the full content of one retrieved chunk.
	ViewPreview
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
