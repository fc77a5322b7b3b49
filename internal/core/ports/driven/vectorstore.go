package driven

import (
	"context"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

// VectorStore holds all indexed chunks in memory, keyed by chunk id, with a
// secondary index from source path to chunk ids. It is the single owner of
// both structures; all mutation goes through these methods, which is what
// keeps the path index and the primary map from diverging.
//
// Persistence is a debounced whole-file snapshot: bursts of mutations
// collapse into one disk write once activity pauses. Callers that need a
// guaranteed on-disk state (process exit, tests) call Flush.
type VectorStore interface {
	// Initialize loads the snapshot file if present and rebuilds the
	// derived norm and path-index caches. A missing file yields an empty
	// store; a corrupt file or an uncreatable directory is a fatal error.
	Initialize(ctx context.Context) error

	// AddDocuments inserts or overwrites each document by id and updates
	// the path index. Schedules a debounced persist. No-op on empty input.
	AddDocuments(ctx context.Context, docs []domain.IndexedDocument) error

	// UpdateDocuments is delete-then-insert by id, keeping the path index
	// consistent even if a document's source path changed for an existing id.
	UpdateDocuments(ctx context.Context, docs []domain.IndexedDocument) error

	// DeleteDocumentsByPath removes every chunk owned by path, using the
	// path index rather than a full scan. No-op if the path is unknown;
	// schedules a persist only when something was removed.
	DeleteDocumentsByPath(ctx context.Context, path string) error

	// DocumentIDsByPath returns the current chunk ids for a path, or
	// empty if none.
	DocumentIDsByPath(path string) []string

	// Search returns up to topK documents with cosine similarity >=
	// threshold, sorted descending by similarity. A zero-norm query
	// returns an empty result immediately.
	Search(ctx context.Context, query []float32, topK int, threshold float64) ([]domain.RetrievedChunk, error)

	// ClearAll empties the store and schedules a persist.
	ClearAll(ctx context.Context) error

	// Count returns the number of indexed chunks.
	Count() int

	// Flush cancels any pending debounced persist and writes the
	// snapshot synchronously.
	Flush(ctx context.Context) error

	// Close flushes and releases resources.
	Close() error
}
