package driving

import (
	"context"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

// Indexer keeps the vector index consistent with the vault.
// Per note it is a small state machine: unknown -> indexed -> dirty ->
// indexed again after a flush, or deleted.
type Indexer interface {
	// IndexNote chunks, embeds and stores one note. Unchanged content
	// (by hash) is skipped without any provider call. Old chunks are
	// replaced only after embedding succeeds, so a failed re-index
	// leaves the previous chunks searchable.
	IndexNote(ctx context.Context, note domain.Note) error

	// IndexAll indexes every eligible note sequentially, best-effort:
	// per-note failures are logged and skipped. onProgress may be nil.
	IndexAll(ctx context.Context, onProgress domain.ProgressFunc) (domain.IndexReport, error)

	// MarkDirty records a path as modified. Cheap and synchronous;
	// no hashing, no I/O.
	MarkDirty(path string)

	// FlushDirty atomically drains the dirty set and re-indexes each
	// drained path. Edits arriving mid-flush land in a fresh set.
	FlushDirty(ctx context.Context) error

	// RemoveNote drops a note's hash entry and all of its chunks.
	RemoveNote(ctx context.Context, path string) error

	// RenameNote removes everything under the old path, then runs the
	// full IndexNote flow for the note at its new path.
	RenameNote(ctx context.Context, oldPath string, note domain.Note) error

	// Run consumes vault change events until ctx is cancelled.
	Run(ctx context.Context) error

	// ClearIndex empties the vector store and the hash registry.
	ClearIndex(ctx context.Context) error

	// Stats reports the current index size.
	Stats() domain.IndexStats

	// UpdateSettings applies new settings without reconstruction.
	UpdateSettings(settings domain.Settings)

	// Close flushes pending state and releases resources.
	Close() error
}
