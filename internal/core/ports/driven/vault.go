package driven

import (
	"context"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

// NoteSource reads notes from the vault and reports changes to them.
// The filesystem adapter is the only implementation; the indexing engine
// never touches the disk directly.
type NoteSource interface {
	// Validate checks the vault root exists and is readable.
	Validate(ctx context.Context) error

	// List returns the vault-relative paths of all indexable notes.
	// Hidden files and directories are skipped; exclusion rules are the
	// indexing engine's concern, not the source's.
	List(ctx context.Context) ([]string, error)

	// Read loads a note's content, title and modification time.
	Read(ctx context.Context, path string) (domain.Note, error)

	// Watch emits typed change events until ctx is cancelled or the
	// source is closed. The channel is closed on shutdown.
	Watch(ctx context.Context) (<-chan domain.NoteChange, error)

	// Root returns the absolute vault root directory.
	Root() string

	// Close releases watcher resources.
	Close() error
}
