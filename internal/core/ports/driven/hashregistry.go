package driven

import "context"

// HashRegistry maps note paths to fast non-cryptographic content hashes,
// persisted separately from the vector snapshot. A path's hash reflects the
// content that produced its currently-stored chunks; absence means "never
// successfully indexed". The registry owns the hash algorithm so callers
// only ever compare opaque strings.
type HashRegistry interface {
	// Initialize loads the registry file if present. Missing file means
	// an empty registry; a corrupt file is a fatal error.
	Initialize(ctx context.Context) error

	// Hash fingerprints content with the registry's algorithm.
	Hash(content string) string

	// Get returns the recorded hash for a path.
	Get(path string) (string, bool)

	// Set records a path's hash and schedules a debounced persist.
	Set(path, hash string)

	// Delete removes a path's entry and schedules a persist if it existed.
	Delete(path string)

	// Clear drops every entry. Paired with clearing the vector store so a
	// rebuild re-indexes instead of skipping unchanged notes.
	Clear()

	// Len returns the number of recorded paths.
	Len() int

	// Flush cancels any pending debounced persist and writes synchronously.
	Flush(ctx context.Context) error

	// Close flushes and releases resources.
	Close() error
}
