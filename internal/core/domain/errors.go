package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptSnapshot indicates the persisted vector snapshot could not
	// be decoded. A missing snapshot is an empty store; a corrupt one is
	// fatal. Recovery is clear-and-rebuild, never a silent empty start.
	ErrCorruptSnapshot = errors.New("vector snapshot corrupt")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// store's pinned dimensionality. All vectors in one store share a single
	// dimensionality; a mismatch is a data error, not a soft miss.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and semantic retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (query rewriting, answering) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrVaultUnavailable indicates the note vault cannot be read.
	ErrVaultUnavailable = errors.New("vault unavailable")

	// ErrVaultClosed indicates the vault watcher has been closed.
	ErrVaultClosed = errors.New("vault closed")

	// ErrPathExcluded indicates a path matched a configured excluded folder.
	// Excluded paths are rejected before any hashing or embedding work.
	ErrPathExcluded = errors.New("path excluded from indexing")

	// ErrUnsupportedProvider indicates an unknown AI provider name.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrStoreClosed indicates the vector store has been closed.
	ErrStoreClosed = errors.New("vector store closed")
)
