package domain

import (
	"fmt"
	"time"
)

// Chunk represents a contiguous slice of a note's word stream.
// Chunks are created fresh on every (re-)index of a note, never mutated in
// place, and superseded wholesale when their note changes.
type Chunk struct {
	// Content is the joined words of the window.
	Content string

	// SourcePath is the vault-relative path of the owning note.
	SourcePath string

	// ChunkIndex is the 0-based position among chunks of the same note.
	ChunkIndex int

	// TotalChunks is the chunk count for the note at chunking time.
	// Recomputed on every re-index.
	TotalChunks int

	// NoteTitle is the display name of the owning note, stored
	// redundantly so retrieval can format context without a vault read.
	NoteTitle string
}

// ID returns the deterministic identifier for this chunk position.
// Stable across re-embeddings of the same position; changes when the
// note's path or the chunk layout changes.
func (c Chunk) ID() string {
	return ChunkID(c.SourcePath, c.ChunkIndex)
}

// ChunkID derives the store key for a chunk from its path and position.
func ChunkID(sourcePath string, chunkIndex int) string {
	return fmt.Sprintf("%s::chunk::%d", sourcePath, chunkIndex)
}

// IndexedDocument is the stored, searchable unit: a chunk plus its vector.
type IndexedDocument struct {
	// ID is ChunkID(SourcePath, ChunkIndex), unique across the store.
	ID string

	// Chunk carries the text and positional metadata.
	Chunk

	// Embedding is the vector representation. Every vector in a store
	// shares one dimensionality, fixed by the embedding model.
	Embedding []float32

	// Norm is the precomputed Euclidean norm of Embedding. It is a
	// derived cache owned by the store, never persisted.
	Norm float64

	// Timestamp is the note's last-modified time at index time.
	Timestamp time.Time
}

// NewIndexedDocument packages a chunk and its embedding for storage.
// Norm is left zero; the store computes it on insert and on snapshot load.
func NewIndexedDocument(c Chunk, embedding []float32, modTime time.Time) IndexedDocument {
	return IndexedDocument{
		ID:        c.ID(),
		Chunk:     c,
		Embedding: embedding,
		Timestamp: modTime,
	}
}
