// Package domain defines the core business entities for Notedex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Note: A raw note read from the vault
//   - Chunk: A bounded word-window slice of a note, the unit of embedding
//   - IndexedDocument: A chunk plus its embedding, the stored searchable unit
//   - NoteChange: A typed vault change event (create/modify/delete/rename)
//   - RAGContext: Retrieval output assembled for a language model
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
