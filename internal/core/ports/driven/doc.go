// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - NoteSource: Reads vault notes and reports change events
//   - VectorStore: In-memory chunk index with snapshot persistence
//   - HashRegistry: Content-hash change detection state
//   - ConfigStore: Application configuration
//   - EmbeddingService: Generates vector embeddings
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Query rewriting and answering. Without it, retrieval
//     embeds the user's query verbatim and the ask command is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or vault package
package driven
