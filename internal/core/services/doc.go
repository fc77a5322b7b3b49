// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The four services and their responsibilities:
//
//   - IndexingEngine: chunks vault notes, embeds them, and keeps the
//     vector store consistent with the vault (hash-based change
//     detection, atomic per-note swaps, dirty-path debouncing)
//   - RetrievalPipeline: turns a query into ranked chunks and an
//     LLM-ready context block, with optional history-aware rewriting
//   - EmbeddingPipeline: batches embedding calls and paces them so
//     provider rate limits are respected
//   - SettingsService: validated read/write access to configuration
//     with change notification for hot reload
package services
