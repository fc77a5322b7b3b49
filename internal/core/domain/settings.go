package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API (LLM only).
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// EmbeddingDimensions returns vector sizes for known embedding models.
// Unknown models fall back to the provider adapter's default.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// VaultSettings holds note vault configuration.
type VaultSettings struct {
	// Path is the vault root directory.
	Path string

	// ExcludedFolders are vault-relative folder prefixes that are never
	// indexed. Checked before any hashing or embedding work.
	ExcludedFolders []string
}

// ChunkingSettings holds word-window chunking configuration.
type ChunkingSettings struct {
	// ChunkSize is the window width in words.
	ChunkSize int

	// Overlap is the number of words shared between adjacent windows.
	Overlap int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BatchSize is how many texts are embedded concurrently per batch.
	BatchSize int

	// BatchDelay is the pause between consecutive batches.
	BatchDelay time.Duration
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// IndexingSettings holds incremental indexing behaviour.
type IndexingSettings struct {
	// AutoIndex enables index updates from vault change events.
	AutoIndex bool

	// FlushDelay is the quiet period after the last modification event
	// before the dirty set is flushed.
	FlushDelay time.Duration
}

// RetrievalSettings holds retrieval behaviour.
type RetrievalSettings struct {
	// TopK is the default number of chunks to retrieve.
	TopK int

	// SimilarityThreshold is the minimum cosine similarity for a hit.
	SimilarityThreshold float64

	// HistoryWindow is how many recent exchanges feed query rewriting.
	HistoryWindow int
}

// Settings holds all application settings. Components receive it at
// construction and through UpdateSettings for hot-reload; there is no
// ambient global settings object.
type Settings struct {
	// Vault holds note vault settings.
	Vault VaultSettings

	// Chunking holds chunker settings.
	Chunking ChunkingSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Indexing holds incremental indexing settings.
	Indexing IndexingSettings

	// Retrieval holds retrieval settings.
	Retrieval RetrievalSettings
}

// Default tuning values.
const (
	DefaultChunkSize           = 250
	DefaultChunkOverlap        = 50
	DefaultBatchSize           = 10
	DefaultBatchDelay          = 500 * time.Millisecond
	DefaultFlushDelay          = 2 * time.Second
	DefaultTopK                = 5
	DefaultSimilarityThreshold = 0.65
	DefaultHistoryWindow       = 3
)

// DefaultSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users must set them up via
// `notedex settings` before indexing.
func DefaultSettings() Settings {
	return Settings{
		Vault: VaultSettings{
			ExcludedFolders: []string{".obsidian", ".trash"},
		},
		Chunking: ChunkingSettings{
			ChunkSize: DefaultChunkSize,
			Overlap:   DefaultChunkOverlap,
		},
		Embedding: EmbeddingSettings{
			BatchSize:  DefaultBatchSize,
			BatchDelay: DefaultBatchDelay,
		},
		LLM: LLMSettings{},
		Indexing: IndexingSettings{
			AutoIndex:  true,
			FlushDelay: DefaultFlushDelay,
		},
		Retrieval: RetrievalSettings{
			TopK:                DefaultTopK,
			SimilarityThreshold: DefaultSimilarityThreshold,
			HistoryWindow:       DefaultHistoryWindow,
		},
	}
}
