package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{
			name:     "ollama is valid",
			provider: AIProviderOllama,
			expected: true,
		},
		{
			name:     "openai is valid",
			provider: AIProviderOpenAI,
			expected: true,
		},
		{
			name:     "anthropic is valid",
			provider: AIProviderAnthropic,
			expected: true,
		},
		{
			name:     "empty string is invalid",
			provider: AIProvider(""),
			expected: false,
		},
		{
			name:     "unknown provider is invalid",
			provider: AIProvider("cohere"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_RequiresAPIKey tests API key requirements per provider
func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

// TestEmbeddingSettings_IsConfigured tests configuration completeness checks
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{
			name:     "unconfigured",
			settings: EmbeddingSettings{},
			expected: false,
		},
		{
			name: "ollama without api key",
			settings: EmbeddingSettings{
				Provider: AIProviderOllama,
				Model:    "nomic-embed-text",
			},
			expected: true,
		},
		{
			name: "openai without api key",
			settings: EmbeddingSettings{
				Provider: AIProviderOpenAI,
				Model:    "text-embedding-3-small",
			},
			expected: false,
		},
		{
			name: "openai with api key",
			settings: EmbeddingSettings{
				Provider: AIProviderOpenAI,
				Model:    "text-embedding-3-small",
				APIKey:   "sk-test",
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

// TestDefaultSettings tests that defaults are sane and AI is unconfigured
func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, DefaultChunkSize, s.Chunking.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, s.Chunking.Overlap)
	assert.Less(t, s.Chunking.Overlap, s.Chunking.ChunkSize,
		"default overlap must stay below chunk size")

	assert.Equal(t, DefaultBatchSize, s.Embedding.BatchSize)
	assert.Equal(t, DefaultBatchDelay, s.Embedding.BatchDelay)
	assert.False(t, s.Embedding.IsConfigured(), "embedding starts unconfigured")
	assert.False(t, s.LLM.IsConfigured(), "LLM starts unconfigured")

	assert.True(t, s.Indexing.AutoIndex)
	assert.Equal(t, DefaultTopK, s.Retrieval.TopK)
	assert.InDelta(t, DefaultSimilarityThreshold, s.Retrieval.SimilarityThreshold, 1e-9)
	assert.Contains(t, s.Vault.ExcludedFolders, ".obsidian")
}
