package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notedex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notedex/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)

	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Chunking.ChunkSize, settings.Chunking.ChunkSize)
	assert.Equal(t, defaults.Chunking.Overlap, settings.Chunking.Overlap)
	assert.Equal(t, defaults.Embedding.BatchSize, settings.Embedding.BatchSize)
	assert.Equal(t, defaults.Embedding.BatchDelay, settings.Embedding.BatchDelay)
	assert.Equal(t, defaults.Indexing.AutoIndex, settings.Indexing.AutoIndex)
	assert.Equal(t, defaults.Indexing.FlushDelay, settings.Indexing.FlushDelay)
	assert.Equal(t, defaults.Retrieval.TopK, settings.Retrieval.TopK)
	assert.Equal(t, defaults.Retrieval.SimilarityThreshold, settings.Retrieval.SimilarityThreshold)
	assert.Equal(t, defaults.Retrieval.HistoryWindow, settings.Retrieval.HistoryWindow)
	assert.Equal(t, defaults.Vault.ExcludedFolders, settings.Vault.ExcludedFolders)
	assert.Empty(t, settings.Vault.Path)
	assert.Empty(t, settings.Embedding.Provider)
	assert.Empty(t, settings.LLM.Provider)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("vault.path", "/notes")
	_ = store.Set("chunking.chunk_size", 100)
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("llm.provider", "anthropic")
	_ = store.Set("retrieval.top_k", 10)

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "/notes", settings.Vault.Path)
	assert.Equal(t, 100, settings.Chunking.ChunkSize)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, 10, settings.Retrieval.TopK)
}

func TestSettingsService_Get_InvalidProviderReturnsEmpty(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")
	_ = store.Set("llm.provider", "also_invalid")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Empty(t, settings.Embedding.Provider)
	assert.Empty(t, settings.LLM.Provider)
}

func TestSettingsService_Get_ModelFollowsProvider(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "ollama")
	_ = store.Set("llm.provider", "anthropic")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultEmbeddingModels()[domain.AIProviderOllama], settings.Embedding.Model)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderAnthropic], settings.LLM.Model)
}

func TestSettingsService_Get_StoredModelWins(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "ollama")
	_ = store.Set("embedding.model", "mxbai-embed-large")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "mxbai-embed-large", settings.Embedding.Model)
}

func TestSettingsService_Get_EnvFallbackForAPIKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-from-env")

	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("llm.provider", "anthropic")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", settings.Embedding.APIKey)
	assert.Equal(t, "sk-ant-from-env", settings.LLM.APIKey)
}

func TestSettingsService_Get_StoredAPIKeyBeatsEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.api_key", "sk-from-config")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "sk-from-config", settings.Embedding.APIKey)
}

func TestSettingsService_Get_ExplicitZeroOverlap(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("chunking.overlap", 0)

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	// Zero overlap is a deliberate choice, not an unset key.
	assert.Equal(t, 0, settings.Chunking.Overlap)
}

func TestSettingsService_Get_DurationsStoredAsStrings(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.batch_delay", "250ms")
	_ = store.Set("indexing.flush_delay", "5s")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, settings.Embedding.BatchDelay)
	assert.Equal(t, 5*time.Second, settings.Indexing.FlushDelay)
}

func TestSettingsService_Get_MalformedDurationReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("indexing.flush_delay", "not-a-duration")

	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFlushDelay, settings.Indexing.FlushDelay)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := domain.DefaultSettings()
	settings.Vault.Path = "/home/user/vault"
	settings.Vault.ExcludedFolders = []string{".obsidian", "archive"}
	settings.Chunking.ChunkSize = 300
	settings.Chunking.Overlap = 60
	settings.Embedding.Provider = domain.AIProviderOpenAI
	settings.Embedding.Model = "text-embedding-3-small"
	settings.Embedding.APIKey = "sk-test-key"
	settings.Embedding.BatchDelay = 750 * time.Millisecond
	settings.LLM.Provider = domain.AIProviderAnthropic
	settings.LLM.Model = "claude-3-5-haiku-latest"
	settings.LLM.APIKey = "sk-ant-test"
	settings.Retrieval.TopK = 8
	settings.Retrieval.SimilarityThreshold = 0.5

	err := service.Save(settings)
	require.NoError(t, err)

	retrieved, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "/home/user/vault", retrieved.Vault.Path)
	assert.Equal(t, []string{".obsidian", "archive"}, retrieved.Vault.ExcludedFolders)
	assert.Equal(t, 300, retrieved.Chunking.ChunkSize)
	assert.Equal(t, 60, retrieved.Chunking.Overlap)
	assert.Equal(t, domain.AIProviderOpenAI, retrieved.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", retrieved.Embedding.Model)
	assert.Equal(t, "sk-test-key", retrieved.Embedding.APIKey)
	assert.Equal(t, 750*time.Millisecond, retrieved.Embedding.BatchDelay)
	assert.Equal(t, domain.AIProviderAnthropic, retrieved.LLM.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", retrieved.LLM.Model)
	assert.Equal(t, "sk-ant-test", retrieved.LLM.APIKey)
	assert.Equal(t, 8, retrieved.Retrieval.TopK)
	assert.Equal(t, 0.5, retrieved.Retrieval.SimilarityThreshold)
}

func TestSettingsService_Save_EmptyAPIKeyPreservesStored(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.api_key", "sk-existing")
	_ = store.Set("llm.api_key", "sk-ant-existing")

	service := NewSettingsService(store, nil)

	settings := domain.DefaultSettings()
	settings.Embedding.Provider = domain.AIProviderOpenAI
	settings.Embedding.APIKey = ""
	settings.LLM.Provider = domain.AIProviderAnthropic
	settings.LLM.APIKey = ""

	err := service.Save(settings)
	require.NoError(t, err)

	assert.Equal(t, "sk-existing", store.GetString("embedding.api_key"))
	assert.Equal(t, "sk-ant-existing", store.GetString("llm.api_key"))
}

func TestSettingsService_Save_DurationsStoredAsStrings(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := domain.DefaultSettings()
	settings.Embedding.BatchDelay = 250 * time.Millisecond
	settings.Indexing.FlushDelay = 3 * time.Second

	err := service.Save(settings)
	require.NoError(t, err)

	assert.Equal(t, "250ms", store.GetString("embedding.batch_delay"))
	assert.Equal(t, "3s", store.GetString("indexing.flush_delay"))
}

func TestSettingsService_SetKey(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, settings domain.Settings)
	}{
		{
			name:  "vault path",
			key:   "vault.path",
			value: "/notes",
			check: func(t *testing.T, settings domain.Settings) {
				assert.Equal(t, "/notes", settings.Vault.Path)
			},
		},
		{
			name:  "excluded folders split on commas",
			key:   "vault.excluded_folders",
			value: ".obsidian, archive ,drafts",
			check: func(t *testing.T, settings domain.Settings) {
				assert.Equal(t, []string{".obsidian", "archive", "drafts"}, settings.Vault.ExcludedFolders)
			},
		},
		{
			name:  "chunk size",
			key:   "chunking.chunk_size",
			value: "128",
			check: func(t *testing.T, settings domain.Settings) {
				assert.Equal(t, 128, settings.Chunking.ChunkSize)
			},
		},
		{
			name:  "similarity threshold",
			key:   "retrieval.similarity_threshold",
			value: "0.75",
			check: func(t *testing.T, settings domain.Settings) {
				assert.Equal(t, 0.75, settings.Retrieval.SimilarityThreshold)
			},
		},
		{
			name:  "auto index",
			key:   "indexing.auto_index",
			value: "false",
			check: func(t *testing.T, settings domain.Settings) {
				assert.False(t, settings.Indexing.AutoIndex)
			},
		},
		{
			name:  "flush delay",
			key:   "indexing.flush_delay",
			value: "1500ms",
			check: func(t *testing.T, settings domain.Settings) {
				assert.Equal(t, 1500*time.Millisecond, settings.Indexing.FlushDelay)
			},
		},
		{
			name:  "embedding provider",
			key:   "embedding.provider",
			value: "ollama",
			check: func(t *testing.T, settings domain.Settings) {
				assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
			},
		},
		{
			name:  "llm provider",
			key:   "llm.provider",
			value: "anthropic",
			check: func(t *testing.T, settings domain.Settings) {
				assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil)

			err := service.SetKey(tt.key, tt.value)

			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_SetKey_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"integer key with text", "chunking.chunk_size", "lots", "expects an integer"},
		{"float key with text", "retrieval.similarity_threshold", "high", "expects a number"},
		{"bool key with text", "indexing.auto_index", "yes please", "expects true or false"},
		{"duration key with text", "indexing.flush_delay", "soon", "expects a duration"},
		{"unknown embedding provider", "embedding.provider", "gemini", "unknown embedding provider"},
		{"anthropic embeddings rejected", "embedding.provider", "anthropic", "does not support embeddings"},
		{"unknown llm provider", "llm.provider", "gemini", "unknown llm provider"},
		{"unknown key", "search.mode", "hybrid", "unknown settings key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil)

			err := service.SetKey(tt.key, tt.value)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsService_SetKey_NothingStoredOnParseError(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetKey("chunking.chunk_size", "lots")

	require.Error(t, err)
	_, exists := store.Get("chunking.chunk_size")
	assert.False(t, exists)
}

func TestSettingsService_SetKey_NormalisesDurations(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetKey("embedding.batch_delay", "1500ms")

	require.NoError(t, err)
	assert.Equal(t, "1.5s", store.GetString("embedding.batch_delay"))
}

func TestSettingsService_GetKey(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("vault.path", "/notes")
	_ = store.Set("chunking.chunk_size", 128)
	_ = store.Set("retrieval.similarity_threshold", 0.75)
	_ = store.Set("indexing.auto_index", false)
	_ = store.Set("indexing.flush_delay", "1.5s")
	_ = store.Set("vault.excluded_folders", []string{".obsidian", "archive"})

	service := NewSettingsService(store, nil)

	tests := []struct {
		key  string
		want string
	}{
		{"vault.path", "/notes"},
		{"vault.excluded_folders", ".obsidian,archive"},
		{"chunking.chunk_size", "128"},
		{"retrieval.similarity_threshold", "0.75"},
		{"indexing.auto_index", "false"},
		{"indexing.flush_delay", "1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := service.GetKey(tt.key)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_GetKey_MasksAPIKeys(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.api_key", "sk-verylongsecretkey-abcd")
	_ = store.Set("llm.api_key", "short")

	service := NewSettingsService(store, nil)

	embedKey, err := service.GetKey("embedding.api_key")
	require.NoError(t, err)
	assert.Equal(t, "****abcd", embedKey)
	assert.NotContains(t, embedKey, "verylongsecret")

	llmKey, err := service.GetKey("llm.api_key")
	require.NoError(t, err)
	assert.Equal(t, "********", llmKey)
}

func TestSettingsService_GetKey_EmptyAPIKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	got, err := service.GetKey("embedding.api_key")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSettingsService_GetKey_UnknownKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	_, err := service.GetKey("search.mode")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown settings key")
}

func TestSettingsService_Keys(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	keys := service.Keys()

	assert.Contains(t, keys, "vault.path")
	assert.Contains(t, keys, "chunking.chunk_size")
	assert.Contains(t, keys, "embedding.provider")
	assert.Contains(t, keys, "llm.provider")
	assert.Contains(t, keys, "retrieval.top_k")

	// Every listed key must round-trip through GetKey.
	for _, key := range keys {
		_, err := service.GetKey(key)
		assert.NoError(t, err, "key %s", key)
	}
}

func TestSettingsService_Validate_Defaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.Validate()
	assert.NoError(t, err)
}

func TestSettingsService_Validate_UnknownProvider(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "gemini")

	service := NewSettingsService(store, nil)

	err := service.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown embedding provider")
}

func TestSettingsService_Validate_AnthropicEmbeddings(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "anthropic")

	service := NewSettingsService(store, nil)

	err := service.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support embeddings")
}

func TestSettingsService_Validate_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("llm.provider", "anthropic")

	service := NewSettingsService(store, nil)

	err := service.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding provider openai requires an API key")
	assert.Contains(t, err.Error(), "llm provider anthropic requires an API key")
}

func TestSettingsService_Validate_EnvKeySatisfiesRequirement(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")

	service := NewSettingsService(store, nil)

	err := service.Validate()
	assert.NoError(t, err)
}

func TestSettingsService_Validate_LocalProviderNeedsNoKey(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "ollama")
	_ = store.Set("llm.provider", "ollama")

	service := NewSettingsService(store, nil)

	err := service.Validate()
	assert.NoError(t, err)
}

func TestSettingsService_Validate_Ranges(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr string
	}{
		{"negative chunk size", "chunking.chunk_size", -1, "chunking.chunk_size must be at least 1"},
		{"negative overlap", "chunking.overlap", -5, "chunking.overlap must not be negative"},
		{"negative top k", "retrieval.top_k", -1, "retrieval.top_k must be at least 1"},
		{"threshold too high", "retrieval.similarity_threshold", 1.5, "retrieval.similarity_threshold must be between -1 and 1"},
		{"threshold too low", "retrieval.similarity_threshold", -2.0, "retrieval.similarity_threshold must be between -1 and 1"},
		{"negative history window", "retrieval.history_window", -1, "retrieval.history_window must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			_ = store.Set(tt.key, tt.value)

			service := NewSettingsService(store, nil)

			err := service.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsService_Validate_JoinsAllProblems(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "anthropic")
	_ = store.Set("chunking.chunk_size", -1)
	_ = store.Set("retrieval.top_k", -1)

	service := NewSettingsService(store, nil)

	err := service.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support embeddings")
	assert.Contains(t, err.Error(), "chunking.chunk_size")
	assert.Contains(t, err.Error(), "retrieval.top_k")
}

func TestSettingsService_GetDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	defaults := service.GetDefaults()

	assert.Equal(t, domain.DefaultSettings(), defaults)
}

func TestSettingsService_Subscribe_NotifiedOnSave(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	var received []domain.Settings
	service.Subscribe(func(s domain.Settings) {
		received = append(received, s)
	})

	settings := domain.DefaultSettings()
	settings.Chunking.ChunkSize = 99

	err := service.Save(settings)
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, 99, received[0].Chunking.ChunkSize)
}

func TestSettingsService_Subscribe_NotifiedOnSetKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	var received []domain.Settings
	service.Subscribe(func(s domain.Settings) {
		received = append(received, s)
	})

	err := service.SetKey("retrieval.top_k", "12")
	require.NoError(t, err)

	require.Len(t, received, 1)
	// Subscribers see the full resulting settings, not just the one key.
	assert.Equal(t, 12, received[0].Retrieval.TopK)
	assert.Equal(t, domain.DefaultChunkSize, received[0].Chunking.ChunkSize)
}

func TestSettingsService_Subscribe_NotNotifiedOnFailedSetKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	notified := 0
	service.Subscribe(func(domain.Settings) {
		notified++
	})

	err := service.SetKey("chunking.chunk_size", "lots")

	require.Error(t, err)
	assert.Zero(t, notified)
}

func TestSettingsService_Subscribe_MultipleSubscribers(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	first, second := 0, 0
	service.Subscribe(func(domain.Settings) { first++ })
	service.Subscribe(func(domain.Settings) { second++ })

	err := service.SetKey("retrieval.top_k", "7")
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

// Mock config store that fails Set on a chosen key.
type failingConfigStore struct {
	*memory.ConfigStore
	failOn string
}

func (f *failingConfigStore) Set(key string, value any) error {
	if f.failOn == "" || key == f.failOn {
		return assert.AnError
	}
	return f.ConfigStore.Set(key, value)
}

func TestSettingsService_Save_SetError(t *testing.T) {
	store := &failingConfigStore{
		ConfigStore: memory.NewConfigStore(),
		failOn:      "chunking.chunk_size",
	}
	service := NewSettingsService(store, nil)

	notified := 0
	service.Subscribe(func(domain.Settings) { notified++ })

	err := service.Save(domain.DefaultSettings())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunking.chunk_size")
	assert.Zero(t, notified)
}

func TestSettingsService_SetKey_SetError(t *testing.T) {
	store := &failingConfigStore{
		ConfigStore: memory.NewConfigStore(),
		failOn:      "retrieval.top_k",
	}
	service := NewSettingsService(store, nil)

	err := service.SetKey("retrieval.top_k", "7")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval.top_k")
}

// Mock AIConfigValidator for testing.
type mockAIConfigValidator struct {
	embedErr error
	llmErr   error

	lastEmbedding *domain.EmbeddingSettings
	lastLLM       *domain.LLMSettings
}

func (m *mockAIConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	m.lastEmbedding = settings
	return m.embedErr
}

func (m *mockAIConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	m.lastLLM = settings
	return m.llmErr
}

func TestSettingsService_ValidateEmbeddingConfig_NilValidator(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.ValidateEmbeddingConfig()

	assert.NoError(t, err)
}

func TestSettingsService_ValidateEmbeddingConfig_PassesSettings(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "ollama")
	_ = store.Set("embedding.model", "nomic-embed-text")

	validator := &mockAIConfigValidator{}
	service := NewSettingsService(store, validator)

	err := service.ValidateEmbeddingConfig()

	require.NoError(t, err)
	require.NotNil(t, validator.lastEmbedding)
	assert.Equal(t, domain.AIProviderOllama, validator.lastEmbedding.Provider)
	assert.Equal(t, "nomic-embed-text", validator.lastEmbedding.Model)
}

func TestSettingsService_ValidateEmbeddingConfig_Error(t *testing.T) {
	store := memory.NewConfigStore()
	validator := &mockAIConfigValidator{embedErr: assert.AnError}
	service := NewSettingsService(store, validator)

	err := service.ValidateEmbeddingConfig()

	assert.Error(t, err)
}

func TestSettingsService_ValidateLLMConfig_NilValidator(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.ValidateLLMConfig()

	assert.NoError(t, err)
}

func TestSettingsService_ValidateLLMConfig_Error(t *testing.T) {
	store := memory.NewConfigStore()
	validator := &mockAIConfigValidator{llmErr: assert.AnError}
	service := NewSettingsService(store, validator)

	err := service.ValidateLLMConfig()

	assert.Error(t, err)
}
