package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/notedex/internal/core/domain"
	"github.com/custodia-labs/notedex/internal/core/ports/driven"
	"github.com/custodia-labs/notedex/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyVaultPath       = "vault.path"
	keyVaultExcluded   = "vault.excluded_folders"
	keyChunkSize       = "chunking.chunk_size"
	keyChunkOverlap    = "chunking.overlap"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedBatchSize  = "embedding.batch_size"
	keyEmbedBatchDelay = "embedding.batch_delay"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyAutoIndex       = "indexing.auto_index"
	keyFlushDelay      = "indexing.flush_delay"
	keyTopK            = "retrieval.top_k"
	keyThreshold       = "retrieval.similarity_threshold"
	keyHistoryWindow   = "retrieval.history_window"
)

// settingsKeys lists every known key in display order.
var settingsKeys = []string{
	keyVaultPath,
	keyVaultExcluded,
	keyChunkSize,
	keyChunkOverlap,
	keyEmbedProvider,
	keyEmbedModel,
	keyEmbedBaseURL,
	keyEmbedAPIKey,
	keyEmbedBatchSize,
	keyEmbedBatchDelay,
	keyLLMProvider,
	keyLLMModel,
	keyLLMBaseURL,
	keyLLMAPIKey,
	keyAutoIndex,
	keyFlushDelay,
	keyTopK,
	keyThreshold,
	keyHistoryWindow,
}

// Environment fallbacks for API keys, checked when the config file has none.
const (
	envOpenAIKey    = "OPENAI_API_KEY"
	envAnthropicKey = "ANTHROPIC_API_KEY"
)

// SettingsService manages application settings on top of a ConfigStore.
// It owns the mapping between dot-notation config keys and the typed
// settings struct, and fans out every successful change to subscribers
// so running components hot-reload.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator

	mu          sync.Mutex
	subscribers []func(domain.Settings)
}

// NewSettingsService creates a new settings service. aiValidator may be
// nil, in which case provider connectivity checks are skipped.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings, applying defaults for
// anything unset and environment fallbacks for missing API keys.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		Vault: domain.VaultSettings{
			Path:            s.configStore.GetString(keyVaultPath),
			ExcludedFolders: s.getStringSlice(keyVaultExcluded, defaults.Vault.ExcludedFolders),
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Chunking.ChunkSize),
			Overlap:   s.getIntAllowZero(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider),
			Model:      s.configStore.GetString(keyEmbedModel),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL),
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			BatchSize:  s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			BatchDelay: s.getDuration(keyEmbedBatchDelay, defaults.Embedding.BatchDelay),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider),
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Indexing: domain.IndexingSettings{
			AutoIndex:  s.getBool(keyAutoIndex, defaults.Indexing.AutoIndex),
			FlushDelay: s.getDuration(keyFlushDelay, defaults.Indexing.FlushDelay),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:                s.getInt(keyTopK, defaults.Retrieval.TopK),
			SimilarityThreshold: s.getFloat(keyThreshold, defaults.Retrieval.SimilarityThreshold),
			HistoryWindow:       s.getInt(keyHistoryWindow, defaults.Retrieval.HistoryWindow),
		},
	}

	// Unset models follow the provider.
	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings and notifies subscribers.
func (s *SettingsService) Save(settings domain.Settings) error {
	values := map[string]any{
		keyVaultPath:       settings.Vault.Path,
		keyVaultExcluded:   settings.Vault.ExcludedFolders,
		keyChunkSize:       settings.Chunking.ChunkSize,
		keyChunkOverlap:    settings.Chunking.Overlap,
		keyEmbedProvider:   settings.Embedding.Provider.String(),
		keyEmbedModel:      settings.Embedding.Model,
		keyEmbedBaseURL:    settings.Embedding.BaseURL,
		keyEmbedBatchSize:  settings.Embedding.BatchSize,
		keyEmbedBatchDelay: settings.Embedding.BatchDelay.String(),
		keyLLMProvider:     settings.LLM.Provider.String(),
		keyLLMModel:        settings.LLM.Model,
		keyLLMBaseURL:      settings.LLM.BaseURL,
		keyAutoIndex:       settings.Indexing.AutoIndex,
		keyFlushDelay:      settings.Indexing.FlushDelay.String(),
		keyTopK:            settings.Retrieval.TopK,
		keyThreshold:       settings.Retrieval.SimilarityThreshold,
		keyHistoryWindow:   settings.Retrieval.HistoryWindow,
	}
	// Never write empty API keys over ones already stored.
	if settings.Embedding.APIKey != "" {
		values[keyEmbedAPIKey] = settings.Embedding.APIKey
	}
	if settings.LLM.APIKey != "" {
		values[keyLLMAPIKey] = settings.LLM.APIKey
	}

	for _, key := range settingsKeys {
		value, ok := values[key]
		if !ok {
			continue
		}
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	s.notify(settings)
	return nil
}

// SetKey parses and persists a single dot-notation key, then notifies
// subscribers with the full resulting settings.
func (s *SettingsService) SetKey(key, value string) error {
	parsed, err := s.parseValue(key, value)
	if err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	s.notify(settings)
	return nil
}

// GetKey reads a single dot-notation key as a display string. API keys
// are masked.
func (s *SettingsService) GetKey(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case keyVaultPath:
		return settings.Vault.Path, nil
	case keyVaultExcluded:
		return strings.Join(settings.Vault.ExcludedFolders, ","), nil
	case keyChunkSize:
		return strconv.Itoa(settings.Chunking.ChunkSize), nil
	case keyChunkOverlap:
		return strconv.Itoa(settings.Chunking.Overlap), nil
	case keyEmbedProvider:
		return settings.Embedding.Provider.String(), nil
	case keyEmbedModel:
		return settings.Embedding.Model, nil
	case keyEmbedBaseURL:
		return settings.Embedding.BaseURL, nil
	case keyEmbedAPIKey:
		return maskKey(settings.Embedding.APIKey), nil
	case keyEmbedBatchSize:
		return strconv.Itoa(settings.Embedding.BatchSize), nil
	case keyEmbedBatchDelay:
		return settings.Embedding.BatchDelay.String(), nil
	case keyLLMProvider:
		return settings.LLM.Provider.String(), nil
	case keyLLMModel:
		return settings.LLM.Model, nil
	case keyLLMBaseURL:
		return settings.LLM.BaseURL, nil
	case keyLLMAPIKey:
		return maskKey(settings.LLM.APIKey), nil
	case keyAutoIndex:
		return strconv.FormatBool(settings.Indexing.AutoIndex), nil
	case keyFlushDelay:
		return settings.Indexing.FlushDelay.String(), nil
	case keyTopK:
		return strconv.Itoa(settings.Retrieval.TopK), nil
	case keyThreshold:
		return strconv.FormatFloat(settings.Retrieval.SimilarityThreshold, 'g', -1, 64), nil
	case keyHistoryWindow:
		return strconv.Itoa(settings.Retrieval.HistoryWindow), nil
	default:
		return "", fmt.Errorf("unknown settings key %q", key)
	}
}

// Keys lists the known dot-notation settings keys.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsKeys))
	copy(keys, settingsKeys)
	return keys
}

// Validate checks that current settings are internally consistent. All
// problems are reported together rather than one at a time.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error

	// Providers are validated on the raw stored values; Get coerces
	// unknown providers rather than failing.
	if raw := s.configStore.GetString(keyEmbedProvider); raw != "" {
		provider := domain.AIProvider(raw)
		switch {
		case !provider.IsValid():
			errs = append(errs, fmt.Errorf("unknown embedding provider %q", raw))
		case provider == domain.AIProviderAnthropic:
			errs = append(errs, errors.New("anthropic does not support embeddings, use ollama or openai"))
		case provider.RequiresAPIKey() && settings.Embedding.APIKey == "":
			errs = append(errs, fmt.Errorf("embedding provider %s requires an API key (set %s or %s)", provider, keyEmbedAPIKey, envOpenAIKey))
		}
	}
	if raw := s.configStore.GetString(keyLLMProvider); raw != "" {
		provider := domain.AIProvider(raw)
		switch {
		case !provider.IsValid():
			errs = append(errs, fmt.Errorf("unknown llm provider %q", raw))
		case provider.RequiresAPIKey() && settings.LLM.APIKey == "":
			errs = append(errs, fmt.Errorf("llm provider %s requires an API key", provider))
		}
	}

	if settings.Chunking.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", keyChunkSize, settings.Chunking.ChunkSize))
	}
	if settings.Chunking.Overlap < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", keyChunkOverlap, settings.Chunking.Overlap))
	}
	if settings.Retrieval.TopK < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", keyTopK, settings.Retrieval.TopK))
	}
	if settings.Retrieval.SimilarityThreshold < -1 || settings.Retrieval.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("%s must be between -1 and 1, got %g", keyThreshold, settings.Retrieval.SimilarityThreshold))
	}
	if settings.Retrieval.HistoryWindow < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", keyHistoryWindow, settings.Retrieval.HistoryWindow))
	}

	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Subscribe registers a callback invoked with the full settings after
// every successful Save or SetKey. Callbacks run synchronously on the
// saving goroutine and should return quickly.
func (s *SettingsService) Subscribe(fn func(domain.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// ValidateEmbeddingConfig checks the embedding provider is reachable with
// the current settings.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig checks the LLM provider is reachable with the current
// settings.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

func (s *SettingsService) notify(settings domain.Settings) {
	s.mu.Lock()
	subscribers := make([]func(domain.Settings), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(settings)
	}
}

// parseValue converts a command-line string into the typed value a key
// stores, validating domain constraints where they exist.
func (s *SettingsService) parseValue(key, value string) (any, error) {
	switch key {
	case keyVaultPath, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
		keyLLMModel, keyLLMBaseURL, keyLLMAPIKey:
		return value, nil

	case keyVaultExcluded:
		var folders []string
		for _, folder := range strings.Split(value, ",") {
			if folder = strings.TrimSpace(folder); folder != "" {
				folders = append(folders, folder)
			}
		}
		return folders, nil

	case keyChunkSize, keyChunkOverlap, keyEmbedBatchSize, keyTopK, keyHistoryWindow:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer: %w", key, err)
		}
		return n, nil

	case keyThreshold:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%s expects a number: %w", key, err)
		}
		return f, nil

	case keyAutoIndex:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false: %w", key, err)
		}
		return b, nil

	case keyEmbedBatchDelay, keyFlushDelay:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("%s expects a duration like 500ms or 2s: %w", key, err)
		}
		return d.String(), nil

	case keyEmbedProvider:
		provider := domain.AIProvider(value)
		if !provider.IsValid() {
			return nil, fmt.Errorf("unknown embedding provider %q, valid: ollama, openai", value)
		}
		if provider == domain.AIProviderAnthropic {
			return nil, errors.New("anthropic does not support embeddings, use ollama or openai")
		}
		return value, nil

	case keyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return nil, fmt.Errorf("unknown llm provider %q, valid: ollama, openai, anthropic", value)
		}
		return value, nil

	default:
		return nil, fmt.Errorf("unknown settings key %q", key)
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero distinguishes "unset" from an explicit zero.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return ""
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return ""
	}
	return provider
}

// envAPIKey returns the environment fallback key for cloud providers.
func envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv(envOpenAIKey)
	case domain.AIProviderAnthropic:
		return os.Getenv(envAnthropicKey)
	default:
		return ""
	}
}

// maskKey hides an API key for display, keeping the last four characters
// when long enough to stay identifiable.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "********"
	}
	return "****" + key[len(key)-4:]
}
