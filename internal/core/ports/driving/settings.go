package driving

import "github.com/custodia-labs/notedex/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (domain.Settings, error)

	// Save persists application settings.
	Save(settings domain.Settings) error

	// SetKey updates a single dot-notation settings key and persists it.
	SetKey(key, value string) error

	// GetKey reads a single dot-notation settings key as a display string.
	GetKey(key string) (string, error)

	// Keys lists the known dot-notation settings keys.
	Keys() []string

	// Validate checks that current settings are internally consistent.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Subscribe registers a callback invoked with the full settings
	// after every successful Save or SetKey. This is the hot-reload
	// path for running components.
	Subscribe(fn func(domain.Settings))

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
