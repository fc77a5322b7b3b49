package mcp

import (
	"context"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	rag    domain.RAGContext
	answer string
	err    error

	lastQuery     string
	lastTopK      int
	lastThreshold float64
}

func (m *mockRetriever) Retrieve(
	_ context.Context,
	query string,
	_ []domain.Exchange,
	topK int,
	threshold float64,
) (domain.RAGContext, error) {
	m.lastQuery = query
	m.lastTopK = topK
	m.lastThreshold = threshold
	return m.rag, m.err
}

func (m *mockRetriever) Ask(
	_ context.Context,
	query string,
	_ []domain.Exchange,
) (string, domain.RAGContext, error) {
	m.lastQuery = query
	return m.answer, m.rag, m.err
}

func (m *mockRetriever) UpdateSettings(_ domain.Settings) {}

// mockIndexer is a mock implementation of driving.Indexer.
type mockIndexer struct {
	report domain.IndexReport
	stats  domain.IndexStats
	err    error

	indexAllCalls int
	clearCalls    int
}

func (m *mockIndexer) IndexNote(_ context.Context, _ domain.Note) error {
	return m.err
}

func (m *mockIndexer) IndexAll(_ context.Context, _ domain.ProgressFunc) (domain.IndexReport, error) {
	m.indexAllCalls++
	return m.report, m.err
}

func (m *mockIndexer) MarkDirty(_ string) {}

func (m *mockIndexer) FlushDirty(_ context.Context) error {
	return m.err
}

func (m *mockIndexer) RemoveNote(_ context.Context, _ string) error {
	return m.err
}

func (m *mockIndexer) RenameNote(_ context.Context, _ string, _ domain.Note) error {
	return m.err
}

func (m *mockIndexer) Run(_ context.Context) error {
	return m.err
}

func (m *mockIndexer) ClearIndex(_ context.Context) error {
	m.clearCalls++
	return m.err
}

func (m *mockIndexer) Stats() domain.IndexStats {
	return m.stats
}

func (m *mockIndexer) UpdateSettings(_ domain.Settings) {}

func (m *mockIndexer) Close() error {
	return m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
	keys     []string
	values   map[string]string
	err      error
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ domain.Settings) error {
	return m.err
}

func (m *mockSettingsService) SetKey(_, _ string) error {
	return m.err
}

func (m *mockSettingsService) GetKey(key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[key], nil
}

func (m *mockSettingsService) Keys() []string {
	return m.keys
}

func (m *mockSettingsService) Validate() error {
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (m *mockSettingsService) Subscribe(_ func(domain.Settings)) {}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.err
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.err
}
