package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

// mockIndexer is a mock implementation of driving.Indexer.
type mockIndexer struct {
	report domain.IndexReport
	stats  domain.IndexStats
	err    error
	runErr error

	indexAllCalls int
	clearCalls    int
	runCalls      int
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
	m.runCalls++
	if m.runErr != nil {
		return m.runErr
	}
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

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	rag    domain.RAGContext
	answer string
	err    error

	lastQuery     string
	lastHistory   []domain.Exchange
	lastTopK      int
	lastThreshold float64
}

func (m *mockRetriever) Retrieve(
	_ context.Context,
	query string,
	history []domain.Exchange,
	topK int,
	threshold float64,
) (domain.RAGContext, error) {
	m.lastQuery = query
	m.lastHistory = history
	m.lastTopK = topK
	m.lastThreshold = threshold
	return m.rag, m.err
}

func (m *mockRetriever) Ask(
	_ context.Context,
	query string,
	history []domain.Exchange,
) (string, domain.RAGContext, error) {
	m.lastQuery = query
	m.lastHistory = history
	return m.answer, m.rag, m.err
}

func (m *mockRetriever) UpdateSettings(_ domain.Settings) {}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.Settings
	keys        []string
	values      map[string]string
	err         error
	validateErr error

	lastSetKey   string
	lastSetValue string
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ domain.Settings) error {
	return m.err
}

func (m *mockSettingsService) SetKey(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.lastSetKey = key
	m.lastSetValue = value
	return nil
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
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (m *mockSettingsService) Subscribe(_ func(domain.Settings)) {}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.validateErr
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.validateErr
}

// testSettings returns a fully configured settings fixture.
func testSettings() domain.Settings {
	s := domain.DefaultSettings()
	s.Vault.Path = "/tmp/vault"
	s.Embedding.Provider = domain.AIProviderOllama
	s.Embedding.Model = "nomic-embed-text"
	s.Embedding.BaseURL = "http://localhost:11434"
	s.LLM.Provider = domain.AIProviderOllama
	s.LLM.Model = "llama3.2"
	s.LLM.BaseURL = "http://localhost:11434"
	return s
}

// setupTestServices installs working mock services and returns a cleanup
// that restores the previous ones.
func setupTestServices() func() {
	oldIndex := indexService
	oldRetrieval := retrievalService
	oldSettings := settingsService

	indexService = &mockIndexer{
		report: domain.IndexReport{Total: 3, Indexed: 2, Skipped: 1, Elapsed: 42 * time.Millisecond},
		stats:  domain.IndexStats{TotalDocuments: 12},
	}
	retrievalService = &mockRetriever{
		answer: "Mock answer.",
		rag: domain.RAGContext{
			Query: "test query",
			Chunks: []domain.RetrievedChunk{
				{
					ID:          "chunk-1",
					Content:     "Goroutines are lightweight threads managed by the Go runtime.",
					SourcePath:  "notes/go.md",
					ChunkIndex:  0,
					TotalChunks: 2,
					NoteTitle:   "go",
					Similarity:  0.92,
				},
			},
		},
	}
	settingsService = &mockSettingsService{
		settings: testSettings(),
		keys:     []string{"vault.path", "retrieval.top_k"},
		values: map[string]string{
			"vault.path":      "/tmp/vault",
			"retrieval.top_k": "5",
		},
	}

	return func() {
		indexService = oldIndex
		retrievalService = oldRetrieval
		settingsService = oldSettings
	}
}
