package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/notedex/internal/core/domain"
	"github.com/custodia-labs/notedex/internal/core/ports/driven"
	"github.com/custodia-labs/notedex/internal/core/ports/driving"
	"github.com/custodia-labs/notedex/internal/logger"
)

// Ensure RetrievalPipeline implements the interfaces.
var (
	_ driving.Retriever       = (*RetrievalPipeline)(nil)
	_ driven.PromptStoreAware = (*RetrievalPipeline)(nil)
)

// queryCacheSize bounds the query-embedding cache. Repeated searches for
// the same rewritten query skip the provider round trip.
const queryCacheSize = 128

// rewriteMaxTokens caps the rewrite completion; a standalone search query
// is short by construction.
const rewriteMaxTokens = 100

// rewriteTemperature is near zero so rewrites stay deterministic. Exactly
// zero would be dropped on the wire and fall back to the provider default.
const rewriteTemperature = 0.1

// defaultRewritePrompt is the fallback prompt when no PromptStore is configured.
const defaultRewritePrompt = `Rewrite the user's latest message as a standalone search query.
Resolve pronouns and references using the conversation. Reply with the rewritten query only.

Conversation:
%s
Latest message: %s

Standalone query:`

// defaultAnswerSystemPrompt is the fallback prompt when no PromptStore is configured.
const defaultAnswerSystemPrompt = `You are a notes assistant. Answer the user's question using only the notes context below.
Cite the note titles you drew from. If the context does not contain the answer, say so plainly.

Notes context:
%s`

// RetrievalPipeline turns a user query into model-ready context: an
// optional LLM rewrite against recent history, a query embedding, a
// vector search, and a formatted context block grouped by note.
type RetrievalPipeline struct {
	store       driven.VectorStore
	embedder    *EmbeddingPipeline
	llm         driven.LLMService
	promptStore driven.PromptStore

	mu            sync.RWMutex
	topK          int
	threshold     float64
	historyWindow int

	queryCache *lru.Cache[string, []float32]
}

// NewRetrievalPipeline creates a retrieval pipeline. llm may be nil, in
// which case queries run verbatim and Ask is unavailable.
func NewRetrievalPipeline(
	store driven.VectorStore,
	embedder *EmbeddingPipeline,
	llm driven.LLMService,
	settings domain.Settings,
) *RetrievalPipeline {
	// The error path only exists for a non-positive size.
	cache, _ := lru.New[string, []float32](queryCacheSize)

	p := &RetrievalPipeline{
		store:      store,
		embedder:   embedder,
		llm:        llm,
		queryCache: cache,
	}
	p.applySettings(settings)
	return p
}

// Retrieve embeds the query and returns matching chunks with formatted
// context. When history is given and an LLM is configured, the query is
// first rewritten into a standalone one; rewrite failures fall back to
// the verbatim query rather than failing the search.
func (p *RetrievalPipeline) Retrieve(
	ctx context.Context,
	query string,
	history []domain.Exchange,
	topK int,
	threshold float64,
) (domain.RAGContext, error) {
	if strings.TrimSpace(query) == "" {
		return domain.RAGContext{}, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	p.mu.RLock()
	if topK <= 0 {
		topK = p.topK
	}
	if threshold == 0 {
		threshold = p.threshold
	}
	p.mu.RUnlock()

	searchQuery := p.rewriteQuery(ctx, query, history)

	vector, err := p.embedQuery(ctx, searchQuery)
	if err != nil {
		return domain.RAGContext{}, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := p.store.Search(ctx, vector, topK, threshold)
	if err != nil {
		return domain.RAGContext{}, fmt.Errorf("search: %w", err)
	}

	logger.Debug("retrieved context", "query", searchQuery, "hits", len(chunks))

	return domain.RAGContext{
		Query:            searchQuery,
		Chunks:           chunks,
		FormattedContext: formatContext(chunks),
	}, nil
}

// Ask retrieves context for the query and answers it with the LLM. The
// search uses the rewritten query; the answer prompt keeps the user's
// original wording.
func (p *RetrievalPipeline) Ask(ctx context.Context, query string, history []domain.Exchange) (string, domain.RAGContext, error) {
	if p.llm == nil {
		return "", domain.RAGContext{}, fmt.Errorf("%w: configure an LLM provider to ask questions", domain.ErrLLMUnavailable)
	}

	ragCtx, err := p.Retrieve(ctx, query, history, 0, 0)
	if err != nil {
		return "", domain.RAGContext{}, err
	}

	contextBlock := ragCtx.FormattedContext
	if contextBlock == "" {
		contextBlock = "(no matching notes)"
	}

	systemTemplate := p.loadPrompt(driven.PromptAnswerSystem, defaultAnswerSystemPrompt)

	messages := make([]driven.ChatMessage, 0, 2*len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    "system",
		Content: fmt.Sprintf(systemTemplate, contextBlock),
	})
	for _, turn := range history {
		if turn.User != "" {
			messages = append(messages, driven.ChatMessage{Role: "user", Content: turn.User})
		}
		if turn.Assistant != "" {
			messages = append(messages, driven.ChatMessage{Role: "assistant", Content: turn.Assistant})
		}
	}
	messages = append(messages, driven.ChatMessage{Role: "user", Content: query})

	answer, err := p.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: 0.3})
	if err != nil {
		return "", ragCtx, fmt.Errorf("generate answer: %w", err)
	}

	return strings.TrimSpace(answer), ragCtx, nil
}

// UpdateSettings applies new retrieval settings without reconstruction.
func (p *RetrievalPipeline) UpdateSettings(settings domain.Settings) {
	p.applySettings(settings)
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the pipeline uses hardcoded default prompts.
func (p *RetrievalPipeline) SetPromptStore(store driven.PromptStore) {
	p.promptStore = store
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (p *RetrievalPipeline) loadPrompt(name, fallback string) string {
	if p.promptStore == nil {
		return fallback
	}
	prompt, err := p.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

func (p *RetrievalPipeline) applySettings(settings domain.Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.topK = settings.Retrieval.TopK
	if p.topK <= 0 {
		p.topK = domain.DefaultTopK
	}
	p.threshold = settings.Retrieval.SimilarityThreshold
	if p.threshold == 0 {
		p.threshold = domain.DefaultSimilarityThreshold
	}
	p.historyWindow = settings.Retrieval.HistoryWindow
	if p.historyWindow <= 0 {
		p.historyWindow = domain.DefaultHistoryWindow
	}
}

// rewriteQuery turns a conversational follow-up into a standalone query
// using the last few exchanges. Without an LLM or history the query is
// returned verbatim, as it is on any rewrite failure.
func (p *RetrievalPipeline) rewriteQuery(ctx context.Context, query string, history []domain.Exchange) string {
	if p.llm == nil || len(history) == 0 {
		return query
	}

	p.mu.RLock()
	window := p.historyWindow
	p.mu.RUnlock()

	if len(history) > window {
		history = history[len(history)-window:]
	}

	var transcript strings.Builder
	for _, turn := range history {
		if turn.User != "" {
			transcript.WriteString("User: " + turn.User + "\n")
		}
		if turn.Assistant != "" {
			transcript.WriteString("Assistant: " + turn.Assistant + "\n")
		}
	}

	promptTemplate := p.loadPrompt(driven.PromptQueryRewrite, defaultRewritePrompt)
	prompt := fmt.Sprintf(promptTemplate, transcript.String(), query)
	out, err := p.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   rewriteMaxTokens,
		Temperature: rewriteTemperature,
	})
	if err != nil {
		logger.Debug("query rewrite failed, using verbatim query", "error", err)
		return query
	}

	rewritten := strings.TrimSpace(out)
	rewritten = strings.Trim(rewritten, `"`)
	if rewritten == "" {
		return query
	}

	logger.Debug("rewrote query", "from", query, "to", rewritten)
	return rewritten
}

// embedQuery embeds a query, going through a small LRU keyed by model and
// query text so repeated searches skip the provider.
func (p *RetrievalPipeline) embedQuery(ctx context.Context, query string) ([]float32, error) {
	key := p.embedder.ModelName() + "|" + query
	if vec, ok := p.queryCache.Get(key); ok {
		return vec, nil
	}

	vec, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	p.queryCache.Add(key, vec)
	return vec, nil
}

// formatContext renders hits as a model-ready block: chunks grouped by
// note in first-hit order, each group restored to reading order by chunk
// index under a title heading, groups separated by a rule. Empty input
// yields an empty string.
func formatContext(chunks []domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	var order []string
	groups := make(map[string][]domain.RetrievedChunk)
	for _, chunk := range chunks {
		if _, seen := groups[chunk.SourcePath]; !seen {
			order = append(order, chunk.SourcePath)
		}
		groups[chunk.SourcePath] = append(groups[chunk.SourcePath], chunk)
	}

	var b strings.Builder
	for i, path := range order {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}

		group := groups[path]
		sort.Slice(group, func(a, b int) bool { return group[a].ChunkIndex < group[b].ChunkIndex })

		title := group[0].NoteTitle
		if title == "" {
			title = path
		}
		b.WriteString("## " + title)
		for _, chunk := range group {
			b.WriteString("\n\n")
			b.WriteString(chunk.Content)
		}
	}

	return b.String()
}
