package driving

import (
	"context"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

// Retriever turns a user query into model-ready context.
type Retriever interface {
	// Retrieve embeds the query (rewritten against history when any is
	// given), searches the store, and formats the hits grouped by note.
	// topK and threshold fall back to configured defaults when zero.
	Retrieve(ctx context.Context, query string, history []domain.Exchange, topK int, threshold float64) (domain.RAGContext, error)

	// Ask retrieves context for the query and answers it with the LLM,
	// grounded in that context. Returns the answer and the context used.
	Ask(ctx context.Context, query string, history []domain.Exchange) (string, domain.RAGContext, error)

	// UpdateSettings applies new settings without reconstruction.
	UpdateSettings(settings domain.Settings)
}
