package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/notedex/internal/core/domain"
	"github.com/custodia-labs/notedex/internal/core/ports/driven"
	"github.com/custodia-labs/notedex/internal/logger"
)

// EmbeddingPipeline wraps a provider with batching policy: texts are
// embedded in fixed-size batches, concurrently within a batch, with a
// pause between batches so rate-limited providers are not hammered.
// Providers stay single-call; all pacing lives here.
type EmbeddingPipeline struct {
	provider driven.EmbeddingService

	mu         sync.RWMutex
	batchSize  int
	batchDelay time.Duration
}

// NewEmbeddingPipeline creates a pipeline around the given provider.
// A zero batch size falls back to the default; a zero delay disables
// inter-batch pacing.
func NewEmbeddingPipeline(provider driven.EmbeddingService, settings domain.Settings) *EmbeddingPipeline {
	p := &EmbeddingPipeline{provider: provider}
	p.applySettings(settings)
	return p
}

// Embed generates an embedding for a single text. Provider errors are
// propagated as-is; retry policy belongs to the caller.
func (p *EmbeddingPipeline) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.provider.Embed(ctx, text)
}

// EmbedBatch embeds texts in fixed-size batches. Within a batch all calls
// run concurrently and all must succeed; one failure fails the whole call
// and none of the returned vectors may be used. Results are positional:
// result[i] embeds texts[i].
func (p *EmbeddingPipeline) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	p.mu.RLock()
	batchSize := p.batchSize
	batchDelay := p.batchDelay
	p.mu.RUnlock()

	results := make([][]float32, len(texts))

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				vec, err := p.provider.Embed(gctx, texts[i])
				if err != nil {
					return fmt.Errorf("embed text %d of %d: %w", i+1, len(texts), err)
				}
				results[i] = vec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		logger.Debug("embedded batch", "from", start, "to", end, "total", len(texts))

		if end < len(texts) && batchDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(batchDelay):
			}
		}
	}

	return results, nil
}

// Dimensions returns the provider's embedding vector size.
func (p *EmbeddingPipeline) Dimensions() int {
	return p.provider.Dimensions()
}

// ModelName returns the provider's model name.
func (p *EmbeddingPipeline) ModelName() string {
	return p.provider.ModelName()
}

// UpdateSettings applies new batch settings without reconstruction.
// In-flight EmbedBatch calls finish with the values they started with.
func (p *EmbeddingPipeline) UpdateSettings(settings domain.Settings) {
	p.applySettings(settings)
}

func (p *EmbeddingPipeline) applySettings(settings domain.Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.batchSize = settings.Embedding.BatchSize
	if p.batchSize <= 0 {
		p.batchSize = domain.DefaultBatchSize
	}
	p.batchDelay = settings.Embedding.BatchDelay
	if p.batchDelay < 0 {
		p.batchDelay = domain.DefaultBatchDelay
	}
}
