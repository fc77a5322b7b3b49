// Package snapshot implements the vector store: an in-memory chunk index
// with whole-file JSON snapshot persistence.
//
// All indexed chunks live in a primary map keyed by chunk id, with a
// secondary index from source path to chunk ids. Both structures are owned
// exclusively by the Store; the path index and norms are derived caches
// rebuilt from the snapshot on load, never persisted.
//
// Mutations schedule a debounced snapshot write, so bursts of indexing
// collapse into one disk write once activity pauses. Flush forces a
// synchronous write for deterministic shutdown and tests.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/romdo/go-debounce"

	"github.com/custodia-labs/notedex/internal/core/domain"
	"github.com/custodia-labs/notedex/internal/core/ports/driven"
	"github.com/custodia-labs/notedex/internal/fsx"
	"github.com/custodia-labs/notedex/internal/logger"
	"github.com/custodia-labs/notedex/internal/topk"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// SnapshotFile is the snapshot filename within the data directory.
const SnapshotFile = "vector-store.json"

// DefaultPersistWait is the debounce window for snapshot writes. Every
// mutation resets it, so writes happen once activity pauses.
const DefaultPersistWait = 1 * time.Second

// Store is the snapshot-backed implementation of driven.VectorStore.
type Store struct {
	mu        sync.RWMutex
	docs      map[string]domain.IndexedDocument
	pathIndex map[string]map[string]struct{}
	dims      int
	closed    bool

	filePath    string
	persistWait time.Duration

	persistMu sync.Mutex // serialises snapshot writes
	schedule  func()
	cancel    func()
}

// Option configures the store.
type Option func(*Store)

// WithPersistWait overrides the snapshot debounce window.
func WithPersistWait(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.persistWait = d
		}
	}
}

// New creates a store persisting to dataDir. Call Initialize before use.
func New(dataDir string, opts ...Option) *Store {
	s := &Store{
		docs:        make(map[string]domain.IndexedDocument),
		pathIndex:   make(map[string]map[string]struct{}),
		filePath:    filepath.Join(dataDir, SnapshotFile),
		persistWait: DefaultPersistWait,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.schedule, s.cancel = debounce.New(s.persistWait, func() {
		if err := s.persist(); err != nil {
			logger.Error("vector snapshot write failed", "path", s.filePath, "error", err)
		}
	})
	return s
}

// Initialize loads the snapshot file if present and rebuilds the derived
// caches. A missing file yields an empty store; an unreadable or corrupt
// file is a fatal error, never a silent empty start.
func (s *Store) Initialize(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read snapshot: %w", err)
	}

	docs, err := decodeSnapshot(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		if s.dims != 0 && len(doc.Embedding) != s.dims {
			return fmt.Errorf("%w: snapshot mixes %d and %d dimensional vectors",
				domain.ErrDimensionMismatch, s.dims, len(doc.Embedding))
		}
		s.insertLocked(doc)
	}
	return nil
}

// AddDocuments inserts or overwrites each document by id and updates the
// path index. Schedules a debounced persist. No-op on empty input.
func (s *Store) AddDocuments(_ context.Context, docs []domain.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	if err := s.checkDimsLocked(docs); err != nil {
		s.mu.Unlock()
		return err
	}
	for _, doc := range docs {
		s.insertLocked(doc)
	}
	s.mu.Unlock()

	s.schedule()
	return nil
}

// UpdateDocuments is delete-then-insert by id, keeping the path index
// consistent even when a document's source path changed for an existing id.
func (s *Store) UpdateDocuments(_ context.Context, docs []domain.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	if err := s.checkDimsLocked(docs); err != nil {
		s.mu.Unlock()
		return err
	}
	for _, doc := range docs {
		s.removeLocked(doc.ID)
	}
	for _, doc := range docs {
		s.insertLocked(doc)
	}
	s.mu.Unlock()

	s.schedule()
	return nil
}

// DeleteDocumentsByPath removes every chunk owned by path via the path
// index, O(k) in the path's chunk count. No-op for unknown paths; a
// persist is scheduled only when something was removed.
func (s *Store) DeleteDocumentsByPath(_ context.Context, path string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	bucket, ok := s.pathIndex[path]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	for id := range bucket {
		delete(s.docs, id)
	}
	delete(s.pathIndex, path)
	s.mu.Unlock()

	s.schedule()
	return nil
}

// DocumentIDsByPath returns the chunk ids for a path ordered by chunk
// index, or empty if the path is unknown.
func (s *Store) DocumentIDsByPath(path string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.pathIndex[path]
	if len(bucket) == 0 {
		return nil
	}
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.docs[ids[i]].ChunkIndex < s.docs[ids[j]].ChunkIndex
	})
	return ids
}

// Search returns up to topK documents with cosine similarity >= threshold,
// sorted descending by similarity. The scan is linear but the selection is
// a bounded min-heap, so no sorted copy of the corpus is ever built.
func (s *Store) Search(_ context.Context, query []float32, topK int, threshold float64) ([]domain.RetrievedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	if topK <= 0 || len(s.docs) == 0 {
		return nil, nil
	}
	if s.dims != 0 && len(query) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			domain.ErrDimensionMismatch, len(query), s.dims)
	}

	qNorm := vectorNorm(query)
	if qNorm == 0 {
		return nil, nil
	}

	sel := topk.New[domain.IndexedDocument](topK)
	for _, doc := range s.docs {
		sim := cosineSimilarity(query, doc.Embedding, qNorm, doc.Norm)
		if sim >= threshold {
			sel.Offer(sim, doc)
		}
	}

	results := sel.Results()
	hits := make([]domain.RetrievedChunk, 0, len(results))
	for _, r := range results {
		hits = append(hits, domain.RetrievedChunk{
			ID:          r.Value.ID,
			Content:     r.Value.Content,
			SourcePath:  r.Value.SourcePath,
			ChunkIndex:  r.Value.ChunkIndex,
			TotalChunks: r.Value.TotalChunks,
			NoteTitle:   r.Value.NoteTitle,
			Similarity:  r.Score,
		})
	}
	return hits, nil
}

// ClearAll empties the store, unpins the dimensionality and schedules a
// persist. Used for clear-and-rebuild recovery.
func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	s.docs = make(map[string]domain.IndexedDocument)
	s.pathIndex = make(map[string]map[string]struct{})
	s.dims = 0
	s.mu.Unlock()

	s.schedule()
	return nil
}

// Count returns the number of indexed chunks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Flush cancels any pending debounced write and persists synchronously.
func (s *Store) Flush(_ context.Context) error {
	s.cancel()
	return s.persist()
}

// Close flushes and marks the store closed. Further mutations fail with
// ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	return s.persist()
}

// insertLocked adds doc to both maps, recomputing its norm and copying the
// embedding so no caller retains a mutable reference into the index.
func (s *Store) insertLocked(doc domain.IndexedDocument) {
	if old, ok := s.docs[doc.ID]; ok && old.SourcePath != doc.SourcePath {
		s.removeFromPathIndexLocked(old.SourcePath, doc.ID)
	}

	emb := make([]float32, len(doc.Embedding))
	copy(emb, doc.Embedding)
	doc.Embedding = emb
	doc.Norm = vectorNorm(emb)

	s.docs[doc.ID] = doc

	bucket, ok := s.pathIndex[doc.SourcePath]
	if !ok {
		bucket = make(map[string]struct{})
		s.pathIndex[doc.SourcePath] = bucket
	}
	bucket[doc.ID] = struct{}{}

	if s.dims == 0 {
		s.dims = len(emb)
	}
}

// removeLocked drops a document from both maps. Removing the last chunk
// of a path removes the path's bucket.
func (s *Store) removeLocked(id string) {
	doc, ok := s.docs[id]
	if !ok {
		return
	}
	delete(s.docs, id)
	s.removeFromPathIndexLocked(doc.SourcePath, id)
}

func (s *Store) removeFromPathIndexLocked(path, id string) {
	bucket, ok := s.pathIndex[path]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(s.pathIndex, path)
	}
}

// checkDimsLocked validates every document before any mutation so a bad
// batch never half-applies.
func (s *Store) checkDimsLocked(docs []domain.IndexedDocument) error {
	dims := s.dims
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			return fmt.Errorf("%w: document %s has no embedding", domain.ErrInvalidInput, doc.ID)
		}
		if dims == 0 {
			dims = len(doc.Embedding)
			continue
		}
		if len(doc.Embedding) != dims {
			return fmt.Errorf("%w: document %s has %d dimensions, store has %d",
				domain.ErrDimensionMismatch, doc.ID, len(doc.Embedding), dims)
		}
	}
	return nil
}

// persist writes the current state as one compact snapshot file.
func (s *Store) persist() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	data, err := encodeSnapshot(s.docs)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := fsx.WriteAtomic(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
