package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/notedex/internal/chunker"
	"github.com/custodia-labs/notedex/internal/core/domain"
	"github.com/custodia-labs/notedex/internal/core/ports/driven"
	"github.com/custodia-labs/notedex/internal/core/ports/driving"
	"github.com/custodia-labs/notedex/internal/logger"
)

// Ensure IndexingEngine implements the interface.
var _ driving.Indexer = (*IndexingEngine)(nil)

// closeFlushTimeout bounds the final dirty flush during shutdown.
const closeFlushTimeout = 30 * time.Second

// indexOutcome distinguishes a real (re-)index from a hash skip.
type indexOutcome int

const (
	outcomeIndexed indexOutcome = iota
	outcomeSkipped
)

// IndexingEngine keeps the vector store consistent with the vault. It is
// the incremental-indexing state machine: per note it decides between
// skip (unchanged hash), re-embed and swap, or removal. Modification
// events accumulate in a dirty set that is flushed after a quiet period,
// so a burst of saves costs one re-index.
type IndexingEngine struct {
	vault    driven.NoteSource
	store    driven.VectorStore
	hashes   driven.HashRegistry
	embedder *EmbeddingPipeline

	mu         sync.RWMutex
	chunkSize  int
	overlap    int
	excluded   []string
	flushDelay time.Duration
	autoIndex  bool

	dirtyMu sync.Mutex
	dirty   map[string]struct{}
}

// NewIndexingEngine creates an indexing engine. The store and hash
// registry must be initialized before any indexing call.
func NewIndexingEngine(
	vault driven.NoteSource,
	store driven.VectorStore,
	hashes driven.HashRegistry,
	embedder *EmbeddingPipeline,
	settings domain.Settings,
) *IndexingEngine {
	e := &IndexingEngine{
		vault:    vault,
		store:    store,
		hashes:   hashes,
		embedder: embedder,
		dirty:    make(map[string]struct{}),
	}
	e.UpdateSettings(settings)
	return e
}

// IndexNote chunks, embeds and stores one note. Excluded paths are
// rejected before any hashing or provider work.
func (e *IndexingEngine) IndexNote(ctx context.Context, note domain.Note) error {
	if e.isExcluded(note.Path) {
		return fmt.Errorf("%w: %s", domain.ErrPathExcluded, note.Path)
	}
	_, err := e.indexOne(ctx, note)
	return err
}

// indexOne runs the full per-note flow: hash check, chunk, embed, swap,
// record hash. The store is only touched after embedding succeeds, so a
// provider failure leaves the previous chunks searchable.
func (e *IndexingEngine) indexOne(ctx context.Context, note domain.Note) (indexOutcome, error) {
	hash := e.hashes.Hash(note.Content)
	if prev, ok := e.hashes.Get(note.Path); ok && prev == hash {
		logger.Debug("content unchanged, skipping", "path", note.Path)
		return outcomeSkipped, nil
	}

	e.mu.RLock()
	chunkSize := e.chunkSize
	overlap := e.overlap
	e.mu.RUnlock()

	chunks := chunker.Chunk(note.Content, note.Path, note.Title, chunkSize, overlap)
	if len(chunks) == 0 {
		// An emptied note still counts as indexed: its old chunks are
		// dropped and the hash is recorded so it is not revisited.
		if err := e.store.DeleteDocumentsByPath(ctx, note.Path); err != nil {
			return 0, fmt.Errorf("delete chunks for %s: %w", note.Path, err)
		}
		e.hashes.Set(note.Path, hash)
		logger.Debug("indexed empty note", "path", note.Path)
		return outcomeIndexed, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", note.Path, err)
	}

	modTime := note.ModTime
	if modTime.IsZero() {
		modTime = time.Now()
	}
	docs := make([]domain.IndexedDocument, len(chunks))
	for i, c := range chunks {
		docs[i] = domain.NewIndexedDocument(c, vectors[i], modTime)
	}

	// Swap: the old chunk set may be larger or smaller than the new one,
	// so replace by path rather than by id.
	if err := e.store.DeleteDocumentsByPath(ctx, note.Path); err != nil {
		return 0, fmt.Errorf("delete chunks for %s: %w", note.Path, err)
	}
	if err := e.store.AddDocuments(ctx, docs); err != nil {
		return 0, fmt.Errorf("store chunks for %s: %w", note.Path, err)
	}

	e.hashes.Set(note.Path, hash)
	logger.Debug("indexed note", "path", note.Path, "chunks", len(chunks))
	return outcomeIndexed, nil
}

// IndexAll indexes every eligible note sequentially. Per-note failures
// are counted and reported through onProgress but do not abort the run;
// only context cancellation does. Both snapshots are flushed at the end
// so a completed run is durable.
func (e *IndexingEngine) IndexAll(ctx context.Context, onProgress domain.ProgressFunc) (domain.IndexReport, error) {
	start := time.Now()
	report := domain.IndexReport{RunID: uuid.NewString()}

	paths, err := e.vault.List(ctx)
	if err != nil {
		report.Elapsed = time.Since(start)
		return report, fmt.Errorf("list notes: %w", err)
	}

	eligible := make([]string, 0, len(paths))
	for _, path := range paths {
		if e.isExcluded(path) {
			continue
		}
		eligible = append(eligible, path)
	}
	report.Total = len(eligible)

	logger.Info("starting full index", "run", report.RunID, "notes", report.Total)

	for i, path := range eligible {
		if err := ctx.Err(); err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}

		outcome := outcomeIndexed
		note, err := e.vault.Read(ctx, path)
		if err == nil {
			outcome, err = e.indexOne(ctx, note)
		}

		switch {
		case err != nil:
			report.Failed++
			logger.Warn("note failed to index", "path", path, "error", err)
		case outcome == outcomeSkipped:
			report.Skipped++
		default:
			report.Indexed++
		}

		if onProgress != nil {
			onProgress(domain.IndexProgress{Path: path, Current: i + 1, Total: report.Total, Err: err})
		}
	}

	if err := e.store.Flush(ctx); err != nil {
		report.Elapsed = time.Since(start)
		return report, fmt.Errorf("flush store: %w", err)
	}
	if err := e.hashes.Flush(ctx); err != nil {
		report.Elapsed = time.Since(start)
		return report, fmt.Errorf("flush hashes: %w", err)
	}

	report.Elapsed = time.Since(start)
	logger.Info("full index complete",
		"run", report.RunID,
		"indexed", report.Indexed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// MarkDirty records a path as modified. Excluded paths are ignored.
func (e *IndexingEngine) MarkDirty(path string) {
	if e.isExcluded(path) {
		return
	}
	e.dirtyMu.Lock()
	defer e.dirtyMu.Unlock()
	e.dirty[path] = struct{}{}
}

// FlushDirty drains the dirty set and re-indexes each drained path. The
// set is swapped before any work starts, so edits arriving mid-flush land
// in a fresh set for the next flush. A path deleted since it was marked
// is removed instead of indexed. On cancellation the unprocessed
// remainder is re-marked.
func (e *IndexingEngine) FlushDirty(ctx context.Context) error {
	e.dirtyMu.Lock()
	pending := e.dirty
	e.dirty = make(map[string]struct{})
	e.dirtyMu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	logger.Debug("flushing dirty notes", "count", len(paths))

	var errs []error
	for n, path := range paths {
		if err := ctx.Err(); err != nil {
			for _, rest := range paths[n:] {
				e.MarkDirty(rest)
			}
			errs = append(errs, err)
			break
		}

		note, err := e.vault.Read(ctx, path)
		if errors.Is(err, domain.ErrNotFound) {
			if err := e.RemoveNote(ctx, path); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}

		if _, err := e.indexOne(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// RemoveNote drops a note's chunks and its hash entry.
func (e *IndexingEngine) RemoveNote(ctx context.Context, path string) error {
	if err := e.store.DeleteDocumentsByPath(ctx, path); err != nil {
		return fmt.Errorf("delete chunks for %s: %w", path, err)
	}
	e.hashes.Delete(path)

	e.dirtyMu.Lock()
	delete(e.dirty, path)
	e.dirtyMu.Unlock()

	logger.Debug("removed note", "path", path)
	return nil
}

// RenameNote removes everything under the old path, then indexes the note
// at its new path. The new path has no hash entry, so the index is never
// skipped.
func (e *IndexingEngine) RenameNote(ctx context.Context, oldPath string, note domain.Note) error {
	if oldPath != note.Path {
		if err := e.RemoveNote(ctx, oldPath); err != nil {
			return err
		}
	}
	return e.IndexNote(ctx, note)
}

// Run consumes vault change events until ctx is cancelled. Creates and
// modifications mark the note dirty and arm the flush timer; each further
// event during the quiet period re-arms it, so rapid saves collapse into
// one flush. Deletes are applied immediately.
func (e *IndexingEngine) Run(ctx context.Context) error {
	changes, err := e.vault.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch vault: %w", err)
	}

	flush := time.NewTimer(time.Hour)
	if !flush.Stop() {
		<-flush.C
	}
	defer flush.Stop()

	logger.Info("watching vault", "root", e.vault.Root())

	for {
		select {
		case <-ctx.Done():
			// The run context is gone; flush what is pending on a fresh
			// bounded one.
			flushCtx, cancel := context.WithTimeout(context.Background(), closeFlushTimeout)
			err := e.FlushDirty(flushCtx)
			cancel()
			if err != nil {
				logger.Warn("final dirty flush failed", "error", err)
			}
			return ctx.Err()

		case change, ok := <-changes:
			if !ok {
				return nil
			}
			e.handleChange(ctx, change, flush)

		case <-flush.C:
			if err := e.FlushDirty(ctx); err != nil {
				logger.Warn("dirty flush failed", "error", err)
			}
		}
	}
}

func (e *IndexingEngine) handleChange(ctx context.Context, change domain.NoteChange, flush *time.Timer) {
	e.mu.RLock()
	auto := e.autoIndex
	delay := e.flushDelay
	e.mu.RUnlock()

	if !auto {
		logger.Debug("auto-index disabled, dropping event", "type", change.Type, "path", change.Path)
		return
	}

	// The filesystem watcher reports renames as delete+create, but other
	// producers may emit a single rename event. Exclusion applies to each
	// side separately: a note renamed into an excluded folder is removed.
	if change.Type == domain.ChangeRenamed {
		if change.OldPath != "" && !e.isExcluded(change.OldPath) {
			if err := e.RemoveNote(ctx, change.OldPath); err != nil {
				logger.Warn("failed to remove renamed note", "path", change.OldPath, "error", err)
			}
		}
		if !e.isExcluded(change.Path) {
			e.MarkDirty(change.Path)
			resetTimer(flush, delay)
		}
		return
	}

	if e.isExcluded(change.Path) {
		logger.Debug("excluded path, dropping event", "path", change.Path)
		return
	}

	switch change.Type {
	case domain.ChangeCreated, domain.ChangeModified:
		e.MarkDirty(change.Path)
		resetTimer(flush, delay)

	case domain.ChangeDeleted:
		if err := e.RemoveNote(ctx, change.Path); err != nil {
			logger.Warn("failed to remove deleted note", "path", change.Path, "error", err)
		}
	}
}

// resetTimer re-arms a timer, draining a fired-but-unread tick first.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// ClearIndex empties the vector store, the hash registry and the dirty
// set. The next IndexAll re-indexes everything from scratch.
func (e *IndexingEngine) ClearIndex(ctx context.Context) error {
	e.dirtyMu.Lock()
	e.dirty = make(map[string]struct{})
	e.dirtyMu.Unlock()

	if err := e.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	e.hashes.Clear()

	logger.Info("index cleared")
	return nil
}

// Stats reports the current index size.
func (e *IndexingEngine) Stats() domain.IndexStats {
	return domain.IndexStats{TotalDocuments: e.store.Count()}
}

// UpdateSettings applies new chunking, exclusion and flush settings.
// In-flight operations finish with the values they started with.
func (e *IndexingEngine) UpdateSettings(settings domain.Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.chunkSize = settings.Chunking.ChunkSize
	if e.chunkSize <= 0 {
		e.chunkSize = domain.DefaultChunkSize
	}
	e.overlap = settings.Chunking.Overlap
	if e.overlap < 0 {
		e.overlap = 0
	}
	e.flushDelay = settings.Indexing.FlushDelay
	if e.flushDelay <= 0 {
		e.flushDelay = domain.DefaultFlushDelay
	}
	e.autoIndex = settings.Indexing.AutoIndex

	e.excluded = e.excluded[:0]
	for _, folder := range settings.Vault.ExcludedFolders {
		folder = strings.Trim(strings.TrimSpace(folder), "/")
		if folder != "" {
			e.excluded = append(e.excluded, folder)
		}
	}
}

// Close flushes pending dirty notes with a bounded context.
func (e *IndexingEngine) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeFlushTimeout)
	defer cancel()
	return e.FlushDirty(ctx)
}

// isExcluded reports whether the path sits under any excluded folder.
func (e *IndexingEngine) isExcluded(path string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, folder := range e.excluded {
		if path == folder || strings.HasPrefix(path, folder+"/") {
			return true
		}
	}
	return false
}
