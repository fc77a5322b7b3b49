// Package hashes persists the path to content-hash registry that backs
// change detection. The registry is a flat JSON object on disk, loaded
// whole at startup and rewritten whole on a debounced schedule, mirroring
// the vector snapshot's persistence model with a longer window since hash
// churn is cheap to lose.
package hashes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/romdo/go-debounce"

	"github.com/custodia-labs/notedex/internal/core/domain"
	"github.com/custodia-labs/notedex/internal/core/ports/driven"
	"github.com/custodia-labs/notedex/internal/fsx"
	"github.com/custodia-labs/notedex/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.HashRegistry = (*Registry)(nil)

// RegistryFile is the registry filename within the data directory.
const RegistryFile = "note-hashes.json"

// DefaultPersistWait is the debounce window for registry writes.
const DefaultPersistWait = 2 * time.Second

// Registry is the file-backed implementation of driven.HashRegistry,
// hashing content with 64-bit xxHash.
type Registry struct {
	mu     sync.RWMutex
	hashes map[string]string
	closed bool

	filePath    string
	persistWait time.Duration

	persistMu sync.Mutex // serialises registry writes
	schedule  func()
	cancel    func()
}

// Option configures the registry.
type Option func(*Registry)

// WithPersistWait overrides the registry debounce window.
func WithPersistWait(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.persistWait = d
		}
	}
}

// New creates a registry persisting to dataDir. Call Initialize before use.
func New(dataDir string, opts ...Option) *Registry {
	r := &Registry{
		hashes:      make(map[string]string),
		filePath:    filepath.Join(dataDir, RegistryFile),
		persistWait: DefaultPersistWait,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.schedule, r.cancel = debounce.New(r.persistWait, func() {
		if err := r.persist(); err != nil {
			logger.Error("hash registry write failed", "path", r.filePath, "error", err)
		}
	})
	return r
}

// Initialize loads the registry file if present. A missing file yields an
// empty registry; a corrupt file is a fatal error.
func (r *Registry) Initialize(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(r.filePath), 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read hash registry: %w", err)
	}

	loaded := make(map[string]string)
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("%w: hash registry: %v", domain.ErrCorruptSnapshot, err)
	}

	r.mu.Lock()
	r.hashes = loaded
	r.mu.Unlock()
	return nil
}

// Hash fingerprints content with 64-bit xxHash, rendered as 16 hex digits.
func (r *Registry) Hash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// Get returns the recorded hash for a path.
func (r *Registry) Get(path string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hash, ok := r.hashes[path]
	return hash, ok
}

// Set records a path's hash and schedules a persist when it changed.
func (r *Registry) Set(path, hash string) {
	r.mu.Lock()
	if r.closed || r.hashes[path] == hash {
		r.mu.Unlock()
		return
	}
	r.hashes[path] = hash
	r.mu.Unlock()

	r.schedule()
}

// Delete removes a path's entry and schedules a persist if it existed.
func (r *Registry) Delete(path string) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	_, ok := r.hashes[path]
	if ok {
		delete(r.hashes, path)
	}
	r.mu.Unlock()

	if ok {
		r.schedule()
	}
}

// Clear drops every entry so a rebuild re-indexes everything.
func (r *Registry) Clear() {
	r.mu.Lock()
	if r.closed || len(r.hashes) == 0 {
		r.mu.Unlock()
		return
	}
	r.hashes = make(map[string]string)
	r.mu.Unlock()

	r.schedule()
}

// Len returns the number of recorded paths.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hashes)
}

// Flush cancels any pending debounced write and persists synchronously.
func (r *Registry) Flush(_ context.Context) error {
	r.cancel()
	return r.persist()
}

// Close flushes and marks the registry closed.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	return r.persist()
}

func (r *Registry) persist() error {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	r.mu.RLock()
	data, err := json.Marshal(r.hashes)
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode hash registry: %w", err)
	}

	if err := fsx.WriteAtomic(r.filePath, data, 0600); err != nil {
		return fmt.Errorf("write hash registry: %w", err)
	}
	return nil
}
