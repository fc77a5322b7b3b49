// Package vault reads notes from a directory tree on the local
// filesystem. It is the only place that touches note files: listing,
// reading and watching all go through here, and every path it hands out
// is vault-relative with forward slashes so the rest of the system never
// sees absolute paths.
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/notedex/internal/core/domain"
	"github.com/custodia-labs/notedex/internal/core/ports/driven"
)

// noteExtensions lists the file extensions treated as notes.
var noteExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// Vault is a filesystem-backed note source rooted at a single directory.
type Vault struct {
	root string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

var _ driven.NoteSource = (*Vault)(nil)

// New creates a vault rooted at the given directory. The path is resolved
// to an absolute one immediately so later comparisons are stable; the
// directory itself is only checked by Validate.
func New(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault path: %w", err)
	}
	return &Vault{root: filepath.Clean(abs)}, nil
}

// Validate checks that the vault root exists and is a directory.
func (v *Vault) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(v.root)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: vault path %s does not exist", domain.ErrVaultUnavailable, v.root)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVaultUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: vault path %s is not a directory", domain.ErrVaultUnavailable, v.root)
	}
	return nil
}

// List walks the vault and returns the relative paths of all note files,
// sorted. Hidden files and directories are skipped entirely; folder
// exclusion rules live in the indexing engine, not here.
func (v *Vault) List(ctx context.Context) ([]string, error) {
	if err := v.Validate(ctx); err != nil {
		return nil, err
	}

	var paths []string
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != v.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !isNoteFile(name) {
			return nil
		}

		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Read loads a single note by its vault-relative path.
func (v *Vault) Read(ctx context.Context, path string) (domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return domain.Note{}, err
	}

	abs, err := v.resolve(path)
	if err != nil {
		return domain.Note{}, err
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return domain.Note{}, fmt.Errorf("%w: note %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return domain.Note{}, fmt.Errorf("stat note %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.Note{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return domain.Note{}, fmt.Errorf("read note %s: %w", path, err)
	}

	content := string(data)
	return domain.Note{
		Path:    filepath.ToSlash(path),
		Title:   titleOf(path, content),
		Content: content,
		ModTime: info.ModTime(),
	}, nil
}

// Root returns the absolute vault root directory.
func (v *Vault) Root() string {
	return v.root
}

// Close stops the watcher if one is running. Safe to call more than once.
func (v *Vault) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil
	}
	v.closed = true

	if v.watcher != nil {
		return v.watcher.Close()
	}
	return nil
}

// isNoteFile reports whether the filename has a note extension.
func isNoteFile(name string) bool {
	return noteExtensions[strings.ToLower(filepath.Ext(name))]
}

// isHidden reports whether any segment of the path starts with a dot.
// "." and ".." are path syntax, not hidden names.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// titleOf extracts a display title: the first level-one markdown heading,
// or the filename without extension when the note has none.
func titleOf(path, content string) string {
	for _, line := range strings.Split(content, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "# ")
		if !ok {
			continue
		}
		if title := strings.TrimSpace(rest); title != "" {
			return title
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
