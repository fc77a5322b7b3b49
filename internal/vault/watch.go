package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/notedex/internal/core/domain"
	"github.com/custodia-labs/notedex/internal/logger"
)

// Watch emits note change events until ctx is cancelled or the vault is
// closed. The whole directory tree is watched; directories created while
// watching join the watch set on the fly. The returned channel is closed
// on shutdown.
func (v *Vault) Watch(ctx context.Context) (<-chan domain.NoteChange, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, domain.ErrVaultClosed
	}
	v.mu.Unlock()

	if err := v.Validate(ctx); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create vault watcher: %w", err)
	}
	if err := v.watchTree(watcher); err != nil {
		watcher.Close()
		return nil, err
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		watcher.Close()
		return nil, domain.ErrVaultClosed
	}
	v.watcher = watcher
	v.mu.Unlock()

	changes := make(chan domain.NoteChange)
	go v.watchLoop(ctx, watcher, changes)
	return changes, nil
}

// watchTree registers every non-hidden directory under the root.
// fsnotify watches are not recursive, so each directory is added
// individually.
func (v *Vault) watchTree(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != v.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (v *Vault) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- domain.NoteChange) {
	defer close(changes)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			change := v.handleEvent(watcher, event)
			if change == nil {
				continue
			}
			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("vault watcher error", "error", err)
		}
	}
}

// handleEvent maps a filesystem event to a note change, or nil for events
// the indexer should never see: directories, hidden paths, non-note files
// and permission-only changes. A rename surfaces as a delete of the old
// path; the new path arrives as a separate create event.
func (v *Vault) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) *domain.NoteChange {
	rel, ok := v.relativize(event.Name)
	if !ok || rel == "." {
		return nil
	}
	if isHidden(rel) {
		return nil
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			return nil
		}
		if info.IsDir() {
			// New directories join the watch set so notes created
			// inside them are seen.
			if err := watcher.Add(event.Name); err != nil {
				logger.Warn("failed to watch new directory", "path", rel, "error", err)
			}
			return nil
		}
		if !isNoteFile(rel) {
			return nil
		}
		return &domain.NoteChange{Type: domain.ChangeCreated, Path: rel, ModTime: info.ModTime()}

	case event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		if !isNoteFile(rel) {
			return nil
		}
		return &domain.NoteChange{Type: domain.ChangeModified, Path: rel, ModTime: info.ModTime()}

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		// The path is gone, so only the extension tells us whether it
		// was a note.
		if !isNoteFile(rel) {
			return nil
		}
		return &domain.NoteChange{Type: domain.ChangeDeleted, Path: rel}
	}

	return nil
}
