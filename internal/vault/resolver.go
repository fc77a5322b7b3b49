package vault

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

// resolve maps a vault-relative path to an absolute one, rejecting
// anything that would escape the vault root.
func (v *Vault) resolve(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%w: empty note path", domain.ErrInvalidInput)
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: note path must be vault-relative: %s", domain.ErrInvalidInput, rel)
	}

	abs := filepath.Join(v.root, filepath.FromSlash(rel))
	if abs != v.root && !strings.HasPrefix(abs, v.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: note path escapes vault: %s", domain.ErrInvalidInput, rel)
	}
	return abs, nil
}

// relativize converts an absolute path reported by the watcher back to
// the vault-relative slash form used everywhere else. It returns false
// for paths outside the root.
func (v *Vault) relativize(abs string) (string, bool) {
	rel, err := filepath.Rel(v.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
