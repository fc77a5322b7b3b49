package domain

import "time"

// Note represents a raw note read from the vault, before chunking.
type Note struct {
	// Path is the vault-relative file path, the note's identity.
	Path string

	// Title is the display name: the first markdown heading when present,
	// otherwise the filename without extension.
	Title string

	// Content is the full note text.
	Content string

	// ModTime is the note's last-modified time.
	ModTime time.Time
}

// ChangeType identifies the kind of vault change event.
type ChangeType string

// Vault change event types.
const (
	// ChangeCreated indicates a new note appeared.
	ChangeCreated ChangeType = "created"

	// ChangeModified indicates an existing note's content changed.
	ChangeModified ChangeType = "modified"

	// ChangeDeleted indicates a note was removed.
	ChangeDeleted ChangeType = "deleted"

	// ChangeRenamed indicates a note moved from OldPath to Path.
	ChangeRenamed ChangeType = "renamed"
)

// String returns the string representation.
func (t ChangeType) String() string {
	return string(t)
}

// NoteChange is a typed vault change event. The vault watcher produces
// these on a single ingress channel; the indexing engine consumes them,
// decoupling event arrival from processing order.
type NoteChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Path is the affected note's vault-relative path. For renames this
	// is the new path.
	Path string

	// OldPath is the previous path, set only for renames.
	OldPath string

	// ModTime is the note's modification time at event time, when known.
	ModTime time.Time
}
