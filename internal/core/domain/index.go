package domain

import "time"

// IndexStats summarises the current state of the vector index.
type IndexStats struct {
	// TotalDocuments is the number of indexed chunks.
	TotalDocuments int
}

// IndexProgress reports per-file progress during a full vault index.
type IndexProgress struct {
	// Path is the note just processed.
	Path string

	// Current is the 1-based count of notes processed so far.
	Current int

	// Total is the number of eligible notes in this run.
	Total int

	// Err is non-nil when the note failed to index. Failures do not
	// abort the run.
	Err error
}

// ProgressFunc receives IndexProgress after each note of a full index.
type ProgressFunc func(IndexProgress)

// IndexReport summarises a completed full-vault index run.
type IndexReport struct {
	// RunID uniquely identifies the run in logs.
	RunID string

	// Total is the number of eligible notes considered.
	Total int

	// Indexed is the number of notes chunked and embedded.
	Indexed int

	// Skipped is the number of notes whose content hash was unchanged.
	Skipped int

	// Failed is the number of notes that errored. The run continues
	// past individual failures.
	Failed int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}
