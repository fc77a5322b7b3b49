package domain

// RetrievedChunk is a single similarity hit returned by retrieval.
type RetrievedChunk struct {
	// ID is the matched chunk's store key.
	ID string

	// Content is the chunk text.
	Content string

	// SourcePath is the owning note's vault-relative path.
	SourcePath string

	// ChunkIndex is the chunk's position within its note.
	ChunkIndex int

	// TotalChunks is the note's chunk count at index time.
	TotalChunks int

	// NoteTitle is the owning note's display name.
	NoteTitle string

	// Similarity is the cosine similarity to the query, in [-1, 1].
	Similarity float64
}

// RAGContext is the output of the retrieval pipeline: the query that was
// actually embedded, the raw hits, and the model-ready context block.
type RAGContext struct {
	// Query is the search query after any rewrite. Equal to the user's
	// message when no rewrite happened or the rewrite failed.
	Query string

	// Chunks are the similarity hits, descending by similarity.
	Chunks []RetrievedChunk

	// FormattedContext groups chunks by note, each group sorted by
	// ChunkIndex to restore reading order. Empty when Chunks is empty.
	FormattedContext string
}

// Exchange is one user/assistant turn pair of conversation history,
// used to rewrite conversational follow-ups into standalone queries.
type Exchange struct {
	// User is the user's message.
	User string

	// Assistant is the assistant's reply. May be empty for the
	// latest, unanswered turn.
	Assistant string
}
