package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

// snapshotVersion is written to every snapshot and required on load.
const snapshotVersion = "1.0"

// vectorSnapshot is the on-disk form of the store. Norms and the path
// index are never persisted; they are rebuilt on load.
type vectorSnapshot struct {
	Documents []vectorDocument `json:"documents"`
	Version   string           `json:"version"`
}

type vectorDocument struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Embedding []float32      `json:"embedding"`
	Metadata  vectorMetadata `json:"metadata"`
}

type vectorMetadata struct {
	FilePath    string `json:"filePath"`
	ChunkIndex  int    `json:"chunkIndex"`
	TotalChunks int    `json:"totalChunks"`
	NoteTitle   string `json:"noteTitle"`
	Timestamp   int64  `json:"timestamp"`
}

// encodeSnapshot marshals documents into compact snapshot JSON.
// Documents are ordered by id so identical stores produce identical bytes.
func encodeSnapshot(docs map[string]domain.IndexedDocument) ([]byte, error) {
	snap := vectorSnapshot{
		Documents: make([]vectorDocument, 0, len(docs)),
		Version:   snapshotVersion,
	}
	for _, doc := range docs {
		snap.Documents = append(snap.Documents, vectorDocument{
			ID:        doc.ID,
			Content:   doc.Content,
			Embedding: doc.Embedding,
			Metadata: vectorMetadata{
				FilePath:    doc.SourcePath,
				ChunkIndex:  doc.ChunkIndex,
				TotalChunks: doc.TotalChunks,
				NoteTitle:   doc.NoteTitle,
				Timestamp:   doc.Timestamp.UnixMilli(),
			},
		})
	}
	sort.Slice(snap.Documents, func(i, j int) bool {
		return snap.Documents[i].ID < snap.Documents[j].ID
	})

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// decodeSnapshot parses snapshot JSON into indexed documents with norms
// recomputed. Any decode failure is a corrupt-snapshot error: the store
// must not silently start empty on a damaged file.
func decodeSnapshot(data []byte) ([]domain.IndexedDocument, error) {
	var snap vectorSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %q", domain.ErrCorruptSnapshot, snap.Version)
	}

	docs := make([]domain.IndexedDocument, 0, len(snap.Documents))
	for _, vd := range snap.Documents {
		docs = append(docs, domain.IndexedDocument{
			ID: vd.ID,
			Chunk: domain.Chunk{
				Content:     vd.Content,
				SourcePath:  vd.Metadata.FilePath,
				ChunkIndex:  vd.Metadata.ChunkIndex,
				TotalChunks: vd.Metadata.TotalChunks,
				NoteTitle:   vd.Metadata.NoteTitle,
			},
			Embedding: vd.Embedding,
			Norm:      vectorNorm(vd.Embedding),
			Timestamp: time.UnixMilli(vd.Metadata.Timestamp),
		})
	}
	return docs, nil
}
