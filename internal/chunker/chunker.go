// Package chunker splits note text into overlapping word windows.
package chunker

import (
	"strings"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

// Chunk splits content on whitespace into words and produces windows of
// chunkSize words advancing by chunkSize - overlap words each step. The
// final window may be shorter; a window that reaches the last word ends
// the pass. Empty or whitespace-only content yields no chunks.
//
// Degenerate guard: when overlap >= chunkSize the advance step would be
// <= 0, so the remaining text is emitted as a single final chunk instead
// of looping.
//
// TotalChunks is back-filled on every chunk after the pass, since the
// count is unknown until the pass completes.
func Chunk(content, sourcePath, noteTitle string, chunkSize, overlap int) []domain.Chunk {
	words := strings.Fields(content)
	if len(words) == 0 {
		return nil
	}

	step := chunkSize - overlap

	var chunks []domain.Chunk
	for start := 0; start < len(words); {
		end := start + chunkSize
		if step <= 0 || end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, domain.Chunk{
			Content:    strings.Join(words[start:end], " "),
			SourcePath: sourcePath,
			ChunkIndex: len(chunks),
			NoteTitle:  noteTitle,
		})

		if end >= len(words) {
			break
		}
		start += step
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}
