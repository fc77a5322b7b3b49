package snapshot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notedex/internal/core/domain"
)

// TestEncodeSnapshot_Deterministic verifies the same documents always
// encode to identical bytes regardless of map iteration order.
func TestEncodeSnapshot_Deterministic(t *testing.T) {
	docs := map[string]domain.IndexedDocument{}
	for _, d := range []domain.IndexedDocument{
		testDoc("notes/b.md", 0, 1, []float32{0.5, 0.5}),
		testDoc("notes/a.md", 1, 2, []float32{0.1, 0.9}),
		testDoc("notes/a.md", 0, 2, []float32{0.9, 0.1}),
	} {
		docs[d.ID] = d
	}

	first, err := encodeSnapshot(docs)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := encodeSnapshot(docs)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// TestDecodeSnapshot_RoundTrip verifies decode restores content, metadata
// and millisecond timestamps, and rebuilds norms.
func TestDecodeSnapshot_RoundTrip(t *testing.T) {
	ts := time.UnixMilli(1712345678901)
	doc := domain.NewIndexedDocument(domain.Chunk{
		Content:     "alpha beta",
		SourcePath:  "notes/a.md",
		ChunkIndex:  0,
		TotalChunks: 1,
		NoteTitle:   "Alpha",
	}, []float32{3, 4}, ts)

	data, err := encodeSnapshot(map[string]domain.IndexedDocument{doc.ID: doc})
	require.NoError(t, err)

	decoded, err := decodeSnapshot(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	got := decoded[0]
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, "alpha beta", got.Content)
	assert.Equal(t, "notes/a.md", got.SourcePath)
	assert.Equal(t, "Alpha", got.NoteTitle)
	assert.Equal(t, []float32{3, 4}, got.Embedding)
	assert.True(t, ts.Equal(got.Timestamp))
	assert.InDelta(t, 5.0, got.Norm, 1e-9)
}

// TestDecodeSnapshot_Corrupt verifies malformed JSON and unknown versions
// both surface as corrupt snapshots.
func TestDecodeSnapshot_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: `{"documents": [`},
		{name: "unknown version", data: `{"documents":[],"version":"2.0"}`},
		{name: "wrong shape", data: `["not","an","object"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeSnapshot([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrCorruptSnapshot))
		})
	}
}

// TestVectorNorm checks the Euclidean norm on a known triangle.
func TestVectorNorm(t *testing.T) {
	assert.InDelta(t, 5.0, vectorNorm([]float32{3, 4}), 1e-9)
	assert.Equal(t, 0.0, vectorNorm([]float32{0, 0, 0}))
	assert.Equal(t, 0.0, vectorNorm(nil))
}

// TestCosineSimilarity covers the identical, orthogonal, opposite and
// zero-norm cases.
func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, expected: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, expected: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, expected: -1},
		{name: "zero candidate", a: []float32{1, 0}, b: []float32{0, 0}, expected: 0},
		{name: "scaled copy", a: []float32{1, 1}, b: []float32{4, 4}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b, vectorNorm(tt.a), vectorNorm(tt.b))
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}
