package vectorfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	return store, dir
}

func makeSegments(documentID string, contents ...string) []domain.Segment {
	segments := make([]domain.Segment, len(contents))
	for i, c := range contents {
		segments[i] = domain.Segment{
			SegmentID:  domain.NewSegmentID(documentID, i),
			DocumentID: documentID,
			SourceName: documentID + ".txt",
			ChunkIndex: i,
			Content:    c,
			Length:     len(c),
			CreatedAt:  time.Now().UTC().Truncate(time.Second),
		}
	}
	return segments
}

func TestAddValidation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Add(ctx, "doc1", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Add(ctx, "doc1", makeSegments("doc1", "a", "b"), [][]float32{{1, 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// First add establishes the dimension.
	err = store.Add(ctx, "doc1", makeSegments("doc1", "a"), [][]float32{{1, 0, 0}})
	require.NoError(t, err)

	err = store.Add(ctx, "doc2", makeSegments("doc2", "b"), [][]float32{{1, 0}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	stats := store.Stats(ctx)
	assert.Equal(t, 1, stats.TotalRecords)
	assert.Equal(t, 3, stats.Dimension)
}

func TestSearchEmptyStore(t *testing.T) {
	store, _ := newTestStore(t)

	results, err := store.Search(context.Background(), []float32{1, 0}, 5, 0.0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRanking(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	segments := makeSegments("doc1", "about cats", "about dogs")
	vectors := [][]float32{{1, 0}, {0, 1}}
	require.NoError(t, store.Add(ctx, "doc1", segments, vectors))

	results, err := store.Search(ctx, []float32{1, 0}, 2, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc1_0", results[0].Segment.SegmentID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestSearchTruncatesBeforeFiltering(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Three vectors at decreasing similarity to the query; with topK=2 the
	// third never survives even though it clears the threshold.
	segments := makeSegments("doc1", "a", "b", "c")
	vectors := [][]float32{{1, 0}, {1, 0.2}, {1, 0.4}}
	require.NoError(t, store.Add(ctx, "doc1", segments, vectors))

	results, err := store.Search(ctx, []float32{1, 0}, 2, 0.0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "doc1_0", results[0].Segment.SegmentID)
	assert.Equal(t, "doc1_1", results[1].Segment.SegmentID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestSearchThresholdAndLimit(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	segments := makeSegments("doc1", "a", "b", "c", "d")
	vectors := [][]float32{{1, 0}, {0.9, 0.1}, {0, 1}, {0.1, 0.9}}
	require.NoError(t, store.Add(ctx, "doc1", segments, vectors))

	for _, topK := range []int{1, 2, 3, 10} {
		results, err := store.Search(ctx, []float32{1, 0}, topK, 0.7)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), topK)
		for _, r := range results {
			assert.GreaterOrEqual(t, r.Score, 0.7)
		}
	}

	results, err := store.Search(ctx, []float32{1, 0}, 0, 0.0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchDimensionMismatch(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "doc1", makeSegments("doc1", "a"), [][]float32{{1, 0, 0}}))

	_, err := store.Search(ctx, []float32{1, 0}, 5, 0.0)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)

	segments := makeSegments("doc1", "first chunk", "second chunk")
	vectors := [][]float32{{0.5, 0.25, -1}, {0, 1, 2}}
	require.NoError(t, store.Add(ctx, "doc1", segments, vectors))
	require.NoError(t, store.Close())

	reloaded, err := NewStore(dir)
	require.NoError(t, err)

	stats := reloaded.Stats(ctx)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, 1, stats.TotalDocuments)
	assert.Equal(t, 3, stats.Dimension)

	got, err := reloaded.SegmentsForDocument(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, segments[0].Content, got[0].Content)
	assert.Equal(t, segments[1].SegmentID, got[1].SegmentID)

	// Exact vector round-trip: self-search scores 1.0.
	results, err := reloaded.Search(ctx, vectors[0], 1, 0.99)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc1_0", results[0].Segment.SegmentID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestCorruptArtifactsDiscarded(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, "doc1", makeSegments("doc1", "a"), [][]float32{{1, 0}}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, metadataFile), []byte("{not json"), 0600))

	reloaded, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Stats(ctx).TotalRecords)
}

func TestFailedFlushKeepsLastState(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "doc1", makeSegments("doc1", "a"), [][]float32{{1, 0}}))

	// Point the vector artifact under a regular file so the temp-file
	// creation inside the flush fails with ENOTDIR.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))
	goodPath := store.vectorsPath
	store.vectorsPath = filepath.Join(blocker, vectorsFile)

	err := store.Add(ctx, "doc2", makeSegments("doc2", "b"), [][]float32{{0, 1}})
	require.Error(t, err)

	_, err = store.DeleteDocument(ctx, "doc1")
	require.Error(t, err)

	// In-memory state still matches the last successful flush.
	stats := store.Stats(ctx)
	assert.Equal(t, 1, stats.TotalRecords)
	assert.Equal(t, 1, stats.TotalDocuments)
	assert.Equal(t, 2, stats.Dimension)

	results, err := store.Search(ctx, []float32{1, 0}, 5, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc1_0", results[0].Segment.SegmentID)

	// The artifacts on disk were never touched either.
	store.vectorsPath = goodPath
	reloaded, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stats(ctx).TotalRecords)
}

func TestDeleteDocument(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "keep", makeSegments("keep", "k1", "k2"),
		[][]float32{{1, 0}, {0, 1}}))
	require.NoError(t, store.Add(ctx, "drop", makeSegments("drop", "d1", "d2", "d3"),
		[][]float32{{1, 1}, {0.5, 0.5}, {-1, 0}}))

	removed, err := store.DeleteDocument(ctx, "drop")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	stats := store.Stats(ctx)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, 1, stats.TotalDocuments)

	results, err := store.Search(ctx, []float32{1, 1}, 10, -1.0)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, "drop", r.Segment.DocumentID)
	}

	// Deletion persists across a reload.
	reloaded, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Stats(ctx).TotalRecords)
}

func TestDeleteAbsentDocument(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	removed, err := store.DeleteDocument(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestDeleteLastDocumentResetsDimension(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "doc1", makeSegments("doc1", "a"), [][]float32{{1, 0, 0}}))
	_, err := store.DeleteDocument(ctx, "doc1")
	require.NoError(t, err)

	assert.Equal(t, 0, store.Stats(ctx).Dimension)

	// A different dimension is accepted again.
	require.NoError(t, store.Add(ctx, "doc2", makeSegments("doc2", "b"), [][]float32{{1, 0}}))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{3, 4}, []float32{3, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float32{1, 1}, []float32{0, 0}))

	// Symmetry.
	a, b := []float32{0.2, -0.7, 1.5}, []float32{1.1, 0.3, -0.4}
	assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-12)
}
