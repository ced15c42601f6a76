package driven

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// VectorStore is the durable collection of (vector, segment) pairs.
//
// The store owns all indexing, search and persistence logic. Mutations are
// serialised internally and flushed to persistent storage before they are
// reported as successful; a failed flush leaves the store at the state of
// the last successful flush.
type VectorStore interface {
	// Add appends one (vector, segment) pair per input segment, in input
	// order, then flushes. vectors must be the same length as segments and
	// every vector must have the store's fixed dimension; the first Add
	// establishes it. Content is never deduplicated.
	Add(ctx context.Context, documentID string, segments []domain.Segment, vectors [][]float32) error

	// Search ranks every stored vector by cosine similarity to query,
	// descending (ties broken by insertion order), truncates to topK and
	// then discards results scoring below threshold. An empty store
	// returns an empty slice.
	Search(ctx context.Context, query []float32, topK int, threshold float64) ([]domain.SearchResult, error)

	// DeleteDocument removes every record belonging to documentID and
	// flushes. Returns the number of records removed; deleting an absent
	// document is a no-op, not an error.
	DeleteDocument(ctx context.Context, documentID string) (int, error)

	// SegmentsForDocument returns the stored segments of one document in
	// insertion order.
	SegmentsForDocument(ctx context.Context, documentID string) ([]domain.Segment, error)

	// Stats reports the store's record count, distinct document count and
	// embedding dimension. Never fails.
	Stats(ctx context.Context) domain.StoreStats

	// Close releases resources.
	Close() error
}
