package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages ingested documents across the embedding store
// and the metadata store.
type DocumentService struct {
	vectors driven.VectorStore
	docs    driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(vectors driven.VectorStore, docs driven.DocumentStore) *DocumentService {
	return &DocumentService{
		vectors: vectors,
		docs:    docs,
	}
}

// List returns metadata for every ingested document, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	return s.docs.ListDocuments(ctx)
}

// Segments returns the stored segments of one document in chunk order.
func (s *DocumentService) Segments(ctx context.Context, documentID string) ([]domain.Segment, error) {
	if _, err := s.docs.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return s.vectors.SegmentsForDocument(ctx, documentID)
}

// Delete removes a document's segments and its metadata row.
// Returns domain.ErrNotFound when the document exists in neither store.
func (s *DocumentService) Delete(ctx context.Context, documentID string) (int, error) {
	removed, err := s.vectors.DeleteDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("deleting segments: %w", err)
	}

	err = s.docs.DeleteDocument(ctx, documentID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		// The metadata row may already be gone; only fail when the
		// segments were missing too.
		if removed == 0 {
			return 0, domain.ErrNotFound
		}
	default:
		return removed, fmt.Errorf("deleting document metadata: %w", err)
	}

	logger.Info("Deleted document %s (%d segments)", documentID, removed)
	return removed, nil
}

// Stats merges embedding store and metadata statistics.
func (s *DocumentService) Stats(ctx context.Context) (*driving.SystemStats, error) {
	usage, err := s.docs.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading usage stats: %w", err)
	}

	return &driving.SystemStats{
		Store:             s.vectors.Stats(ctx),
		Documents:         usage.TotalDocuments,
		TotalSizeBytes:    usage.TotalSizeBytes,
		TotalPages:        usage.TotalPages,
		QueriesLast30Days: usage.QueriesLast30Days,
		AvgResponseTimeMs: usage.AvgResponseTimeMs,
	}, nil
}
