package driving

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// SystemStats combines embedding store and metadata store statistics.
type SystemStats struct {
	// Store is the embedding store view.
	Store domain.StoreStats `json:"store"`

	// Documents is the number of document metadata rows.
	Documents int `json:"documents"`

	// TotalSizeBytes is the summed upload size.
	TotalSizeBytes int64 `json:"total_size_bytes"`

	// TotalPages is the summed page count.
	TotalPages int `json:"total_pages"`

	// QueriesLast30Days is the recent query count.
	QueriesLast30Days int `json:"queries_last_30_days"`

	// AvgResponseTimeMs is the mean query response time in milliseconds.
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
}

// DocumentService manages ingested documents.
type DocumentService interface {
	// List returns metadata for every ingested document, newest first.
	List(ctx context.Context) ([]domain.DocumentInfo, error)

	// Segments returns the stored segments of one document in chunk order.
	Segments(ctx context.Context, documentID string) ([]domain.Segment, error)

	// Delete removes a document's segments from the embedding store and
	// its metadata row. Returns the number of segments removed.
	Delete(ctx context.Context, documentID string) (int, error)

	// Stats merges embedding store and metadata statistics.
	Stats(ctx context.Context) (*SystemStats, error)
}
