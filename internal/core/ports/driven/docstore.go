package driven

import (
	"context"
	"time"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// DocumentStore persists upload metadata and query analytics.
// Backed by SQLite.
type DocumentStore interface {
	// SaveDocument stores the metadata row for an ingested document.
	SaveDocument(ctx context.Context, info domain.DocumentInfo) error

	// GetDocument retrieves one document's metadata.
	// Returns domain.ErrNotFound when the document does not exist.
	GetDocument(ctx context.Context, documentID string) (*domain.DocumentInfo, error)

	// ListDocuments returns all document metadata, newest first.
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)

	// DeleteDocument removes a document's metadata row.
	DeleteDocument(ctx context.Context, documentID string) error

	// LogQuery records one query for analytics. Best effort; callers may
	// ignore the error.
	LogQuery(ctx context.Context, queryText string, responseTime time.Duration, chunksRetrieved int) error

	// Stats aggregates document and recent query statistics.
	Stats(ctx context.Context) (*UsageStats, error)
}

// UsageStats aggregates stored-document and query analytics.
type UsageStats struct {
	// TotalDocuments is the number of metadata rows.
	TotalDocuments int `json:"total_documents"`

	// TotalSizeBytes is the summed upload size.
	TotalSizeBytes int64 `json:"total_size_bytes"`

	// TotalPages is the summed page count.
	TotalPages int `json:"total_pages"`

	// TotalChunks is the summed segment count.
	TotalChunks int `json:"total_chunks"`

	// QueriesLast30Days is the number of queries logged in the last 30 days.
	QueriesLast30Days int `json:"queries_last_30_days"`

	// AvgResponseTimeMs is the mean response time over those queries.
	AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
}
