package driving

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// IngestResult summarises one successful document ingestion.
type IngestResult struct {
	// DocumentID is the identifier assigned to the document.
	DocumentID string `json:"document_id"`

	// Filename is the original file name.
	Filename string `json:"filename"`

	// ChunksCreated is the number of segments stored.
	ChunksCreated int `json:"chunks_created"`

	// Pages is the (possibly estimated) page count.
	Pages int `json:"pages"`
}

// IngestService turns uploaded files into stored, searchable segments.
type IngestService interface {
	// Ingest extracts text from the file, chunks it, embeds every segment
	// and stores the result. Validation failures (unsupported type, empty
	// text, oversized upload) are rejected before anything is stored.
	Ingest(ctx context.Context, content []byte, filename string) (*IngestResult, error)

	// ProcessAndChunk runs only the chunking stage: normalised segments
	// for the given text, without embedding or storing them.
	ProcessAndChunk(text, documentID, sourceName string) ([]domain.Segment, error)
}
