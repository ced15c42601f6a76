package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/docqa-labs/docqa-cli/internal/chunker"
	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns uploaded files into stored, searchable segments.
type IngestService struct {
	extractors  driven.ExtractorRegistry
	chunker     *chunker.Chunker
	embedder    driven.EmbeddingService
	vectors     driven.VectorStore
	docs        driven.DocumentStore
	maxFileSize int64
}

// NewIngestService creates a new ingest service. maxFileSize caps upload
// size in bytes; zero or negative disables the cap.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	docs driven.DocumentStore,
	maxFileSize int64,
) *IngestService {
	return &IngestService{
		extractors:  extractors,
		chunker:     ch,
		embedder:    embedder,
		vectors:     vectors,
		docs:        docs,
		maxFileSize: maxFileSize,
	}
}

// Ingest extracts, chunks, embeds and stores one uploaded file.
// Nothing is stored until every stage has succeeded.
func (s *IngestService) Ingest(ctx context.Context, content []byte, filename string) (*driving.IngestResult, error) {
	logger.Section("Ingest")
	logger.Debug("File: %s (%d bytes)", filename, len(content))

	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: empty filename", domain.ErrInvalidInput)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}
	if s.maxFileSize > 0 && int64(len(content)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, s.maxFileSize)
	}

	extractor, err := s.extractors.ForFilename(filename)
	if err != nil {
		return nil, err
	}

	text, err := extractor.Extract(ctx, content, filename)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	documentID := uuid.NewString()
	segments, err := s.ProcessAndChunk(text, documentID, filename)
	if err != nil {
		return nil, err
	}
	logger.Debug("Chunked into %d segments", len(segments))

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding segments: %w", err)
	}

	if err := s.vectors.Add(ctx, documentID, segments, vectors); err != nil {
		return nil, fmt.Errorf("storing segments: %w", err)
	}

	pages, err := extractor.PageCount(ctx, content, filename)
	if err != nil {
		pages = 0
	}

	info := domain.DocumentInfo{
		DocumentID: documentID,
		Filename:   filename,
		FileSize:   int64(len(content)),
		Pages:      pages,
		Chunks:     len(segments),
	}
	if err := s.docs.SaveDocument(ctx, info); err != nil {
		// Roll the segments back so the two stores stay consistent.
		if _, derr := s.vectors.DeleteDocument(ctx, documentID); derr != nil {
			logger.Warn("Orphaned segments for document %s: %v", documentID, derr)
		}
		return nil, fmt.Errorf("saving document metadata: %w", err)
	}

	logger.Info("Ingested %s as %s: %d segments", filename, documentID, len(segments))
	return &driving.IngestResult{
		DocumentID:    documentID,
		Filename:      filename,
		ChunksCreated: len(segments),
		Pages:         pages,
	}, nil
}

// ProcessAndChunk runs only the chunking stage.
func (s *IngestService) ProcessAndChunk(text, documentID, sourceName string) ([]domain.Segment, error) {
	segments := s.chunker.Chunk(text, documentID, sourceName)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no text to index", domain.ErrEmptyDocument)
	}
	return segments, nil
}
