package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// previewLength caps the source preview shown with an answer.
const previewLength = 200

// noAnswerText is returned when retrieval finds nothing relevant.
const noAnswerText = "I could not find anything relevant in the stored documents."

// QueryService answers questions over the stored segments.
type QueryService struct {
	embedder  driven.EmbeddingService
	vectors   driven.VectorStore
	docs      driven.DocumentStore
	llm       driven.LLMService
	topK      int
	threshold float64
}

// NewQueryService creates a new query service.
// llm is optional: when nil, Ask returns the retrieved context without a
// generated answer.
func NewQueryService(
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	docs driven.DocumentStore,
	llm driven.LLMService,
	topK int,
	threshold float64,
) *QueryService {
	return &QueryService{
		embedder:  embedder,
		vectors:   vectors,
		docs:      docs,
		llm:       llm,
		topK:      topK,
		threshold: threshold,
	}
}

// Retrieve performs similarity search without answer generation.
func (s *QueryService) Retrieve(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.topK
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q (top %d, threshold %.2f)", query, topK, s.threshold)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := s.vectors.Search(ctx, vector, topK, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	logger.Debug("Retrieved %d segments", len(results))
	return results, nil
}

// Ask retrieves the most similar segments and generates an answer grounded
// on them.
func (s *QueryService) Ask(ctx context.Context, query string, topK int) (*domain.Answer, error) {
	started := time.Now()

	results, err := s.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	answer := &domain.Answer{
		Query:   strings.TrimSpace(query),
		Sources: s.buildSources(ctx, results),
	}

	switch {
	case len(results) == 0:
		answer.Answer = noAnswerText
	case s.llm == nil:
		answer.Answer = retrievalOnlyAnswer(results)
	default:
		generated, err := s.llm.GenerateAnswer(ctx, answer.Query, results)
		if err != nil {
			return nil, fmt.Errorf("generating answer: %w", err)
		}
		answer.Answer = generated
	}

	// Analytics are best effort; a failed insert never fails the query.
	if err := s.docs.LogQuery(ctx, answer.Query, time.Since(started), len(results)); err != nil {
		logger.Warn("Logging query: %v", err)
	}

	return answer, nil
}

// buildSources hydrates answer sources with the uploaded filename where
// the metadata row still exists.
func (s *QueryService) buildSources(ctx context.Context, results []domain.SearchResult) []domain.AnswerSource {
	sources := make([]domain.AnswerSource, len(results))
	for i, r := range results {
		filename := r.Segment.SourceName
		if info, err := s.docs.GetDocument(ctx, r.Segment.DocumentID); err == nil {
			filename = info.Filename
		} else if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Looking up document %s: %v", r.Segment.DocumentID, err)
		}

		sources[i] = domain.AnswerSource{
			DocumentID: r.Segment.DocumentID,
			Filename:   filename,
			Score:      r.Score,
			Preview:    preview(r.Segment.Content),
		}
	}
	return sources
}

// retrievalOnlyAnswer renders the retrieved context when no LLM is
// configured.
func retrievalOnlyAnswer(results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("No answer model is configured. Most relevant passages:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. [%s, score %.2f] %s", i+1, r.Segment.SourceName, r.Score, preview(r.Segment.Content))
	}
	return b.String()
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
