package driven

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// LLMService generates natural-language answers from retrieved context.
// This is an optional service - when nil, queries return retrieval results
// without a generated answer.
type LLMService interface {
	// GenerateAnswer produces an answer to query grounded on the retrieved
	// segments. The call is pure pass-through; the core does not inspect
	// or post-process the model output.
	GenerateAnswer(ctx context.Context, query string, results []domain.SearchResult) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
