package driving

import (
	"context"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// QueryService answers natural-language questions over the stored segments.
type QueryService interface {
	// Ask retrieves the most similar segments and generates an answer
	// grounded on them. topK <= 0 uses the configured default. When
	// nothing relevant is found, the answer says so and Sources is empty.
	Ask(ctx context.Context, query string, topK int) (*domain.Answer, error)

	// Retrieve performs similarity search only, without answer generation.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}
