package domain

// SearchResult represents a single similarity search hit.
// Score only exists on results; it is never part of the stored Segment.
type SearchResult struct {
	// Segment is the matched segment with its full metadata.
	Segment Segment `json:"segment"`

	// Score is the cosine similarity to the query vector.
	Score float64 `json:"score"`
}

// StoreStats describes the state of the embedding store.
type StoreStats struct {
	// TotalRecords is the number of stored (vector, segment) pairs.
	TotalRecords int `json:"total_records"`

	// TotalDocuments is the number of distinct document IDs.
	TotalDocuments int `json:"total_documents"`

	// Dimension is the embedding vector size. Zero for a store that has
	// never stored a vector.
	Dimension int `json:"dimension"`
}

// AnswerSource points at a segment that supported a generated answer.
type AnswerSource struct {
	// DocumentID is the originating document.
	DocumentID string `json:"document_id"`

	// Filename is the display name of the originating document.
	Filename string `json:"filename"`

	// Score is the similarity score of the supporting segment.
	Score float64 `json:"similarity_score"`

	// Preview is a truncated excerpt of the supporting segment.
	Preview string `json:"preview"`
}

// Answer is the response to a natural-language query.
type Answer struct {
	// Answer is the generated answer text.
	Answer string `json:"answer"`

	// Sources lists the segments the answer was grounded on.
	Sources []AnswerSource `json:"sources"`

	// Query echoes the original question.
	Query string `json:"query"`
}
