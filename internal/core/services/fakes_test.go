package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

// fakeExtractor returns the file content as text.
type fakeExtractor struct {
	extractErr error
}

func (e *fakeExtractor) SupportedExtensions() []string { return []string{".txt"} }

func (e *fakeExtractor) Extract(_ context.Context, content []byte, _ string) (string, error) {
	if e.extractErr != nil {
		return "", e.extractErr
	}
	return string(content), nil
}

func (e *fakeExtractor) PageCount(_ context.Context, content []byte, _ string) (int, error) {
	return 1 + len(content)/2000, nil
}

// fakeRegistry serves the fake extractor for .txt only.
type fakeRegistry struct {
	extractor *fakeExtractor
}

func (r *fakeRegistry) ForFilename(filename string) (driven.Extractor, error) {
	if !strings.HasSuffix(filename, ".txt") {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filename)
	}
	return r.extractor, nil
}

func (r *fakeRegistry) SupportedExtensions() []string { return []string{".txt"} }

// fakeEmbedder returns a fixed-dimension vector derived from text length.
type fakeEmbedder struct {
	embedErr error
	calls    int
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.embedErr != nil {
		return nil, e.embedErr
	}
	e.calls++
	return []float32{float32(len(text)), 1}, nil
}

func (e *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int            { return 2 }
func (e *fakeEmbedder) ModelName() string          { return "fake-embedder" }
func (e *fakeEmbedder) Ping(context.Context) error { return nil }
func (e *fakeEmbedder) Close() error               { return nil }

// fakeVectorStore keeps records in memory and serves canned search results.
type fakeVectorStore struct {
	segments      map[string][]domain.Segment
	searchResults []domain.SearchResult
	addErr        error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{segments: make(map[string][]domain.Segment)}
}

func (s *fakeVectorStore) Add(_ context.Context, documentID string, segments []domain.Segment, vectors [][]float32) error {
	if s.addErr != nil {
		return s.addErr
	}
	if len(segments) != len(vectors) {
		return domain.ErrInvalidInput
	}
	s.segments[documentID] = append(s.segments[documentID], segments...)
	return nil
}

func (s *fakeVectorStore) Search(context.Context, []float32, int, float64) ([]domain.SearchResult, error) {
	return s.searchResults, nil
}

func (s *fakeVectorStore) DeleteDocument(_ context.Context, documentID string) (int, error) {
	n := len(s.segments[documentID])
	delete(s.segments, documentID)
	return n, nil
}

func (s *fakeVectorStore) SegmentsForDocument(_ context.Context, documentID string) ([]domain.Segment, error) {
	return s.segments[documentID], nil
}

func (s *fakeVectorStore) Stats(context.Context) domain.StoreStats {
	total := 0
	for _, segs := range s.segments {
		total += len(segs)
	}
	return domain.StoreStats{TotalRecords: total, TotalDocuments: len(s.segments), Dimension: 2}
}

func (s *fakeVectorStore) Close() error { return nil }

// loggedQuery records one LogQuery call.
type loggedQuery struct {
	text      string
	duration  time.Duration
	retrieved int
}

// fakeDocStore keeps metadata rows in memory.
type fakeDocStore struct {
	docs    map[string]domain.DocumentInfo
	queries []loggedQuery
	saveErr error
	logErr  error
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[string]domain.DocumentInfo)}
}

func (s *fakeDocStore) SaveDocument(_ context.Context, info domain.DocumentInfo) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.docs[info.DocumentID] = info
	return nil
}

func (s *fakeDocStore) GetDocument(_ context.Context, documentID string) (*domain.DocumentInfo, error) {
	info, ok := s.docs[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &info, nil
}

func (s *fakeDocStore) ListDocuments(context.Context) ([]domain.DocumentInfo, error) {
	out := make([]domain.DocumentInfo, 0, len(s.docs))
	for _, info := range s.docs {
		out = append(out, info)
	}
	return out, nil
}

func (s *fakeDocStore) DeleteDocument(_ context.Context, documentID string) error {
	if _, ok := s.docs[documentID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, documentID)
	return nil
}

func (s *fakeDocStore) LogQuery(_ context.Context, queryText string, responseTime time.Duration, chunksRetrieved int) error {
	if s.logErr != nil {
		return s.logErr
	}
	s.queries = append(s.queries, loggedQuery{queryText, responseTime, chunksRetrieved})
	return nil
}

func (s *fakeDocStore) Stats(context.Context) (*driven.UsageStats, error) {
	return &driven.UsageStats{
		TotalDocuments:    len(s.docs),
		QueriesLast30Days: len(s.queries),
	}, nil
}

// fakeLLM echoes the query with a marker.
type fakeLLM struct {
	generateErr error
	lastQuery   string
	lastResults []domain.SearchResult
}

func (l *fakeLLM) GenerateAnswer(_ context.Context, query string, results []domain.SearchResult) (string, error) {
	if l.generateErr != nil {
		return "", l.generateErr
	}
	l.lastQuery = query
	l.lastResults = results
	return "answer to: " + query, nil
}

func (l *fakeLLM) ModelName() string { return "fake-llm" }
func (l *fakeLLM) Close() error      { return nil }
