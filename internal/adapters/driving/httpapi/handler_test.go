package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
)

// fakeIngest implements driving.IngestService.
type fakeIngest struct {
	err      error
	lastName string
}

func (f *fakeIngest) Ingest(_ context.Context, content []byte, filename string) (*driving.IngestResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastName = filename
	return &driving.IngestResult{
		DocumentID:    "doc1",
		Filename:      filename,
		ChunksCreated: 3,
		Pages:         1,
	}, nil
}

func (f *fakeIngest) ProcessAndChunk(string, string, string) ([]domain.Segment, error) {
	return nil, nil
}

// fakeQuery implements driving.QueryService.
type fakeQuery struct {
	err error
}

func (f *fakeQuery) Ask(_ context.Context, query string, _ int) (*domain.Answer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Answer{Answer: "an answer", Query: query}, nil
}

func (f *fakeQuery) Retrieve(context.Context, string, int) ([]domain.SearchResult, error) {
	return nil, nil
}

// fakeDocuments implements driving.DocumentService.
type fakeDocuments struct {
	deleteErr error
	docs      []domain.DocumentInfo
}

func (f *fakeDocuments) List(context.Context) ([]domain.DocumentInfo, error) {
	return f.docs, nil
}

func (f *fakeDocuments) Segments(_ context.Context, documentID string) ([]domain.Segment, error) {
	if documentID == "missing" {
		return nil, domain.ErrNotFound
	}
	return []domain.Segment{{SegmentID: documentID + "_0", DocumentID: documentID}}, nil
}

func (f *fakeDocuments) Delete(_ context.Context, documentID string) (int, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return 2, nil
}

func (f *fakeDocuments) Stats(context.Context) (*driving.SystemStats, error) {
	return &driving.SystemStats{Documents: 4}, nil
}

func newTestRouter(ingest *fakeIngest, query *fakeQuery, docs *fakeDocuments) http.Handler {
	h := NewHandler(ingest, query, docs, 1024, []string{".txt", ".md", ".docx"})
	return NewRouter(h)
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestUpload(t *testing.T) {
	ingest := &fakeIngest{}
	router := newTestRouter(ingest, &fakeQuery{}, &fakeDocuments{})

	body, contentType := multipartUpload(t, "notes.txt", "Some notes.")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "notes.txt", ingest.lastName)

	var result driving.IngestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "doc1", result.DocumentID)
	assert.Equal(t, 3, result.ChunksCreated)
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	body, contentType := multipartUpload(t, "malware.exe", "x")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported file type")
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	body, contentType := multipartUpload(t, "big.txt", strings.Repeat("x", 4096))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUploadMissingFile(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	req := httptest.NewRequest(http.MethodPost, "/query",
		strings.NewReader(`{"query":"what is a cat?","top_k":3}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var answer domain.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	assert.Equal(t, "an answer", answer.Answer)
	assert.Equal(t, "what is a cat?", answer.Query)
}

func TestQueryRequiresBody(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryEmbeddingDown(t *testing.T) {
	query := &fakeQuery{err: fmt.Errorf("embedding query: %w", domain.ErrEmbeddingUnavailable)}
	router := newTestRouter(&fakeIngest{}, query, &fakeDocuments{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query":"q"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListDocumentsEmpty(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"documents":[],"count":0}`, rec.Body.String())
}

func TestDocumentSegmentsNotFound(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/missing/segments", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteDocument(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/documents/doc1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"chunks_removed":2`)
}

func TestDeleteDocumentNotFound(t *testing.T) {
	docs := &fakeDocuments{deleteErr: domain.ErrNotFound}
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, docs)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/documents/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var stats driving.SystemStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 4, stats.Documents)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(&fakeIngest{}, &fakeQuery{}, &fakeDocuments{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/query", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
