// Package httpapi exposes the document Q&A services over HTTP using gin.
package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
)

// Handler holds the services the HTTP surface drives.
type Handler struct {
	ingest      driving.IngestService
	query       driving.QueryService
	documents   driving.DocumentService
	maxFileSize int64
	extensions  []string
}

// NewHandler creates the HTTP handler set. maxFileSize caps uploads in
// bytes; extensions is the accepted upload whitelist (lowercase, with dot).
func NewHandler(
	ingest driving.IngestService,
	query driving.QueryService,
	documents driving.DocumentService,
	maxFileSize int64,
	extensions []string,
) *Handler {
	return &Handler{
		ingest:      ingest,
		query:       query,
		documents:   documents,
		maxFileSize: maxFileSize,
		extensions:  extensions,
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// queryRequest is the POST /query body.
type queryRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

// Root reports the service name and the routes it serves.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "docqa",
		"endpoints": []string{
			"GET /health",
			"POST /upload",
			"POST /query",
			"GET /documents",
			"GET /documents/:id/segments",
			"DELETE /documents/:id",
			"GET /stats",
		},
	})
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Upload ingests one multipart file upload.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing file field"})
		return
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "file too large"})
		return
	}
	if !h.extensionAllowed(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: "unsupported file type, accepted: " + strings.Join(h.extensions, ", "),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "reading upload: " + err.Error()})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "reading upload: " + err.Error()})
		return
	}

	result, err := h.ingest.Ingest(c.Request.Context(), content, fileHeader.Filename)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Query answers a question over the stored documents.
func (h *Handler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}

	answer, err := h.query.Ask(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// ListDocuments returns metadata for every ingested document.
func (h *Handler) ListDocuments(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if docs == nil {
		docs = []domain.DocumentInfo{}
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
}

// DocumentSegments returns one document's stored segments in chunk order.
func (h *Handler) DocumentSegments(c *gin.Context) {
	segments, err := h.documents.Segments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if segments == nil {
		segments = []domain.Segment{}
	}

	c.JSON(http.StatusOK, gin.H{"segments": segments, "count": len(segments)})
}

// DeleteDocument removes a document and its segments.
func (h *Handler) DeleteDocument(c *gin.Context) {
	removed, err := h.documents.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document_id": c.Param("id"), "chunks_removed": removed})
}

// Stats reports merged store and usage statistics.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.documents.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// writeError maps domain errors to HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyDocument),
		errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrDimensionMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrLLMUnavailable):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, errorResponse{Error: err.Error()})
}

func (h *Handler) extensionAllowed(filename string) bool {
	name := strings.ToLower(filename)
	for _, ext := range h.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
