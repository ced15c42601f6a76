package domain

import (
	"fmt"
	"time"
)

// Segment represents a bounded, overlapping unit of a document's text.
// Segments are the atomic items that get embedded and retrieved. They are
// created by the chunker, never mutated afterwards, and removed only as a
// whole-document batch.
type Segment struct {
	// SegmentID uniquely identifies the segment. It is a pure function of
	// (DocumentID, ChunkIndex); see NewSegmentID.
	SegmentID string `json:"segment_id"`

	// DocumentID groups segments belonging to one uploaded document.
	DocumentID string `json:"document_id"`

	// SourceName is the display name of the originating document.
	SourceName string `json:"source_name"`

	// ChunkIndex is the 0-based position within the document.
	ChunkIndex int `json:"chunk_index"`

	// Content is the segment's normalised text. Always non-empty.
	Content string `json:"content"`

	// Length is the character count of Content, cached for reporting.
	Length int `json:"length"`

	// CreatedAt is when the segment was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewSegmentID derives the unique segment identifier from the
// (documentID, chunkIndex) pair.
func NewSegmentID(documentID string, chunkIndex int) string {
	return fmt.Sprintf("%s_%d", documentID, chunkIndex)
}

// DocumentInfo is the upload metadata recorded for one ingested document.
type DocumentInfo struct {
	// DocumentID is the unique identifier assigned at upload time.
	DocumentID string `json:"document_id"`

	// Filename is the original name of the uploaded file.
	Filename string `json:"filename"`

	// FileSize is the raw size of the upload in bytes.
	FileSize int64 `json:"file_size"`

	// Pages is the (possibly estimated) page count.
	Pages int `json:"pages"`

	// Chunks is the number of segments produced from the document.
	Chunks int `json:"chunks"`

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time `json:"uploaded_at"`
}
