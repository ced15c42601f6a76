package services

import (
	"context"
	"errors"
	"testing"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

func seedDocument(vectors *fakeVectorStore, docs *fakeDocStore, documentID string, chunks int) {
	segments := make([]domain.Segment, chunks)
	for i := range segments {
		segments[i] = domain.Segment{
			SegmentID:  domain.NewSegmentID(documentID, i),
			DocumentID: documentID,
			ChunkIndex: i,
		}
	}
	vectors.segments[documentID] = segments
	docs.docs[documentID] = domain.DocumentInfo{
		DocumentID: documentID,
		Filename:   documentID + ".txt",
		Chunks:     chunks,
	}
}

func TestDocumentSegments(t *testing.T) {
	vectors := newFakeVectorStore()
	docs := newFakeDocStore()
	seedDocument(vectors, docs, "doc1", 3)
	svc := NewDocumentService(vectors, docs)

	segments, err := svc.Segments(context.Background(), "doc1")
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if len(segments) != 3 {
		t.Errorf("got %d segments", len(segments))
	}

	_, err = svc.Segments(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDocumentDelete(t *testing.T) {
	vectors := newFakeVectorStore()
	docs := newFakeDocStore()
	seedDocument(vectors, docs, "doc1", 4)
	svc := NewDocumentService(vectors, docs)

	removed, err := svc.Delete(context.Background(), "doc1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed != 4 {
		t.Errorf("removed = %d", removed)
	}
	if len(vectors.segments) != 0 || len(docs.docs) != 0 {
		t.Error("document not fully removed")
	}
}

func TestDocumentDeleteMissing(t *testing.T) {
	svc := NewDocumentService(newFakeVectorStore(), newFakeDocStore())

	_, err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDocumentDeleteOrphanedSegments(t *testing.T) {
	// Segments exist but the metadata row is already gone.
	vectors := newFakeVectorStore()
	docs := newFakeDocStore()
	seedDocument(vectors, docs, "doc1", 2)
	delete(docs.docs, "doc1")
	svc := NewDocumentService(vectors, docs)

	removed, err := svc.Delete(context.Background(), "doc1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d", removed)
	}
}

func TestDocumentStats(t *testing.T) {
	vectors := newFakeVectorStore()
	docs := newFakeDocStore()
	seedDocument(vectors, docs, "doc1", 2)
	seedDocument(vectors, docs, "doc2", 3)
	svc := NewDocumentService(vectors, docs)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Store.TotalRecords != 5 {
		t.Errorf("TotalRecords = %d", stats.Store.TotalRecords)
	}
	if stats.Documents != 2 {
		t.Errorf("Documents = %d", stats.Documents)
	}
}
