// Package vectorfile implements the embedding store as a flat-file,
// linear-scan collection of (vector, segment) records.
//
// Two artifacts live side by side in the store directory: embeddings.bin
// (a binary float32 matrix) and metadata.json (the segment records). The
// i-th entries of both correspond to each other by position. Every mutation
// rewrites both artifacts via write-new-then-rename before it is committed
// in memory, so a failed flush leaves the store at the state of the last
// successful one.
package vectorfile

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Artifact file names inside the store directory.
const (
	vectorsFile  = "embeddings.bin"
	metadataFile = "metadata.json"
)

// record pairs one vector with one segment. Records are owned by the store
// and kept in insertion order.
type record struct {
	vector  []float32
	segment domain.Segment
}

// Store is a durable, linear-scan embedding store.
//
// All mutations are serialised by the mutex; reads take the read lock and
// never observe a store mid-mutation.
type Store struct {
	mu          sync.RWMutex
	vectorsPath string
	metaPath    string
	records     []record
	dimension   int
}

// NewStore opens the store rooted at dir, loading both persisted artifacts.
// If either artifact is missing or unreadable, the store starts empty; it
// never partially loads one artifact without the other.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	s := &Store{
		vectorsPath: filepath.Join(dir, vectorsFile),
		metaPath:    filepath.Join(dir, metadataFile),
	}
	s.load()
	return s, nil
}

// load reads both artifacts. Any read error or disagreement between the two
// discards both and starts empty.
func (s *Store) load() {
	vectors, dimension, err := readVectors(s.vectorsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Discarding persisted embeddings: %v", err)
		}
		return
	}

	segments, err := readMetadata(s.metaPath)
	if err != nil {
		logger.Warn("Discarding persisted embeddings: %v", err)
		return
	}

	if len(vectors) != len(segments) {
		logger.Warn("Vector/metadata count mismatch (%d vs %d), starting empty",
			len(vectors), len(segments))
		return
	}

	records := make([]record, len(vectors))
	for i := range vectors {
		records[i] = record{vector: vectors[i], segment: segments[i]}
	}
	s.records = records
	s.dimension = dimension
	logger.Info("Loaded %d embeddings (dimension %d)", len(records), dimension)
}

// Add appends one (vector, segment) pair per input segment and flushes.
func (s *Store) Add(_ context.Context, documentID string, segments []domain.Segment, vectors [][]float32) error {
	if len(segments) == 0 {
		return fmt.Errorf("%w: no segments to add", domain.ErrInvalidInput)
	}
	if len(vectors) != len(segments) {
		return fmt.Errorf("%w: %d segments but %d vectors",
			domain.ErrInvalidInput, len(segments), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First add establishes the store dimension.
	dimension := s.dimension
	if dimension == 0 {
		dimension = len(vectors[0])
		if dimension == 0 {
			return fmt.Errorf("%w: empty vector", domain.ErrInvalidInput)
		}
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, store has %d",
				domain.ErrDimensionMismatch, i, len(v), dimension)
		}
	}

	next := make([]record, 0, len(s.records)+len(segments))
	next = append(next, s.records...)
	for i, seg := range segments {
		next = append(next, record{vector: vectors[i], segment: seg})
	}

	if err := s.flush(next, dimension); err != nil {
		return fmt.Errorf("flushing store: %w", err)
	}

	s.records = next
	s.dimension = dimension
	logger.Debug("Stored %d segments for document %s (total %d)",
		len(segments), documentID, len(next))
	return nil
}

// Search ranks every stored vector by cosine similarity to query.
// The full collection is ranked descending, truncated to topK, and only
// then filtered by threshold, so fewer than topK results can come back
// even when more records clear the threshold further down the ranking.
func (s *Store) Search(_ context.Context, query []float32, topK int, threshold float64) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 || topK <= 0 {
		return []domain.SearchResult{}, nil
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, store has %d",
			domain.ErrDimensionMismatch, len(query), s.dimension)
	}

	ranked := make([]domain.SearchResult, len(s.records))
	for i, rec := range s.records {
		ranked[i] = domain.SearchResult{
			Segment: rec.segment,
			Score:   Cosine(query, rec.vector),
		}
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK < len(ranked) {
		ranked = ranked[:topK]
	}

	results := make([]domain.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		if r.Score >= threshold {
			results = append(results, r)
		}
	}

	logger.Debug("Search: %d of top %d above threshold %.2f", len(results), topK, threshold)
	return results, nil
}

// DeleteDocument removes every record belonging to documentID and flushes.
// Removal rebuilds the record sequence in one pass, so interleaved
// documents keep their relative order and positions stay dense.
func (s *Store) DeleteDocument(_ context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]record, 0, len(s.records))
	for _, rec := range s.records {
		if rec.segment.DocumentID != documentID {
			next = append(next, rec)
		}
	}

	removed := len(s.records) - len(next)
	if removed == 0 {
		return 0, nil
	}

	dimension := s.dimension
	if len(next) == 0 {
		dimension = 0
	}

	if err := s.flush(next, dimension); err != nil {
		return 0, fmt.Errorf("flushing store: %w", err)
	}

	s.records = next
	s.dimension = dimension
	logger.Debug("Deleted %d segments for document %s", removed, documentID)
	return removed, nil
}

// SegmentsForDocument returns the stored segments of one document in
// insertion order.
func (s *Store) SegmentsForDocument(_ context.Context, documentID string) ([]domain.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	segments := make([]domain.Segment, 0)
	for _, rec := range s.records {
		if rec.segment.DocumentID == documentID {
			segments = append(segments, rec.segment)
		}
	}
	return segments, nil
}

// Stats reports record count, distinct document count and dimension.
func (s *Store) Stats(_ context.Context) domain.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	documents := make(map[string]struct{})
	for _, rec := range s.records {
		documents[rec.segment.DocumentID] = struct{}{}
	}

	return domain.StoreStats{
		TotalRecords:   len(s.records),
		TotalDocuments: len(documents),
		Dimension:      s.dimension,
	}
}

// Close releases resources. The store has no pending state; every mutation
// already flushed.
func (s *Store) Close() error {
	return nil
}

// Cosine computes the cosine similarity of two vectors, defined as 0 when
// either vector has zero norm.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ==================== Persistence ====================

// flush writes both artifacts for the given record set. Each artifact is
// written to a temp file and renamed into place; both must succeed before
// the caller commits the records in memory.
func (s *Store) flush(records []record, dimension int) error {
	vectorsBlob := encodeVectors(records, dimension)

	segments := make([]domain.Segment, len(records))
	for i, rec := range records {
		segments[i] = rec.segment
	}
	metaBlob, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	if err := writeAtomic(s.vectorsPath, vectorsBlob); err != nil {
		return fmt.Errorf("writing vectors: %w", err)
	}
	if err := writeAtomic(s.metaPath, metaBlob); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// encodeVectors serialises vectors as little-endian float32 rows behind a
// count/dimension header.
func encodeVectors(records []record, dimension int) []byte {
	buf := make([]byte, 8+len(records)*dimension*4)
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(records)))
	binary.LittleEndian.PutUint32(buf[4:], uint32(dimension))

	off := 8
	for _, rec := range records {
		for _, f := range rec.vector {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	return buf
}

// readVectors loads the binary vector artifact.
func readVectors(path string) ([][]float32, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < 8 {
		return nil, 0, fmt.Errorf("vector artifact truncated (%d bytes)", len(data))
	}

	count := int(binary.LittleEndian.Uint32(data[0:]))
	dimension := int(binary.LittleEndian.Uint32(data[4:]))
	if len(data) != 8+count*dimension*4 {
		return nil, 0, fmt.Errorf("vector artifact size mismatch: header says %dx%d, have %d bytes",
			count, dimension, len(data)-8)
	}

	vectors := make([][]float32, count)
	off := 8
	for i := range vectors {
		row := make([]float32, dimension)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = row
	}
	return vectors, dimension, nil
}

// readMetadata loads the segment artifact.
func readMetadata(path string) ([]domain.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var segments []domain.Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return segments, nil
}

// writeAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
