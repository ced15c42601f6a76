// Package chunker splits document text into bounded, overlapping segments,
// preferring sentence boundaries over hard cuts.
package chunker

import (
	"regexp"
	"strings"
	"time"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
)

// DefaultChunkSize is the default target number of characters per segment.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of trailing characters carried
// into the next segment.
const DefaultChunkOverlap = 200

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	unsafeRe     = regexp.MustCompile(`[^\w\s.,;:!?\-()]`)
	pageMarkerRe = regexp.MustCompile(`--- Page \d+ ---`)
	sentenceRe   = regexp.MustCompile(`[.!?]+`)
)

// Chunker converts a document's raw extracted text into an ordered sequence
// of segments bounded by a target character size.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target segment size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between segments in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured target segment size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into segments for the given document.
//
// The text is normalised first, then split into sentences, then packed
// greedily: sentences accumulate into a segment until the next one would
// push it past the chunk size, at which point the segment is emitted and
// the next one is seeded with the trailing overlap characters. A single
// sentence longer than the chunk size is emitted whole; the size bound is
// a soft target and never truncates mid-sentence.
//
// Returns nil when the text normalises to nothing. For any other input the
// result is non-empty.
func (c *Chunker) Chunk(text, documentID, sourceName string) []domain.Segment {
	normalised := Normalise(text)
	if normalised == "" {
		return nil
	}

	sentences := splitSentences(normalised)
	if len(sentences) == 0 {
		return nil
	}

	var segments []domain.Segment
	current := ""

	for _, sentence := range sentences {
		if current != "" && len(current)+len(sentence) > c.chunkSize {
			segments = append(segments, c.newSegment(current, documentID, sourceName, len(segments)))
			current = overlapText(current, c.overlap) + " " + sentence
			continue
		}
		if current == "" {
			current = sentence
		} else {
			current += " " + sentence
		}
	}

	if strings.TrimSpace(current) != "" {
		segments = append(segments, c.newSegment(current, documentID, sourceName, len(segments)))
	}

	return segments
}

func (c *Chunker) newSegment(content, documentID, sourceName string, index int) domain.Segment {
	content = strings.TrimSpace(content)
	return domain.Segment{
		SegmentID:  domain.NewSegmentID(documentID, index),
		DocumentID: documentID,
		SourceName: sourceName,
		ChunkIndex: index,
		Content:    content,
		Length:     len(content),
		CreatedAt:  time.Now().UTC(),
	}
}

// Normalise collapses whitespace runs to single spaces, replaces characters
// outside the safe set (word characters, whitespace and basic punctuation)
// with spaces, and strips synthetic page-break markers.
func Normalise(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = unsafeRe.ReplaceAllString(text, " ")
	text = pageMarkerRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// splitSentences splits normalised text on runs of sentence terminators.
// Terminal punctuation is not retained; empty fragments are discarded.
func splitSentences(text string) []string {
	parts := sentenceRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// overlapText returns the trailing overlap characters of text, or the whole
// text when it is shorter than the overlap.
func overlapText(text string, overlap int) string {
	if len(text) <= overlap {
		return text
	}
	return text[len(text)-overlap:]
}
