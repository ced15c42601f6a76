// Package plaintext extracts text from plain text and Markdown files.
package plaintext

import (
	"context"
	"unicode/utf8"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// charsPerPage is the rough estimate used for page counting.
const charsPerPage = 2000

// Extractor handles plain text documents. Markdown is treated as plain
// text; its markup characters are stripped during normalisation anyway.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt", ".md"}
}

// Extract returns the file content as UTF-8 text.
func (e *Extractor) Extract(_ context.Context, content []byte, _ string) (string, error) {
	if !utf8.Valid(content) {
		return "", domain.ErrInvalidInput
	}
	return string(content), nil
}

// PageCount estimates pages from character count.
func (e *Extractor) PageCount(_ context.Context, content []byte, _ string) (int, error) {
	pages := len(content) / charsPerPage
	if pages < 1 {
		pages = 1
	}
	return pages, nil
}
