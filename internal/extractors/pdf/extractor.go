// Package pdf extracts text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract renders each page's text behind a "--- Page N ---" marker so pages
// stay distinguishable in the raw text. Pages that fail to parse or carry no
// text are skipped.
func (e *Extractor) Extract(_ context.Context, content []byte, _ string) (text string, err error) {
	// The underlying parser panics on some malformed files.
	defer recoverInvalid(&err)

	reader, err := open(content)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}

		fmt.Fprintf(&out, "\n--- Page %d ---\n%s\n", i, pageText)
	}
	return out.String(), nil
}

// PageCount reports the page count from the PDF's page tree.
func (e *Extractor) PageCount(_ context.Context, content []byte, _ string) (pages int, err error) {
	defer recoverInvalid(&err)

	reader, err := open(content)
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

func open(content []byte) (*pdflib.Reader, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return reader, nil
}

func recoverInvalid(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: malformed pdf: %v", domain.ErrInvalidInput, r)
	}
}
