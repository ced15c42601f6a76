package driven

import "context"

// Extractor pulls raw text out of an uploaded file.
// Each extractor handles specific file extensions (e.g., .txt, .docx).
type Extractor interface {
	// SupportedExtensions returns the lowercase file extensions this
	// extractor handles, including the leading dot.
	SupportedExtensions() []string

	// Extract returns the raw text content of the file.
	// The text is not normalised; chunking normalises it later.
	Extract(ctx context.Context, content []byte, filename string) (string, error)

	// PageCount estimates the number of pages in the file.
	// Text formats estimate from character count.
	PageCount(ctx context.Context, content []byte, filename string) (int, error)
}

// ExtractorRegistry selects the extractor for a filename.
type ExtractorRegistry interface {
	// ForFilename returns the extractor for the file's extension.
	// Returns domain.ErrUnsupportedType when no extractor handles it.
	ForFilename(filename string) (Extractor, error)

	// SupportedExtensions returns every extension any registered
	// extractor handles.
	SupportedExtensions() []string
}
