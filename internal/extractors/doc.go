// Package extractors provides text extraction from uploaded file formats.
//
// Each format lives in its own subpackage implementing driven.Extractor;
// the Registry selects one by file extension. Extraction only pulls raw
// text out of the file - normalisation and chunking happen later in the
// ingestion pipeline.
package extractors
