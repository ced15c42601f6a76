// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Pulls raw text out of an uploaded file
//   - ExtractorRegistry: Selects the extractor for a filename
//   - EmbeddingService: Converts text into fixed-dimension vectors
//   - VectorStore: Persists (vector, segment) pairs and performs
//     similarity search
//   - DocumentStore: Upload metadata and query analytics persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Generates answers from retrieved context. Without it,
//     queries return raw retrieval results only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
