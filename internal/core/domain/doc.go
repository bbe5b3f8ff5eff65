// Package domain defines the core business entities for the RAG pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: One ingested unit (an uploaded file or a submitted link)
//   - Chunk: A retrievable text segment derived from a source
//   - EmbeddingRecord: A vector-index entry carrying citation metadata
//   - Answer: A grounded answer with ordered citations and a reasoning trace
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
