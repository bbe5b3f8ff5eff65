// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - SourceStore: Source lifecycle and metadata persistence
//   - ChunkStore: Cached chunk artifact persistence
//   - VectorIndex: Vector storage and nearest-neighbour search
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Generates grounded answers
//   - Extractor: Produces raw text per origin kind
//   - Normaliser: Deterministic text cleaning
//   - TokenCounter: Token counting for chunk bounding
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or normaliser package
package driven
