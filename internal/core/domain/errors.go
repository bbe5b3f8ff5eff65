package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown origin kind or file format.
	ErrUnsupportedType = errors.New("unsupported type")

	// Extraction Errors.

	// ErrExtraction indicates a source could not be read, fetched or parsed.
	// Terminal for that ingestion attempt; the source is marked failed.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmptyContent indicates extraction produced no usable text.
	// Treated as an extraction failure, never as a successful empty ingestion.
	ErrEmptyContent = errors.New("no text content extracted")

	// Configuration Errors.
	// Fatal and operator-facing, never recorded on a single source.

	// ErrInvalidChunkConfig indicates illegal chunking parameters,
	// such as an overlap equal to or larger than the chunk size.
	ErrInvalidChunkConfig = errors.New("invalid chunking configuration")

	// ErrDimensionMismatch indicates the embedding dimensions do not match
	// the vectors already stored in the index. This signals a provider or
	// model change since ingestion and requires a full re-ingestion.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// Transient Provider Errors.
	// Retried with bounded backoff before being converted into a
	// source-level failure or a degraded query response.

	// ErrProviderUnavailable indicates a timeout or connection failure
	// on an embedding or generation call.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// State Errors.
	// Raised when concurrent requests race on a source's lifecycle.

	// ErrInvalidTransition indicates a backward or skipped status transition.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrIngestionInProgress indicates the source is already being ingested.
	// A second ingestion request for an in-flight source is rejected,
	// never run in parallel with the first.
	ErrIngestionInProgress = errors.New("ingestion in progress")

	// ErrSourceSuperseded indicates the source record disappeared while its
	// ingestion was running, typically because a deletion raced it.
	ErrSourceSuperseded = errors.New("source deleted during ingestion")

	// ErrConsistency indicates a broken internal invariant, such as the
	// vector count not matching the chunk count after ingestion.
	// Never silently ignored; the partial state is rolled back.
	ErrConsistency = errors.New("consistency violation")

	// Availability Errors.

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation service is not configured.
	ErrLLMUnavailable = errors.New("generation service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)

// IsTransient reports whether err is a provider failure worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrRateLimited)
}

// IsConfiguration reports whether err is a fatal configuration failure
// that must be surfaced to the operator rather than recorded on a source.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidChunkConfig) || errors.Is(err, ErrDimensionMismatch)
}
