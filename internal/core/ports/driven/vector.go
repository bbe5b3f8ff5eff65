package driven

import (
	"context"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

// VectorIndex stores chunk embeddings and answers nearest-neighbour
// queries with the citation metadata attached to each entry.
//
// Implementations must reject vectors whose width differs from the
// configured dimensions with domain.ErrDimensionMismatch, at upsert and
// at query. A mismatch signals an embedding-model change since ingestion
// and is never silently dropped.
type VectorIndex interface {
	// Upsert writes the records, replacing any entry with the same chunk
	// ID. Idempotent by chunk ID.
	Upsert(ctx context.Context, records []domain.EmbeddingRecord) error

	// DeleteBySource removes every entry whose metadata names sourceID.
	// Works without enumerating chunk IDs first, so it stays usable when
	// the chunk set is unknown after a crash mid-ingestion.
	DeleteBySource(ctx context.Context, sourceID string) error

	// Query returns up to topK entries nearest to the query vector,
	// ordered by descending similarity; ties break by ascending position,
	// then chunk ID. sourceIDs, when non-empty, filters to those sources.
	// An empty index returns no results and no error.
	Query(ctx context.Context, vector []float32, topK int, sourceIDs []string) ([]domain.RetrievedChunk, error)

	// CountBySource reports how many entries a source has in the index.
	CountBySource(ctx context.Context, sourceID string) (int, error)

	// Count reports the total number of entries.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
