package driven

import (
	"context"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

// ChunkStore caches the chunk artifacts produced by ingestion, keyed by
// (source, position). The cache lets a retry sweep skip re-extraction and
// lets management surfaces show what a source contributed. The vector
// index, not this store, serves retrieval.
type ChunkStore interface {
	// SaveChunks replaces all cached chunks for a source in one
	// transaction.
	SaveChunks(ctx context.Context, sourceID string, chunks []domain.Chunk) error

	// GetChunks returns a source's cached chunks ordered by position.
	// Returns an empty slice when nothing is cached.
	GetChunks(ctx context.Context, sourceID string) ([]domain.Chunk, error)

	// DeleteChunks drops every cached chunk for a source.
	DeleteChunks(ctx context.Context, sourceID string) error
}
