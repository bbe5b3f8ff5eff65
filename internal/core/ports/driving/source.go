package driving

import (
	"context"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

// SourceManager exposes knowledge-base management operations.
type SourceManager interface {
	// Get returns the current lifecycle state of a source.
	// Returns domain.ErrNotFound for an unknown ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all sources ordered by creation time.
	List(ctx context.Context) ([]domain.Source, error)

	// Chunks returns a source's cached chunks ordered by position.
	Chunks(ctx context.Context, id string) ([]domain.Chunk, error)

	// Delete removes the source and everything derived from it: vectors
	// first, then cached chunks, then the metadata record. Deleting an
	// unknown source is a no-op success.
	Delete(ctx context.Context, id string) error
}
