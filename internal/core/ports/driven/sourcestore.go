package driven

import (
	"context"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

// SourceStore persists source records and their lifecycle status.
// All writes are atomic with respect to a single record; a reader never
// observes a partially updated status/error pair.
type SourceStore interface {
	// Save writes the full source record, creating or replacing it.
	// Used at submission and re-submission; status transitions inside a
	// running workflow go through UpdateStatus instead.
	Save(ctx context.Context, source *domain.Source) error

	// Get retrieves a source by ID.
	// Returns domain.ErrNotFound if the source doesn't exist.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// GetByContentHash finds a source whose extracted content hashed to
	// contentHash and whose status matches. Used for the idempotent
	// re-ingestion short circuit.
	// Returns domain.ErrNotFound when there is no match.
	GetByContentHash(ctx context.Context, contentHash string, status domain.SourceStatus) (*domain.Source, error)

	// List returns all sources ordered by creation time.
	List(ctx context.Context) ([]domain.Source, error)

	// UpdateStatus advances the lifecycle state, enforcing the forward-only
	// transition order. errMsg is recorded when status is failed and
	// cleared otherwise.
	// Returns domain.ErrNotFound for an unknown source and
	// domain.ErrInvalidTransition for a backward or skipped move.
	UpdateStatus(ctx context.Context, id string, status domain.SourceStatus, errMsg string) error

	// UpdateResult records the chunk statistics and content hash of a
	// successful ingestion run.
	UpdateResult(ctx context.Context, id string, contentHash string, chunkCount, tokenCount int) error

	// IncrementAttempts bumps the ingestion attempt counter.
	IncrementAttempts(ctx context.Context, id string) error

	// Delete removes the source record entirely. There is no soft delete.
	// Deleting an unknown source returns domain.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
