package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is an in-memory implementation of driven.SourceStore.
type SourceStore struct {
	mu      sync.RWMutex
	sources map[string]domain.Source
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{
		sources: make(map[string]domain.Source),
	}
}

// Save stores or replaces a source record.
func (s *SourceStore) Save(_ context.Context, source *domain.Source) error {
	if source == nil || source.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now
	s.sources[source.ID] = *source
	return nil
}

// Get retrieves a source by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// GetByContentHash finds a source by content hash and status.
func (s *SourceStore) GetByContentHash(
	_ context.Context,
	contentHash string,
	status domain.SourceStatus,
) (*domain.Source, error) {
	if contentHash == "" {
		return nil, domain.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var match *domain.Source
	for _, source := range s.sources {
		if source.ContentHash != contentHash || source.Status != status {
			continue
		}
		if match == nil || source.UpdatedAt.After(match.UpdatedAt) {
			found := source
			match = &found
		}
	}
	if match == nil {
		return nil, domain.ErrNotFound
	}
	return match, nil
}

// List returns all sources ordered by creation time.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Source, 0, len(s.sources))
	for _, source := range s.sources {
		result = append(result, source)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateStatus advances the lifecycle state, enforcing the transition order.
func (s *SourceStore) UpdateStatus(_ context.Context, id string, status domain.SourceStatus, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.sources[id]
	if !ok {
		return domain.ErrNotFound
	}

	if !source.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, source.Status, status)
	}

	source.Status = status
	source.Error = ""
	if status == domain.StatusFailed {
		source.Error = errMsg
	}
	source.UpdatedAt = time.Now().UTC()
	s.sources[id] = source
	return nil
}

// UpdateResult records the outcome statistics of a successful run.
func (s *SourceStore) UpdateResult(_ context.Context, id string, contentHash string, chunkCount, tokenCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.sources[id]
	if !ok {
		return domain.ErrNotFound
	}

	source.ContentHash = contentHash
	source.ChunkCount = chunkCount
	source.TokenCount = tokenCount
	source.UpdatedAt = time.Now().UTC()
	s.sources[id] = source
	return nil
}

// IncrementAttempts bumps the ingestion attempt counter.
func (s *SourceStore) IncrementAttempts(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.sources[id]
	if !ok {
		return domain.ErrNotFound
	}

	source.Attempts++
	source.UpdatedAt = time.Now().UTC()
	s.sources[id] = source
	return nil
}

// Delete removes a source record.
func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sources[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sources, id)
	return nil
}
