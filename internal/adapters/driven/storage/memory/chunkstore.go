package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[string][]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string][]domain.Chunk),
	}
}

// SaveChunks replaces all cached chunks for a source.
func (s *ChunkStore) SaveChunks(_ context.Context, sourceID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	s.chunks[sourceID] = stored
	return nil
}

// GetChunks returns a source's cached chunks ordered by position.
func (s *ChunkStore) GetChunks(_ context.Context, sourceID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.chunks[sourceID]
	result := make([]domain.Chunk, len(stored))
	copy(result, stored)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result, nil
}

// DeleteChunks drops every cached chunk for a source.
func (s *ChunkStore) DeleteChunks(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.chunks, sourceID)
	return nil
}
