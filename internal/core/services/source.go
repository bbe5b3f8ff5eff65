package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/logger"
)

// Ensure SourceService implements the driving port.
var _ driving.SourceManager = (*SourceService)(nil)

// SourceService exposes knowledge-base management over the stores and
// the vector index.
type SourceService struct {
	sources driven.SourceStore
	chunks  driven.ChunkStore
	vectors driven.VectorIndex
}

// NewSourceService creates a source manager over the given stores.
func NewSourceService(sources driven.SourceStore, chunks driven.ChunkStore, vectors driven.VectorIndex) *SourceService {
	return &SourceService{
		sources: sources,
		chunks:  chunks,
		vectors: vectors,
	}
}

// Get returns the current lifecycle state of a source.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: source ID is required", domain.ErrInvalidInput)
	}
	return s.sources.Get(ctx, id)
}

// List returns all sources ordered by creation time.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	return s.sources.List(ctx)
}

// Chunks returns a source's cached chunks ordered by position.
func (s *SourceService) Chunks(ctx context.Context, id string) ([]domain.Chunk, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: source ID is required", domain.ErrInvalidInput)
	}
	if _, err := s.sources.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.chunks.GetChunks(ctx, id)
}

// Delete removes the source and everything derived from it.
func (s *SourceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: source ID is required", domain.ErrInvalidInput)
	}

	// 1. An unknown source is a no-op success; delete is idempotent.
	if _, err := s.sources.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete source: %w", err)
	}

	// 2. Vectors first, failing closed: if this fails the record stays,
	// so a retry can find the source again and no orphan vectors ever
	// outlive their owning record.
	if err := s.vectors.DeleteBySource(ctx, id); err != nil {
		return fmt.Errorf("delete vectors for source %s: %w", id, err)
	}

	// 3. Cached chunk artifacts, then the record itself.
	if err := s.chunks.DeleteChunks(ctx, id); err != nil {
		return fmt.Errorf("delete chunks for source %s: %w", id, err)
	}
	if err := s.sources.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete source %s: %w", id, err)
	}

	logger.Info("deleted source %s", id)
	return nil
}
