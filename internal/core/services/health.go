package services

import (
	"context"
	"time"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
)

// probeTimeout bounds one dependency probe so a hung provider cannot
// stall the whole health check.
const probeTimeout = 5 * time.Second

// Component names reported by health checks, in probe order.
const (
	componentMetadataStore = "metadata_store"
	componentVectorIndex   = "vector_index"
	componentEmbedding     = "embedding"
	componentGeneration    = "generation"
)

// Ensure HealthService implements the driving port.
var _ driving.HealthChecker = (*HealthService)(nil)

// HealthService probes the pipeline's external dependencies.
type HealthService struct {
	sources  driven.SourceStore
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService
}

// NewHealthService creates a health checker over the given dependencies.
// The providers may be nil when unconfigured; they probe as unavailable.
func NewHealthService(
	sources driven.SourceStore,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
) *HealthService {
	return &HealthService{
		sources:  sources,
		vectors:  vectors,
		embedder: embedder,
		llm:      llm,
	}
}

// Check probes every dependency in a stable order. A failing dependency
// degrades the report; it never returns an error, because a failed probe
// is the answer, not a failure to answer.
func (s *HealthService) Check(ctx context.Context) *driving.HealthReport {
	probes := []struct {
		name  string
		probe func(context.Context) error
	}{
		{componentMetadataStore, s.probeMetadataStore},
		{componentVectorIndex, s.probeVectorIndex},
		{componentEmbedding, s.probeEmbedding},
		{componentGeneration, s.probeGeneration},
	}

	report := &driving.HealthReport{OK: true}
	for _, p := range probes {
		status := driving.ComponentStatus{Name: p.name, OK: true}

		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		if err := p.probe(probeCtx); err != nil {
			status.OK = false
			status.Detail = err.Error()
			report.OK = false
		}
		cancel()

		report.Components = append(report.Components, status)
	}

	return report
}

func (s *HealthService) probeMetadataStore(ctx context.Context) error {
	_, err := s.sources.List(ctx)
	return err
}

func (s *HealthService) probeVectorIndex(ctx context.Context) error {
	if s.vectors == nil {
		return domain.ErrVectorIndexUnavailable
	}
	_, err := s.vectors.Count(ctx)
	return err
}

func (s *HealthService) probeEmbedding(ctx context.Context) error {
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}
	return s.embedder.Ping(ctx)
}

func (s *HealthService) probeGeneration(ctx context.Context) error {
	if s.llm == nil {
		return domain.ErrLLMUnavailable
	}
	return s.llm.Ping(ctx)
}
