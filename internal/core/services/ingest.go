package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/logger"
)

// sourceNamespace seeds deterministic source IDs, so identical input
// maps to the same source across processes and installs.
var sourceNamespace = uuid.MustParse("c7a1d1e8-93f2-4b5a-8e19-5f2b6d4c8a37")

// Ensure IngestService implements the driving port.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService runs the ingestion workflow: extract, clean, chunk,
// embed, store. Each source is worked on by at most one workflow
// instance at a time; the source ID is the mutual-exclusion key.
type IngestService struct {
	sources    driven.SourceStore
	chunks     driven.ChunkStore
	vectors    driven.VectorIndex
	embedder   driven.EmbeddingService
	extractors driven.ExtractorRegistry
	normaliser driven.Normaliser
	chunker    driven.Chunker

	batchSize   int
	maxAttempts int

	mu       sync.Mutex
	inflight map[string]struct{}
	sem      chan struct{}
	wg       sync.WaitGroup
}

// NewIngestService wires the workflow's collaborators. The settings
// bound the embedding batch size, the worker pool and the retry sweep.
func NewIngestService(
	sources driven.SourceStore,
	chunks driven.ChunkStore,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
	extractors driven.ExtractorRegistry,
	normaliser driven.Normaliser,
	chunker driven.Chunker,
	settings domain.Settings,
) *IngestService {
	workers := settings.Ingestion.Workers
	if workers <= 0 {
		workers = domain.DefaultWorkers
	}
	batchSize := settings.Embedding.BatchSize
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}

	return &IngestService{
		sources:     sources,
		chunks:      chunks,
		vectors:     vectors,
		embedder:    embedder,
		extractors:  extractors,
		normaliser:  normaliser,
		chunker:     chunker,
		batchSize:   batchSize,
		maxAttempts: settings.Ingestion.MaxAttempts,
		inflight:    make(map[string]struct{}),
		sem:         make(chan struct{}, workers),
	}
}

// Submit registers the source and dispatches its ingestion on a worker.
// It returns with the record in its pending state; callers poll the
// source status or call Wait for completion.
func (s *IngestService) Submit(ctx context.Context, req driving.SubmitRequest) (*domain.Source, error) {
	if !req.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown origin kind %q", domain.ErrUnsupportedType, req.Kind)
	}
	if strings.TrimSpace(req.Location) == "" {
		return nil, fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}

	id, err := s.sourceID(req.Kind, req.Location)
	if err != nil {
		return nil, err
	}

	if !s.reserve(id) {
		return nil, fmt.Errorf("%w: source %s", domain.ErrIngestionInProgress, id)
	}

	src, err := s.register(ctx, id, req)
	if err != nil {
		s.release(id)
		return nil, err
	}

	s.dispatch(src.ID)

	return src, nil
}

// Wait blocks until every dispatched ingestion has finished. One-shot
// commands use it to hold the process open for their submissions.
func (s *IngestService) Wait() {
	s.wg.Wait()
}

// Sweep re-runs ingestion for failed sources that still have attempts
// left. Retries run synchronously so the report can say what recovered;
// sweeps trigger on demand only, never on a timer.
func (s *IngestService) Sweep(ctx context.Context) (*driving.SweepReport, error) {
	all, err := s.sources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	report := &driving.SweepReport{}
	for i := range all {
		src := &all[i]
		if src.Status != domain.StatusFailed {
			continue
		}
		if s.maxAttempts > 0 && src.Attempts >= s.maxAttempts {
			report.Skipped++
			continue
		}
		if !s.reserve(src.ID) {
			// Already being ingested; leave it to the running instance.
			continue
		}

		logger.Info("sweep retrying source %s (attempt %d)", src.ID, src.Attempts+1)
		report.Retried = append(report.Retried, src.ID)
		s.run(ctx, src.ID)
		s.release(src.ID)

		if after, err := s.sources.Get(ctx, src.ID); err == nil && after.Status == domain.StatusCompleted {
			report.Recovered++
		}
	}

	return report, nil
}

// sourceID derives the deterministic identity of a source. Documents key
// on their raw content, so the same file resubmitted from any path maps
// to the same record; links key on the location itself.
func (s *IngestService) sourceID(kind domain.OriginKind, location string) (string, error) {
	key := location
	if kind == domain.OriginDocument {
		raw, err := os.ReadFile(location)
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", domain.ErrExtraction, location, err)
		}
		sum := sha256.Sum256(raw)
		key = hex.EncodeToString(sum[:])
	}
	return uuid.NewSHA1(sourceNamespace, []byte(string(kind)+":"+key)).String(), nil
}

// register creates or resets the source record at pending. A
// re-submission keeps the creation time and the last completed run's
// hash and counts, so the workflow can skip re-embedding unchanged
// content, but starts over on attempts.
func (s *IngestService) register(ctx context.Context, id string, req driving.SubmitRequest) (*domain.Source, error) {
	src := &domain.Source{
		ID:          id,
		Kind:        req.Kind,
		DisplayName: req.DisplayName,
		Location:    req.Location,
		Status:      domain.StatusPending,
	}

	existing, err := s.sources.Get(ctx, id)
	switch {
	case err == nil:
		src.CreatedAt = existing.CreatedAt
		src.ContentHash = existing.ContentHash
		src.ChunkCount = existing.ChunkCount
		src.TokenCount = existing.TokenCount
		if src.DisplayName == "" {
			src.DisplayName = existing.DisplayName
		}
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("register source: %w", err)
	}

	if src.DisplayName == "" {
		src.DisplayName = defaultDisplayName(src.Kind, src.Location)
	}

	if err := s.sources.Save(ctx, src); err != nil {
		return nil, fmt.Errorf("register source: %w", err)
	}

	return src, nil
}

// reserve claims the source for one workflow instance. The claim is held
// from submission until the run finishes.
func (s *IngestService) reserve(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *IngestService) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
}

// dispatch runs the workflow on a worker goroutine. The submitting
// request's context ends with its response, so the pipeline runs under
// its own.
func (s *IngestService) dispatch(id string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release(id)
		s.sem <- struct{}{}
		defer func() { <-s.sem }()
		s.run(context.Background(), id)
	}()
}

// run executes the ingestion workflow for one source. Every exit path
// leaves the source in a terminal status; failures are recorded on the
// record, never returned, because the submitter has long since moved on.
func (s *IngestService) run(ctx context.Context, id string) {
	logger.Info("ingesting source %s", id)

	// 1. Enter the pipeline. Legal from pending (submission) and from
	// failed (retry sweep).
	if err := s.sources.UpdateStatus(ctx, id, domain.StatusExtracting, ""); err != nil {
		logger.Error("source %s could not enter extraction: %v", id, err)
		return
	}

	src, err := s.sources.Get(ctx, id)
	if err != nil {
		logger.Error("source %s disappeared before extraction: %v", id, err)
		return
	}

	// 2. Extract raw text with the extractor for the source's kind.
	extraction, err := s.extract(ctx, src)
	if err != nil {
		s.fail(ctx, id, err)
		return
	}
	s.refreshDisplayName(ctx, src, extraction)

	// 3. Normalise. Deterministic and free of I/O; the content hash
	// depends on it.
	text := s.normaliser.Clean(extraction.Text)
	if strings.TrimSpace(text) == "" {
		s.fail(ctx, id, fmt.Errorf("%w: %s", domain.ErrEmptyContent, src.Location))
		return
	}

	// 4. Hash the cleaned text. Unchanged content whose vectors are
	// still in place completes without re-embedding.
	hash := contentHash(text)
	if s.shortCircuit(ctx, src, hash) {
		return
	}

	// 5. Chunk.
	if err := s.sources.UpdateStatus(ctx, id, domain.StatusChunking, ""); err != nil {
		s.fail(ctx, id, err)
		return
	}
	chunks := s.chunker.Chunk(id, text)
	if len(chunks) == 0 {
		s.fail(ctx, id, fmt.Errorf("%w: no chunks produced", domain.ErrEmptyContent))
		return
	}

	// 6. Embed every chunk before any upsert, so a reader never observes
	// a half-stored source.
	if err := s.sources.UpdateStatus(ctx, id, domain.StatusEmbedding, ""); err != nil {
		s.fail(ctx, id, err)
		return
	}
	records, err := s.embedAll(ctx, src, chunks)
	if err != nil {
		s.fail(ctx, id, err)
		return
	}

	// 7. Commit the vectors, verify the index and record the result.
	if err := s.store(ctx, src, hash, chunks, records); err != nil {
		if errors.Is(err, domain.ErrSourceSuperseded) {
			logger.Warn("source %s was deleted during ingestion; its vectors were rolled back", id)
			return
		}
		s.fail(ctx, id, err)
		return
	}

	logger.Info("source %s completed with %d chunks", id, len(chunks))
}

// extract resolves the extractor for the source's kind and runs it.
func (s *IngestService) extract(ctx context.Context, src *domain.Source) (*driven.Extraction, error) {
	extractor, err := s.extractors.ForKind(src.Kind)
	if err != nil {
		return nil, err
	}
	return extractor.Extract(ctx, src.Location)
}

// refreshDisplayName adopts the extractor-discovered title when the
// record still carries the submission placeholder. A caller-supplied
// name always wins.
func (s *IngestService) refreshDisplayName(ctx context.Context, src *domain.Source, extraction *driven.Extraction) {
	if extraction.DisplayName == "" || src.DisplayName != defaultDisplayName(src.Kind, src.Location) {
		return
	}
	src.DisplayName = extraction.DisplayName
	if err := s.sources.Save(ctx, src); err != nil {
		logger.Warn("source %s display name not updated: %v", src.ID, err)
	}
}

// shortCircuit completes the run without re-embedding when the cleaned
// content matches the last completed run and the index still holds the
// full vector set. Content matching another source's completed run still
// gets its own vectors; sharing them would break per-source deletion.
func (s *IngestService) shortCircuit(ctx context.Context, src *domain.Source, hash string) bool {
	if src.ContentHash != hash || src.ChunkCount == 0 {
		if prior, err := s.sources.GetByContentHash(ctx, hash, domain.StatusCompleted); err == nil && prior.ID != src.ID {
			logger.Debug("source %s duplicates the content of completed source %s", src.ID, prior.ID)
		}
		return false
	}

	indexed, err := s.vectors.CountBySource(ctx, src.ID)
	if err != nil || indexed != src.ChunkCount {
		return false
	}

	if err := s.sources.UpdateStatus(ctx, src.ID, domain.StatusCompleted, ""); err != nil {
		s.fail(ctx, src.ID, fmt.Errorf("completing unchanged source: %w", err))
		return true
	}

	logger.Info("source %s is unchanged; re-embedding skipped", src.ID)
	return true
}

// embedAll embeds the chunks in batches and pairs every vector with its
// chunk. Nothing reaches the index from here; the all-or-nothing upsert
// needs the complete set first.
func (s *IngestService) embedAll(ctx context.Context, src *domain.Source, chunks []domain.Chunk) ([]domain.EmbeddingRecord, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	records := make([]domain.EmbeddingRecord, 0, len(chunks))

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding chunks %d-%d of %d: %w", start, end-1, len(chunks), err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: provider returned %d embeddings for %d chunks",
				domain.ErrConsistency, len(vectors), len(batch))
		}

		for i, chunk := range batch {
			records = append(records, domain.EmbeddingRecord{
				ChunkID: chunk.ID,
				Vector:  vectors[i],
				Text:    chunk.Text,
				Metadata: domain.ChunkMetadata{
					SourceID:    src.ID,
					Kind:        src.Kind,
					DisplayName: src.DisplayName,
					Position:    chunk.Position,
				},
			})
		}
	}

	return records, nil
}

// store commits the vectors, verifies the index holds exactly the chunk
// set, detects a deletion that raced the run, and records the result.
func (s *IngestService) store(ctx context.Context, src *domain.Source, hash string, chunks []domain.Chunk, records []domain.EmbeddingRecord) error {
	// Changed content may produce fewer chunks than the previous run,
	// and a per-ID overwrite would leave the stale tail behind, so clear
	// the old vectors first.
	if src.ChunkCount > 0 && src.ContentHash != hash {
		if err := s.vectors.DeleteBySource(ctx, src.ID); err != nil {
			return fmt.Errorf("clearing stale vectors: %w", err)
		}
	}

	if err := s.vectors.Upsert(ctx, records); err != nil {
		return fmt.Errorf("upserting vectors: %w", err)
	}

	indexed, err := s.vectors.CountBySource(ctx, src.ID)
	if err != nil {
		return fmt.Errorf("verifying vector count: %w", err)
	}
	if indexed != len(chunks) {
		s.rollbackVectors(ctx, src.ID)
		return fmt.Errorf("%w: index holds %d vectors for %d chunks", domain.ErrConsistency, indexed, len(chunks))
	}

	// A deletion that raced this run wins: roll back rather than
	// resurrect the source.
	if _, err := s.sources.Get(ctx, src.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.rollbackVectors(ctx, src.ID)
			if derr := s.chunks.DeleteChunks(ctx, src.ID); derr != nil {
				logger.Error("source %s chunk cleanup failed: %v", src.ID, derr)
			}
			return domain.ErrSourceSuperseded
		}
		return fmt.Errorf("rechecking source: %w", err)
	}

	if err := s.chunks.SaveChunks(ctx, src.ID, chunks); err != nil {
		return fmt.Errorf("caching chunks: %w", err)
	}

	tokens := 0
	for _, chunk := range chunks {
		tokens += chunk.TokenCount
	}
	if err := s.sources.UpdateResult(ctx, src.ID, hash, len(chunks), tokens); err != nil {
		return fmt.Errorf("recording result: %w", err)
	}
	if err := s.sources.UpdateStatus(ctx, src.ID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("completing source: %w", err)
	}

	return nil
}

func (s *IngestService) rollbackVectors(ctx context.Context, sourceID string) {
	if err := s.vectors.DeleteBySource(ctx, sourceID); err != nil {
		logger.Error("source %s vector rollback failed: %v", sourceID, err)
	}
}

// fail records a terminal failure on the source. The workflow never
// leaves a source in a non-terminal status after it stops running.
func (s *IngestService) fail(ctx context.Context, id string, cause error) {
	logger.Warn("ingestion of source %s failed: %v", id, cause)
	if err := s.sources.UpdateStatus(ctx, id, domain.StatusFailed, cause.Error()); err != nil {
		logger.Error("source %s could not be marked failed: %v", id, err)
	}
	if err := s.sources.IncrementAttempts(ctx, id); err != nil {
		logger.Error("source %s attempt count not recorded: %v", id, err)
	}
}

// contentHash fingerprints cleaned text for the no-op re-ingestion check.
func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// defaultDisplayName is the placeholder used until extraction discovers
// something better: the file name for documents, the location for links.
func defaultDisplayName(kind domain.OriginKind, location string) string {
	if kind == domain.OriginDocument {
		return filepath.Base(location)
	}
	return location
}
