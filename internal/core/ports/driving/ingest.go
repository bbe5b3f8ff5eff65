package driving

import (
	"context"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

// SubmitRequest describes one source to ingest.
type SubmitRequest struct {
	// Kind selects the extractor: document, web_page or video.
	Kind domain.OriginKind

	// Location is the file path (document) or URL (web_page, video).
	Location string

	// DisplayName overrides the extractor-discovered name when set.
	DisplayName string
}

// SweepReport summarises one retry sweep over failed sources.
type SweepReport struct {
	// Retried lists the sources whose ingestion was re-run.
	Retried []string

	// Recovered counts retried sources that reached completed.
	Recovered int

	// Skipped counts failed sources left alone because they reached the
	// attempt cap.
	Skipped int
}

// Ingestor accepts sources into the ingestion workflow.
type Ingestor interface {
	// Submit registers the source and dispatches its ingestion
	// asynchronously. It returns as soon as the source record exists,
	// with the record in its current (usually pending) state.
	// A submission for a source already being ingested fails with
	// domain.ErrIngestionInProgress.
	Submit(ctx context.Context, req SubmitRequest) (*domain.Source, error)

	// Wait blocks until no submitted ingestion remains in flight.
	// Used by one-shot CLI commands and by tests.
	Wait()

	// Sweep re-runs ingestion for failed sources that have attempts
	// left, once per call. It never runs on a timer.
	Sweep(ctx context.Context) (*SweepReport, error)
}
