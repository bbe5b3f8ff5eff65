package driven

import (
	"context"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

// Extraction is the raw text pulled out of a source, before cleaning.
type Extraction struct {
	// Text is the raw extracted text.
	Text string

	// DisplayName is the best-effort name discovered during extraction:
	// a filename, a page title or a video title. Empty when the
	// extractor found nothing better than what the caller already has.
	DisplayName string

	// Attributes carries extractor-specific details worth keeping on the
	// source record, such as page counts or video channel names.
	Attributes map[string]string
}

// Extractor produces raw text for one origin kind. Failures wrap
// domain.ErrExtraction (unreadable, unsupported, unreachable) or
// domain.ErrEmptyContent (nothing usable extracted); both are terminal
// for the ingestion attempt.
type Extractor interface {
	// Kind returns the origin kind this extractor handles.
	Kind() domain.OriginKind

	// Extract pulls the raw text out of the source location: a file
	// path for documents, a URL for web pages and videos.
	Extract(ctx context.Context, location string) (*Extraction, error)
}

// ExtractorRegistry resolves the extractor for an origin kind. The
// mapping is total and explicit over the known kinds; an unknown kind
// returns domain.ErrUnsupportedType.
type ExtractorRegistry interface {
	// ForKind returns the extractor registered for the kind.
	ForKind(kind domain.OriginKind) (Extractor, error)
}
