package domain

import "time"

const unknownDescription = "Unknown"

// OriginKind identifies where a source's raw text comes from.
type OriginKind string

// Available origin kinds. The mapping from kind to extractor is total and
// explicit; there is no dynamic dispatch.
const (
	// OriginDocument is an uploaded file (PDF, DOCX, XLSX, Markdown, plain text).
	OriginDocument OriginKind = "document"

	// OriginWebPage is a submitted web page URL.
	OriginWebPage OriginKind = "web_page"

	// OriginVideo is a submitted video URL with a fetchable transcript.
	OriginVideo OriginKind = "video"
)

// IsValid returns true if the origin kind is recognised.
func (k OriginKind) IsValid() bool {
	switch k {
	case OriginDocument, OriginWebPage, OriginVideo:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k OriginKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the kind.
func (k OriginKind) Description() string {
	switch k {
	case OriginDocument:
		return "Document (uploaded file)"
	case OriginWebPage:
		return "Web Page (URL)"
	case OriginVideo:
		return "Video (transcript)"
	default:
		return unknownDescription
	}
}

// SourceStatus is the lifecycle state of a source inside the ingestion
// workflow. Transitions are forward-only; see CanTransitionTo.
type SourceStatus string

// Lifecycle states, in pipeline order.
const (
	// StatusPending means the source record exists but work has not started.
	StatusPending SourceStatus = "pending"

	// StatusExtracting means the raw text is being extracted.
	StatusExtracting SourceStatus = "extracting"

	// StatusChunking means the cleaned text is being split into chunks.
	StatusChunking SourceStatus = "chunking"

	// StatusEmbedding means chunk embeddings are being computed and stored.
	StatusEmbedding SourceStatus = "embedding"

	// StatusCompleted is the successful terminal state.
	StatusCompleted SourceStatus = "completed"

	// StatusFailed is the failure terminal state. The Error field on the
	// source explains what went wrong. A sweep may retry a failed source.
	StatusFailed SourceStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s SourceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusExtracting, StatusChunking, StatusEmbedding, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the workflow stops at this status.
func (s SourceStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// String returns the string representation.
func (s SourceStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether moving from s to next is a legal
// forward transition. Every state may fail; failed may re-enter the
// pipeline at extracting (used by the retry sweep). Everything else
// is a state error.
func (s SourceStatus) CanTransitionTo(next SourceStatus) bool {
	if next == StatusFailed {
		return !s.IsTerminal() || s == StatusFailed
	}
	switch s {
	case StatusPending:
		return next == StatusExtracting
	case StatusExtracting:
		return next == StatusChunking || next == StatusCompleted
	case StatusChunking:
		return next == StatusEmbedding
	case StatusEmbedding:
		return next == StatusCompleted
	case StatusFailed:
		return next == StatusExtracting
	default:
		return false
	}
}

// Source represents one ingested unit of content: an uploaded file or a
// submitted link. Its identity is derived deterministically from the
// origin kind and content or location, so re-submitting identical input
// reuses the same record.
type Source struct {
	// ID is the deterministic identifier for the source.
	ID string

	// Kind identifies which extractor handles this source.
	Kind OriginKind

	// DisplayName is the best-effort human-readable name: a filename,
	// page title or video title.
	DisplayName string

	// Location is the original file path or URL the source came from.
	Location string

	// ContentHash is the SHA-256 of the cleaned extracted text. Used to
	// detect no-op re-ingestion of identical content.
	ContentHash string

	// Status is the current lifecycle state.
	Status SourceStatus

	// Error holds the failure reason when Status is failed.
	Error string

	// ChunkCount is the number of chunks produced by the last
	// successful ingestion.
	ChunkCount int

	// TokenCount is the total token count across those chunks.
	TokenCount int

	// Attempts counts ingestion runs, bounding how often the sweep
	// will retry a failed source.
	Attempts int

	// CreatedAt is when the source was first submitted.
	CreatedAt time.Time

	// UpdatedAt is when the source record last changed.
	UpdatedAt time.Time
}
