package domain

import "fmt"

// Chunk is one retrievable unit of text. Chunk identifiers are stable
// across re-runs for the same content: they embed the owning source ID
// and the chunk's sequence index.
type Chunk struct {
	// ID is unique within the knowledge base, formed from the source ID
	// and the chunk position.
	ID string

	// SourceID is the owning source. A chunk never outlives its source.
	SourceID string

	// Text is the bounded text segment.
	Text string

	// TokenCount is the segment length in the tokenisation unit used
	// for bounding.
	TokenCount int

	// Position is the 0-based ordinal within the source. The ordered
	// concatenation of a source's chunks, minus overlaps, reconstructs
	// the cleaned source text.
	Position int
}

// ChunkID derives the stable chunk identifier for a source and position.
func ChunkID(sourceID string, position int) string {
	return fmt.Sprintf("%s_%d", sourceID, position)
}

// ChunkMetadata is the citation payload attached to every vector-index
// entry. It is sufficient to build a citation without a metadata-store
// lookup; the metadata store stays authoritative for display attributes,
// so this copy may go stale between re-ingestions.
type ChunkMetadata struct {
	// SourceID is the owning source.
	SourceID string

	// Kind is the source's origin kind.
	Kind OriginKind

	// DisplayName is the source display name at ingestion time.
	DisplayName string

	// Position is the chunk's ordinal within the source.
	Position int
}

// EmbeddingRecord is one vector-index entry, keyed by chunk ID.
type EmbeddingRecord struct {
	// ChunkID is the primary key in the index.
	ChunkID string

	// Vector is the embedding of the chunk text.
	Vector []float32

	// Text is the chunk text, stored alongside the vector so retrieval
	// can build context blocks without a second lookup.
	Text string

	// Metadata carries the citation payload.
	Metadata ChunkMetadata
}

// RetrievedChunk is one nearest-neighbour query hit.
type RetrievedChunk struct {
	// ChunkID identifies the matched chunk.
	ChunkID string

	// Text is the chunk text as stored in the index.
	Text string

	// Score is the similarity to the query vector, higher is closer.
	Score float64

	// Metadata is the citation payload stored with the vector.
	Metadata ChunkMetadata
}
