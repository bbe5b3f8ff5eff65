package driven

import "github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"

// Chunker splits cleaned text into ordered, token-bounded chunks, the
// unit of retrieval. Implementations must be deterministic: identical
// text and parameters always produce identical chunk boundaries, because
// chunk IDs and the re-ingestion short circuit depend on them.
type Chunker interface {
	// Chunk splits text into ordered chunks owned by sourceID. Empty or
	// whitespace-only text yields no chunks.
	Chunk(sourceID, text string) []domain.Chunk
}
