// Package chunker splits cleaned text into overlapping, token-bounded
// chunks, the unit of retrieval for the whole pipeline.
package chunker

import (
	"strings"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// Chunker produces token-bounded chunks over a TokenCounter. Boundaries
// prefer natural breakpoints (paragraph, line, sentence, word) inside the
// token budget and fall back to a hard cut. Identical input and
// parameters always yield identical boundaries; chunk IDs and the
// content-hash idempotence check depend on that.
type Chunker struct {
	counter   driven.TokenCounter
	maxTokens int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxTokens sets the token budget for one chunk.
func WithMaxTokens(n int) Option {
	return func(c *Chunker) {
		c.maxTokens = n
	}
}

// WithOverlap sets how many tokens adjacent chunks share.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		c.overlap = n
	}
}

// New creates a chunker with the given options. Parameter combinations
// that could loop or produce unbounded chunks are rejected with
// domain.ErrInvalidChunkConfig.
func New(counter driven.TokenCounter, opts ...Option) (*Chunker, error) {
	c := &Chunker{
		counter:   counter,
		maxTokens: domain.DefaultMaxChunkTokens,
		overlap:   domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	cfg := domain.ChunkingSettings{MaxTokens: c.maxTokens, Overlap: c.overlap}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// MaxTokens returns the configured chunk budget.
func (c *Chunker) MaxTokens() int {
	return c.maxTokens
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into ordered chunks owned by sourceID. Empty or
// whitespace-only text yields no chunks; the ingestion workflow treats
// that as an extraction failure, never a successful empty ingestion.
//
// Every boundary falls between token segments, so the ordered
// concatenation of the chunks, minus each chunk's leading overlap,
// reproduces text exactly.
func (c *Chunker) Chunk(sourceID, text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	segs := c.counter.Segments(text)
	n := len(segs)
	if n == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, n/(c.maxTokens-c.overlap)+1)
	start := 0
	position := 0

	for {
		end := start + c.maxTokens
		if end > n {
			end = n
		}

		cut := end
		if end < n {
			if j, ok := c.boundary(segs, start, end); ok {
				cut = j
			}
		}

		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(sourceID, position),
			SourceID:   sourceID,
			Text:       strings.Join(segs[start:cut], ""),
			TokenCount: cut - start,
			Position:   position,
		})

		if cut >= n {
			return chunks
		}
		start = cut - c.overlap
		position++
	}
}

// breakChecks order the preferred boundary kinds: paragraph break, line
// break, sentence end, then any word gap. left is the text just before
// the candidate boundary, right the segment just after it.
var breakChecks = []func(left, right string) bool{
	func(left, right string) bool {
		return strings.HasSuffix(left, "\n\n") || strings.HasPrefix(right, "\n\n")
	},
	func(left, right string) bool {
		return strings.HasSuffix(left, "\n") || strings.HasPrefix(right, "\n")
	},
	endsSentence,
	func(left, right string) bool {
		return strings.HasSuffix(left, " ") || strings.HasPrefix(right, " ") ||
			strings.HasSuffix(left, "\t") || strings.HasPrefix(right, "\t")
	},
}

func endsSentence(left, right string) bool {
	for _, sep := range []string{". ", "! ", "? "} {
		if strings.HasSuffix(left, sep) {
			return true
		}
	}
	// Tokenisers often attach the following space to the next segment
	// (".", " The"), so also accept terminal punctuation right before a
	// segment that opens with whitespace.
	if strings.HasPrefix(right, " ") || strings.HasPrefix(right, "\n") {
		for _, p := range []string{".", "!", "?"} {
			if strings.HasSuffix(left, p) {
				return true
			}
		}
	}
	return false
}

// boundary searches the window for the latest natural breakpoint, trying
// each break kind in preference order. A breakpoint is only usable when
// it advances past the next window's start, otherwise chunking would
// stall; in that case the caller hard-cuts at the token budget.
func (c *Chunker) boundary(segs []string, start, end int) (int, bool) {
	min := start + c.overlap + 1
	if min > end {
		return 0, false
	}

	for _, check := range breakChecks {
		for j := end; j >= min; j-- {
			left := segs[j-1]
			if j-1 > start {
				left = segs[j-2] + left
			}
			if check(left, segs[j]) {
				return j, true
			}
		}
	}
	return 0, false
}
