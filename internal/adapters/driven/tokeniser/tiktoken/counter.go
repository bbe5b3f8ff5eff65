// Package tiktoken counts tokens with the BPE encodings used by the
// OpenAI embedding and chat models.
package tiktoken

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// DefaultEncoding matches the text-embedding-3 and gpt-4 model families.
const DefaultEncoding = "cl100k_base"

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// Counter is a TokenCounter backed by a tiktoken BPE encoding.
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter loads the named BPE encoding. Loading needs the encoding
// data to be available locally or fetchable; callers fall back to the
// heuristic counter when it isn't.
func NewCounter(encoding string) (*Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return &Counter{encoding: enc}, nil
}

// Count returns the BPE token count for text.
func (c *Counter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// Segments decodes each BPE token back to its byte span. Concatenating
// the segments reproduces text exactly, byte for byte.
func (c *Counter) Segments(text string) []string {
	ids := c.encoding.Encode(text, nil, nil)
	segs := make([]string, len(ids))
	for i, id := range ids {
		segs[i] = c.encoding.Decode([]int{id})
	}
	return segs
}
