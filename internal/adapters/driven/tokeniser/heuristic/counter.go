// Package heuristic approximates token counts as four characters per
// token, the common rule of thumb for English prose. It needs no
// encoding data, so it always works offline.
package heuristic

import "github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"

// CharsPerToken is the approximation ratio.
const CharsPerToken = 4

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// Counter segments text into fixed-width rune cells. The cells partition
// the text, so chunk boundaries stay lossless, and the segmentation is
// trivially deterministic.
type Counter struct{}

// NewCounter creates a heuristic counter.
func NewCounter() *Counter {
	return &Counter{}
}

// Count returns the approximate token count for text.
func (c *Counter) Count(text string) int {
	runes := []rune(text)
	return (len(runes) + CharsPerToken - 1) / CharsPerToken
}

// Segments splits text into cells of CharsPerToken runes; the final cell
// may be shorter.
func (c *Counter) Segments(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	segs := make([]string, 0, (len(runes)+CharsPerToken-1)/CharsPerToken)
	for start := 0; start < len(runes); start += CharsPerToken {
		end := start + CharsPerToken
		if end > len(runes) {
			end = len(runes)
		}
		segs = append(segs, string(runes[start:end]))
	}
	return segs
}
