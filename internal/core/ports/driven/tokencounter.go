package driven

// TokenCounter measures and segments text in the tokenisation unit used
// to bound chunk sizes against provider limits.
//
// Implementations must be deterministic: identical input always yields
// identical segmentation, because chunk IDs and the re-ingestion short
// circuit both depend on stable chunk boundaries.
type TokenCounter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Segments splits text into per-token segments such that
	// concatenating them in order reproduces text exactly. Chunk
	// boundaries always fall between segments, which is what makes
	// chunk overlap removal lossless.
	Segments(text string) []string
}
