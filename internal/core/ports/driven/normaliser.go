package driven

// Normaliser cleans extracted text before chunking: boilerplate and
// whitespace removal. Implementations must be deterministic and free of
// I/O, because the cleaned text feeds the content hash that detects
// no-op re-ingestion.
type Normaliser interface {
	// Clean returns the normalised text.
	Clean(text string) string
}
