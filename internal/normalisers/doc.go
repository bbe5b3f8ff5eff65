// Package normalisers contains the deterministic text cleaning that runs
// between extraction and chunking.
//
// The text normaliser implements the driven.Normaliser port and feeds the
// content hash used for idempotent re-ingestion, so everything here must
// be pure: same input, same output, no I/O. The html package reduces
// fetched markup to readable text before the text normaliser runs.
package normalisers
