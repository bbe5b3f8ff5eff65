// Package extractors turns sources into raw text, one extractor per
// origin kind: uploaded documents, web pages and video transcripts.
//
// Extractors are collaborators at the edge of the pipeline. They do the
// format-specific reading and nothing else; cleaning, chunking and
// embedding happen in the core workflow. Failures wrap
// domain.ErrExtraction or domain.ErrEmptyContent and are terminal for
// the ingestion attempt that hit them.
package extractors
