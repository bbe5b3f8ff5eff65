// Package text cleans extracted text of layout boilerplate before
// chunking: page furniture, dot leaders, stray entities, whitespace.
package text

import (
	"html"
	"regexp"
	"strings"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser is the deterministic cleaning pipeline applied to every
// extracted text. The cleaned output feeds the content hash that detects
// no-op re-ingestion, so no step here may depend on anything but the
// input text.
type Normaliser struct{}

// New creates the text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Pre-compiled regular expressions for the cleaning passes.
var (
	pageOfLabel    = regexp.MustCompile(`(?i)\bpage\s+\d+\s+of\s+\d+\b`)
	pageNumberLine = regexp.MustCompile(`(?m)^\s*\d{1,4}\s*$`)
	copyrightLine  = regexp.MustCompile(`(?i)(©|\(c\))\s*\d{4}[^\n]*`)
	dotLeaders     = regexp.MustCompile(`\.{4,}`)
	multiSpaces    = regexp.MustCompile(`[ \t]+`)
)

// Clean normalises extracted text: decodes stray HTML entities, strips
// page furniture ("Page 3 of 12", bare page-number lines, copyright
// lines), collapses dot leaders and runs of spaces, and drops empty
// lines. Line breaks are preserved so the chunker can prefer them as
// boundaries.
func (n *Normaliser) Clean(text string) string {
	if text == "" {
		return ""
	}

	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = pageOfLabel.ReplaceAllString(text, "")
	text = pageNumberLine.ReplaceAllString(text, "")
	text = copyrightLine.ReplaceAllString(text, "")
	text = dotLeaders.ReplaceAllString(text, " ")
	text = multiSpaces.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
