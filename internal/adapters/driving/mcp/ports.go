package mcp

import (
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers grounded questions.
	Answer driving.AnswerService

	// Sources manages the knowledge base.
	Sources driving.SourceManager

	// Ingestor accepts new sources.
	Ingestor driving.Ingestor
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Sources and Ingestor are optional; their tools report themselves
	// unavailable when missing.
	return nil
}
