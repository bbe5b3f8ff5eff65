package driving

import (
	"context"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

// AnswerService answers natural-language questions grounded in the
// knowledge base.
type AnswerService interface {
	// Answer embeds the question, retrieves candidate chunks, and
	// produces a cited answer. When retrieval finds nothing usable it
	// returns the fixed insufficient-context answer without calling the
	// generation provider.
	Answer(ctx context.Context, question string, opts domain.QueryOptions) (*domain.Answer, error)
}
