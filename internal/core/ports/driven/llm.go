package driven

import "context"

// LLMService generates grounded answers from a retrieval context.
//
// Implementations retry transient provider failures internally with
// bounded backoff; exhaustion surfaces as a domain.ErrProviderUnavailable
// or domain.ErrRateLimited wrapped error, which the query path converts
// into a degraded answer rather than a crash.
type LLMService interface {
	// Chat produces a completion for a system/user message exchange.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float32
}
