// Package openai provides an LLM service adapter using the OpenAI API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/ratelimit"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel      = "gpt-4o"
	DefaultTimeout    = 120 * time.Second
	DefaultMaxRetries = 3
)

// Config holds configuration for the OpenAI LLM service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL. Can be changed for Azure OpenAI or
	// compatible APIs. Empty uses the OpenAI default.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// MaxRetries is how many times a transient failure is retried
	// before giving up (default: 3).
	MaxRetries int
}

// LLMService generates chat completions using the OpenAI API.
type LLMService struct {
	client     *openai.Client
	limiter    *ratelimit.Limiter
	model      string
	maxRetries int
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &LLMService{
		client:     openai.NewClientWithConfig(clientCfg),
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
	}, nil
}

// Chat produces a completion for the given message exchange. Transient
// failures are retried with capped exponential backoff.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("openai: no messages provided")
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    chatMessages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(ratelimit.Backoff(attempt)):
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("%w: no completion returned", domain.ErrProviderUnavailable)
			}
			return resp.Choices[0].Message.Content, nil
		}

		lastErr = err
		status := httpStatus(err)
		if status == http.StatusTooManyRequests {
			s.limiter.RecordRateLimitError(0)
		}
		if !retryable(status, err) {
			return "", fmt.Errorf("openai: chat completion: %w", err)
		}
	}

	if httpStatus(lastErr) == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: openai chat: %v", domain.ErrRateLimited, lastErr)
	}
	return "", fmt.Errorf("%w: openai chat: %v", domain.ErrProviderUnavailable, lastErr)
}

// ModelName returns the name of the chat model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by listing models.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("%w: openai: %v", domain.ErrProviderUnavailable, err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// httpStatus extracts the HTTP status from an API error, or 0.
func httpStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// retryable reports whether a failed call is worth retrying.
func retryable(status int, err error) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	case 0:
		return !errors.Is(err, context.Canceled)
	default:
		return false
	}
}
