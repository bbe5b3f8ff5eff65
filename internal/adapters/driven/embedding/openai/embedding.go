// Package openai provides an embedding service adapter using the OpenAI API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/ratelimit"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "text-embedding-3-small"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3
)

// Model dimensions for OpenAI embedding models.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL. Can be changed for Azure OpenAI or
	// compatible APIs. Empty uses the OpenAI default.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-3-small).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions overrides the default dimension for the model.
	// Only applicable to text-embedding-3-* models.
	Dimensions int

	// MaxRetries is how many times a transient failure is retried
	// before giving up (default: 3).
	MaxRetries int
}

// EmbeddingService generates embeddings using the OpenAI API.
type EmbeddingService struct {
	client     *openai.Client
	limiter    *ratelimit.Limiter
	model      string
	dimensions int
	maxRetries int
}

// NewEmbeddingService creates a new OpenAI embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
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

	dimensions := cfg.Dimensions
	if dimensions == 0 {
		var ok bool
		dimensions, ok = modelDimensions[cfg.Model]
		if !ok {
			dimensions = 1536 // Default fallback
		}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &EmbeddingService{
		client:     openai.NewClientWithConfig(clientCfg),
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig),
		model:      cfg.Model,
		dimensions: dimensions,
		maxRetries: cfg.MaxRetries,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", domain.ErrProviderUnavailable)
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one API call.
// Transient failures are retried with capped exponential backoff; the
// batch either succeeds whole or not at all.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(s.model),
	}
	// The dimensions parameter only exists on text-embedding-3-* models.
	if strings.HasPrefix(s.model, "text-embedding-3") && s.dimensions > 0 {
		req.Dimensions = s.dimensions
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(ratelimit.Backoff(attempt)):
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := s.client.CreateEmbeddings(ctx, req)
		if err == nil {
			return orderedEmbeddings(resp, len(texts))
		}

		lastErr = err
		status := httpStatus(err)
		if status == http.StatusTooManyRequests {
			s.limiter.RecordRateLimitError(0)
		}
		if !retryable(status, err) {
			return nil, fmt.Errorf("openai: embeddings: %w", err)
		}
	}

	if httpStatus(lastErr) == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: openai embeddings: %v", domain.ErrRateLimited, lastErr)
	}
	return nil, fmt.Errorf("%w: openai embeddings: %v", domain.ErrProviderUnavailable, lastErr)
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by listing models.
// This is a lightweight check that validates the API key without
// running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("%w: openai: %v", domain.ErrProviderUnavailable, err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// orderedEmbeddings rebuilds the result slice in input order using the
// index the API reports.
func orderedEmbeddings(resp openai.EmbeddingResponse, want int) ([][]float32, error) {
	embeddings := make([][]float32, want)
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= want {
			return nil, fmt.Errorf("%w: embedding index %d out of range", domain.ErrProviderUnavailable, data.Index)
		}
		embeddings[data.Index] = data.Embedding
	}
	for i, embedding := range embeddings {
		if embedding == nil {
			return nil, fmt.Errorf("%w: no embedding returned for input %d", domain.ErrProviderUnavailable, i)
		}
	}
	return embeddings, nil
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

// retryable reports whether a failed call is worth retrying. Network
// errors and server-side failures are; auth and request shape errors
// are not.
func retryable(status int, err error) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	case 0:
		// No HTTP status means the request never completed.
		return !errors.Is(err, context.Canceled)
	default:
		return false
	}
}
