// Package ai provides factory functions for creating the AI service
// adapters from settings, with connectivity validation.
package ai

import (
	"context"
	"fmt"
	"time"

	openaiembed "github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/embedding/openai"
	openaillm "github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/llm/openai"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates an embedding service from settings.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrEmbeddingUnavailable)
	}

	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateLLMService creates an LLM service from settings.
func CreateLLMService(settings domain.GenerationSettings) (driven.LLMService, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrLLMUnavailable)
	}

	svc, err := openaillm.NewLLMService(openaillm.Config{
		APIKey: settings.APIKey,
		Model:  settings.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity with a short ping.
func CreateAndValidateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable: %v", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates
// connectivity with a short ping.
func CreateAndValidateLLMService(settings domain.GenerationSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable: %v", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}
