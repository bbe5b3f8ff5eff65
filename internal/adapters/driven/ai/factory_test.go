package ai

import (
	"errors"
	"strings"
	"testing"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    domain.EmbeddingSettings
		wantErr     error
		errContains string
	}{
		{
			name:        "missing API key returns unavailable",
			settings:    domain.EmbeddingSettings{Model: "text-embedding-3-small"},
			wantErr:     domain.ErrEmbeddingUnavailable,
			errContains: "OPENAI_API_KEY",
		},
		{
			name: "configured settings create service",
			settings: domain.EmbeddingSettings{
				APIKey:     "test-key",
				Model:      "text-embedding-3-small",
				Dimensions: 1536,
			},
		},
		{
			name:     "key alone is enough, defaults fill the rest",
			settings: domain.EmbeddingSettings{APIKey: "test-key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error %v should wrap %v", err, tt.wantErr)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
				if svc != nil {
					t.Error("expected nil service on error")
					svc.Close()
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc == nil {
				t.Fatal("expected non-nil service")
			}
			svc.Close()
		})
	}
}

func TestCreateEmbeddingService_PropagatesSettings(t *testing.T) {
	svc, err := CreateEmbeddingService(domain.EmbeddingSettings{
		APIKey:     "test-key",
		Model:      "text-embedding-3-large",
		Dimensions: 3072,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer svc.Close()

	if got := svc.ModelName(); got != "text-embedding-3-large" {
		t.Errorf("model = %q, want %q", got, "text-embedding-3-large")
	}
	if got := svc.Dimensions(); got != 3072 {
		t.Errorf("dimensions = %d, want %d", got, 3072)
	}
}

func TestCreateEmbeddingService_Defaults(t *testing.T) {
	svc, err := CreateEmbeddingService(domain.EmbeddingSettings{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer svc.Close()

	if got := svc.ModelName(); got != "text-embedding-3-small" {
		t.Errorf("model = %q, want default %q", got, "text-embedding-3-small")
	}
	if got := svc.Dimensions(); got != 1536 {
		t.Errorf("dimensions = %d, want default %d", got, 1536)
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name        string
		settings    domain.GenerationSettings
		wantErr     error
		errContains string
	}{
		{
			name:        "missing API key returns unavailable",
			settings:    domain.GenerationSettings{Model: "gpt-4o"},
			wantErr:     domain.ErrLLMUnavailable,
			errContains: "OPENAI_API_KEY",
		},
		{
			name: "configured settings create service",
			settings: domain.GenerationSettings{
				APIKey: "test-key",
				Model:  "gpt-4o-mini",
			},
		},
		{
			name:     "key alone is enough, defaults fill the rest",
			settings: domain.GenerationSettings{APIKey: "test-key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error %v should wrap %v", err, tt.wantErr)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
				if svc != nil {
					t.Error("expected nil service on error")
					svc.Close()
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc == nil {
				t.Fatal("expected non-nil service")
			}
			svc.Close()
		})
	}
}

func TestCreateLLMService_PropagatesModel(t *testing.T) {
	svc, err := CreateLLMService(domain.GenerationSettings{
		APIKey: "test-key",
		Model:  "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer svc.Close()

	if got := svc.ModelName(); got != "gpt-4o-mini" {
		t.Errorf("model = %q, want %q", got, "gpt-4o-mini")
	}
}

func TestCreateLLMService_DefaultModel(t *testing.T) {
	svc, err := CreateLLMService(domain.GenerationSettings{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer svc.Close()

	if got := svc.ModelName(); got != "gpt-4o" {
		t.Errorf("model = %q, want default %q", got, "gpt-4o")
	}
}

func TestCreateAndValidateEmbeddingService_MissingKey(t *testing.T) {
	// Creation fails before any connectivity check is attempted.
	svc, err := CreateAndValidateEmbeddingService(domain.EmbeddingSettings{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("error %v should wrap ErrEmbeddingUnavailable", err)
	}
	if svc != nil {
		t.Error("expected nil service")
		svc.Close()
	}
}

func TestCreateAndValidateLLMService_MissingKey(t *testing.T) {
	svc, err := CreateAndValidateLLMService(domain.GenerationSettings{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domain.ErrLLMUnavailable) {
		t.Errorf("error %v should wrap ErrLLMUnavailable", err)
	}
	if svc != nil {
		t.Error("expected nil service")
		svc.Close()
	}
}
