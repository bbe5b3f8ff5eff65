package services

import (
	"fmt"
	"os"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
)

// Configuration file keys. Dotted keys map to nested TOML tables.
const (
	keyDataDir         = "data_dir"
	keyLogLevel        = "logging.level"
	keyChunkMaxTokens  = "chunking.max_tokens"
	keyChunkOverlap    = "chunking.overlap"
	keyEmbedModel      = "embedding.model"
	keyEmbedDimensions = "embedding.dimensions"
	keyEmbedBatchSize  = "embedding.batch_size"
	keyGenModel        = "generation.model"
	keyGenTemperature  = "generation.temperature"
	keyGenMaxTokens    = "generation.max_tokens"
	keyRetrieveTopK    = "retrieval.top_k"
	keyRetrieveMin     = "retrieval.min_score"
	keyIngestAttempts  = "ingestion.max_attempts"
	keyIngestWorkers   = "ingestion.workers"
	keyServerAddr      = "server.addr"
	keyWatchDebounce   = "watch.debounce_seconds"
)

// Environment variables. Secrets are environment-only and are never
// written to the configuration file.
const (
	// EnvOpenAIKey authenticates embedding and generation calls.
	EnvOpenAIKey = "OPENAI_API_KEY"

	// EnvYouTubeKey authenticates video metadata lookups.
	EnvYouTubeKey = "YOUTUBE_API_KEY"

	// EnvDataDir overrides the configured data directory.
	EnvDataDir = "RAGCHAT_DATA_DIR"

	// EnvLogLevel overrides the configured log level.
	EnvLogLevel = "RAGCHAT_LOG_LEVEL"
)

// Ensure SettingsService implements the driving port.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService resolves runtime settings by layering the configuration
// file over compiled defaults, and the environment over both.
type SettingsService struct {
	config driven.ConfigStore
}

// NewSettingsService creates a settings service backed by config.
func NewSettingsService(config driven.ConfigStore) *SettingsService {
	return &SettingsService{config: config}
}

// Get returns the effective settings. Keys absent from the configuration
// file keep their defaults; the environment supplies secrets and the
// data directory and log level overrides. Invalid combinations are
// rejected here so every consumer sees validated settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	settings.DataDir = s.getString(keyDataDir, settings.DataDir)
	settings.LogLevel = s.getString(keyLogLevel, settings.LogLevel)

	settings.Chunking.MaxTokens = s.getInt(keyChunkMaxTokens, settings.Chunking.MaxTokens)
	settings.Chunking.Overlap = s.getInt(keyChunkOverlap, settings.Chunking.Overlap)

	settings.Embedding.Model = s.getString(keyEmbedModel, settings.Embedding.Model)
	settings.Embedding.Dimensions = s.getInt(keyEmbedDimensions, settings.Embedding.Dimensions)
	settings.Embedding.BatchSize = s.getInt(keyEmbedBatchSize, settings.Embedding.BatchSize)

	settings.Generation.Model = s.getString(keyGenModel, settings.Generation.Model)
	settings.Generation.Temperature = float32(s.getFloat(keyGenTemperature, float64(settings.Generation.Temperature)))
	settings.Generation.MaxTokens = s.getInt(keyGenMaxTokens, settings.Generation.MaxTokens)

	settings.Retrieval.TopK = s.getInt(keyRetrieveTopK, settings.Retrieval.TopK)
	settings.Retrieval.MinScore = s.getFloat(keyRetrieveMin, settings.Retrieval.MinScore)

	settings.Ingestion.MaxAttempts = s.getInt(keyIngestAttempts, settings.Ingestion.MaxAttempts)
	settings.Ingestion.Workers = s.getInt(keyIngestWorkers, settings.Ingestion.Workers)

	settings.Server.Addr = s.getString(keyServerAddr, settings.Server.Addr)
	settings.Watch.DebounceSeconds = s.getInt(keyWatchDebounce, settings.Watch.DebounceSeconds)

	if dir := os.Getenv(EnvDataDir); dir != "" {
		settings.DataDir = dir
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		settings.LogLevel = level
	}

	apiKey := os.Getenv(EnvOpenAIKey)
	settings.Embedding.APIKey = apiKey
	settings.Generation.APIKey = apiKey

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Save persists everything except secrets to the configuration file.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings must not be nil", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyDataDir, settings.DataDir},
		{keyLogLevel, settings.LogLevel},
		{keyChunkMaxTokens, settings.Chunking.MaxTokens},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyGenModel, settings.Generation.Model},
		{keyGenTemperature, float64(settings.Generation.Temperature)},
		{keyGenMaxTokens, settings.Generation.MaxTokens},
		{keyRetrieveTopK, settings.Retrieval.TopK},
		{keyRetrieveMin, settings.Retrieval.MinScore},
		{keyIngestAttempts, settings.Ingestion.MaxAttempts},
		{keyIngestWorkers, settings.Ingestion.Workers},
		{keyServerAddr, settings.Server.Addr},
		{keyWatchDebounce, settings.Watch.DebounceSeconds},
	}

	for _, v := range values {
		if err := s.config.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.config.Path()
}

// getString reads key from the store, falling back when it is unset or
// empty.
func (s *SettingsService) getString(key, fallback string) string {
	if value := s.config.GetString(key); value != "" {
		return value
	}
	return fallback
}

// getInt reads key from the store, falling back when it is unset. Zero
// is a legal configured value (chunking.overlap), so presence decides,
// not the value.
func (s *SettingsService) getInt(key string, fallback int) int {
	if _, ok := s.config.Get(key); !ok {
		return fallback
	}
	return s.config.GetInt(key)
}

// getFloat reads key from the store, falling back when it is unset.
func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	if _, ok := s.config.Get(key); !ok {
		return fallback
	}
	return s.config.GetFloat(key)
}
