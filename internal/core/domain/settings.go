package domain

import "fmt"

// Default tunables. Chunk sizes bound embedding-provider cost; retrieval
// defaults mirror the interactive query surface.
const (
	DefaultMaxChunkTokens   = 500
	DefaultChunkOverlap     = 50
	DefaultEmbeddingModel   = "text-embedding-3-small"
	DefaultDimensions       = 1536
	DefaultBatchSize        = 100
	DefaultGenerationModel  = "gpt-4o"
	DefaultTemperature      = 0.1
	DefaultAnswerTokens     = 1200
	DefaultTopK             = 5
	DefaultMinScore         = 0.2
	DefaultMaxAttempts      = 3
	DefaultWorkers          = 2
	DefaultServerAddr       = "127.0.0.1:8080"
	DefaultWatchDebounceSec = 2
	DefaultLogLevel         = "info"
)

// ChunkingSettings bound chunk sizes in tokens.
type ChunkingSettings struct {
	// MaxTokens is the upper bound for one chunk.
	MaxTokens int

	// Overlap is how many tokens adjacent chunks share. Must be
	// smaller than MaxTokens.
	Overlap int
}

// Validate rejects parameter combinations that would loop or produce
// unbounded chunks.
func (c ChunkingSettings) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidChunkConfig, c.MaxTokens)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidChunkConfig, c.Overlap)
	}
	if c.Overlap >= c.MaxTokens {
		return fmt.Errorf("%w: overlap %d must be smaller than max tokens %d",
			ErrInvalidChunkConfig, c.Overlap, c.MaxTokens)
	}
	return nil
}

// EmbeddingSettings holds embedding provider configuration. The API key
// is sourced from the environment, never from the settings file.
type EmbeddingSettings struct {
	// Model is the embedding model name.
	Model string

	// Dimensions is the vector width the model produces. Vectors of any
	// other width are rejected by the index as a configuration error.
	Dimensions int

	// BatchSize is how many chunks are embedded per provider call.
	BatchSize int

	// APIKey authenticates against the provider.
	APIKey string `toml:"-"`
}

// GenerationSettings holds generation provider configuration.
type GenerationSettings struct {
	// Model is the chat model used for grounded answers.
	Model string

	// Temperature controls sampling; grounded answers keep it low.
	Temperature float32

	// MaxTokens caps the answer length.
	MaxTokens int

	// APIKey authenticates against the provider.
	APIKey string `toml:"-"`
}

// RetrievalSettings holds query-time defaults.
type RetrievalSettings struct {
	// TopK is the default number of candidate chunks.
	TopK int

	// MinScore is the similarity threshold below which candidates are
	// dropped before grounding.
	MinScore float64
}

// IngestionSettings holds workflow dispatch configuration.
type IngestionSettings struct {
	// MaxAttempts bounds how many times a failed source is re-run.
	MaxAttempts int

	// Workers is the number of concurrent ingestion workers.
	Workers int
}

// ServerSettings holds the HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address for the serve command.
	Addr string
}

// WatchSettings holds folder-watch configuration.
type WatchSettings struct {
	// DebounceSeconds is how long a file must stay quiet before it is
	// submitted for ingestion. Editors often write in bursts.
	DebounceSeconds int
}

// Settings aggregates all runtime configuration.
type Settings struct {
	// DataDir is the root directory for the metadata database, the
	// vector index and cached uploads.
	DataDir string

	// LogLevel selects the logging verbosity.
	LogLevel string

	Chunking   ChunkingSettings
	Embedding  EmbeddingSettings
	Generation GenerationSettings
	Retrieval  RetrievalSettings
	Ingestion  IngestionSettings
	Server     ServerSettings
	Watch      WatchSettings
}

// DefaultSettings returns the settings used when no configuration file
// exists yet.
func DefaultSettings() Settings {
	return Settings{
		LogLevel: DefaultLogLevel,
		Chunking: ChunkingSettings{
			MaxTokens: DefaultMaxChunkTokens,
			Overlap:   DefaultChunkOverlap,
		},
		Embedding: EmbeddingSettings{
			Model:      DefaultEmbeddingModel,
			Dimensions: DefaultDimensions,
			BatchSize:  DefaultBatchSize,
		},
		Generation: GenerationSettings{
			Model:       DefaultGenerationModel,
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultAnswerTokens,
		},
		Retrieval: RetrievalSettings{
			TopK:     DefaultTopK,
			MinScore: DefaultMinScore,
		},
		Ingestion: IngestionSettings{
			MaxAttempts: DefaultMaxAttempts,
			Workers:     DefaultWorkers,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
		Watch: WatchSettings{
			DebounceSeconds: DefaultWatchDebounceSec,
		},
	}
}

// Validate checks the settings for combinations the pipeline cannot run with.
func (s Settings) Validate() error {
	if err := s.Chunking.Validate(); err != nil {
		return err
	}
	if s.Embedding.Dimensions <= 0 {
		return fmt.Errorf("%w: embedding dimensions must be positive", ErrInvalidInput)
	}
	if s.Embedding.BatchSize <= 0 {
		return fmt.Errorf("%w: embedding batch size must be positive", ErrInvalidInput)
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval top K must be positive", ErrInvalidInput)
	}
	if s.Ingestion.Workers <= 0 {
		return fmt.Errorf("%w: ingestion workers must be positive", ErrInvalidInput)
	}
	return nil
}
