// Package main is the ragchat entry point. It assembles the driven
// adapters and core services and hands control to the command tree.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/ai"
	configfile "github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/config/file"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/storage/sqlite"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/tokeniser/heuristic"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/tokeniser/tiktoken"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driven/vector/chromem"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driving/cli"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driven"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/services"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors/document"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors/video"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors/webpage"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/logger"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/normalisers/text"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/postprocessors/chunker"
)

// version is set by the release build via -ldflags.
var version = "dev"

func main() {
	// A .env file is a development convenience; absence is fine.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	logger.Init(settings.LogLevel)

	dataDir := settings.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragchat", "data")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	index, err := chromem.NewIndex(dataDir, settings.Embedding.Dimensions)
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}

	chunkerProc, err := chunker.New(tokenCounter(),
		chunker.WithMaxTokens(settings.Chunking.MaxTokens),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		return err
	}

	registry := extractors.NewRegistry(
		document.New(),
		webpage.New(),
		video.New(os.Getenv(services.EnvYouTubeKey)),
	)

	// The providers are optional at startup: commands that need them
	// report unavailability instead of the whole CLI refusing to run.
	embedder, err := ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		logger.Warn("embedding provider unavailable: %v", err)
	}
	llm, err := ai.CreateLLMService(settings.Generation)
	if err != nil {
		logger.Warn("generation provider unavailable: %v", err)
	}

	ingestService := services.NewIngestService(
		store.SourceStore(),
		store.ChunkStore(),
		index,
		embedder,
		registry,
		text.New(),
		chunkerProc,
		*settings,
	)

	answerService := services.NewAnswerService(
		store.SourceStore(),
		index,
		embedder,
		llm,
		*settings,
	)

	if prompts, err := configfile.NewPromptStore(""); err == nil {
		answerService.SetPromptStore(prompts)
	} else {
		logger.Warn("prompt store unavailable, using built-in prompts: %v", err)
	}

	sourceService := services.NewSourceService(store.SourceStore(), store.ChunkStore(), index)
	healthService := services.NewHealthService(store.SourceStore(), index, embedder, llm)

	cli.SetVersion(version)
	cli.Inject(cli.Services{
		Ingestor: ingestService,
		Answer:   answerService,
		Sources:  sourceService,
		Health:   healthService,
		Settings: settingsService,
	})

	return cli.Execute()
}

// tokenCounter loads the BPE tokeniser, falling back to the heuristic
// counter when the encoding data cannot be loaded. Both tokenisers
// produce reconstructable segments; only the token boundaries differ.
func tokenCounter() driven.TokenCounter {
	counter, err := tiktoken.NewCounter(tiktoken.DefaultEncoding)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, counting tokens heuristically: %v", err)
		return heuristic.NewCounter()
	}
	return counter
}
