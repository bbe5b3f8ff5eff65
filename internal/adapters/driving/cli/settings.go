package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the configuration file. Secrets are read from the
environment and never written to the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE:  runSettingsShow,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runSettingsPath,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Changes one configuration value and writes the file. Keys use the
dotted form shown by 'ragchat settings show', e.g. chunking.max_tokens
or retrieval.top_k.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Printf("  data_dir: %s\n", settings.DataDir)
	cmd.Printf("  logging.level: %s\n", settings.LogLevel)
	cmd.Println()

	cmd.Println("[chunking]")
	cmd.Printf("  max_tokens: %d\n", settings.Chunking.MaxTokens)
	cmd.Printf("  overlap: %d\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[embedding]")
	cmd.Printf("  model: %s\n", settings.Embedding.Model)
	cmd.Printf("  dimensions: %d\n", settings.Embedding.Dimensions)
	cmd.Printf("  batch_size: %d\n", settings.Embedding.BatchSize)
	if settings.Embedding.APIKey != "" {
		cmd.Printf("  api key: %s (from environment)\n", maskAPIKey(settings.Embedding.APIKey))
	} else {
		cmd.Printf("  api key: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[generation]")
	cmd.Printf("  model: %s\n", settings.Generation.Model)
	cmd.Printf("  temperature: %.2f\n", settings.Generation.Temperature)
	cmd.Printf("  max_tokens: %d\n", settings.Generation.MaxTokens)
	cmd.Println()

	cmd.Println("[retrieval]")
	cmd.Printf("  top_k: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  min_score: %.2f\n", settings.Retrieval.MinScore)
	cmd.Println()

	cmd.Println("[ingestion]")
	cmd.Printf("  max_attempts: %d\n", settings.Ingestion.MaxAttempts)
	cmd.Printf("  workers: %d\n", settings.Ingestion.Workers)
	cmd.Println()

	cmd.Println("[server]")
	cmd.Printf("  addr: %s\n", settings.Server.Addr)
	cmd.Println()

	cmd.Println("[watch]")
	cmd.Printf("  debounce_seconds: %d\n", settings.Watch.DebounceSeconds)
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.Path())
	return nil
}

func runSettingsPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println(settingsService.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	switch key {
	case "data_dir":
		settings.DataDir = value
	case "logging.level":
		settings.LogLevel = value
	case "chunking.max_tokens":
		settings.Chunking.MaxTokens, err = strconv.Atoi(value)
	case "chunking.overlap":
		settings.Chunking.Overlap, err = strconv.Atoi(value)
	case "embedding.model":
		settings.Embedding.Model = value
	case "embedding.dimensions":
		settings.Embedding.Dimensions, err = strconv.Atoi(value)
	case "embedding.batch_size":
		settings.Embedding.BatchSize, err = strconv.Atoi(value)
	case "generation.model":
		settings.Generation.Model = value
	case "generation.temperature":
		var temp float64
		temp, err = strconv.ParseFloat(value, 32)
		settings.Generation.Temperature = float32(temp)
	case "generation.max_tokens":
		settings.Generation.MaxTokens, err = strconv.Atoi(value)
	case "retrieval.top_k":
		settings.Retrieval.TopK, err = strconv.Atoi(value)
	case "retrieval.min_score":
		settings.Retrieval.MinScore, err = strconv.ParseFloat(value, 64)
	case "ingestion.max_attempts":
		settings.Ingestion.MaxAttempts, err = strconv.Atoi(value)
	case "ingestion.workers":
		settings.Ingestion.Workers, err = strconv.Atoi(value)
	case "server.addr":
		settings.Server.Addr = value
	case "watch.debounce_seconds":
		settings.Watch.DebounceSeconds, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("unknown settings key %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
