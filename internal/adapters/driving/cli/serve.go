package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driving/httpapi"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the JSON HTTP API for ingesting sources and querying the
knowledge base. The server shuts down gracefully on SIGINT or SIGTERM,
draining in-flight requests first.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if ingestService == nil || answerService == nil || sourceService == nil {
		return errors.New("services not configured")
	}

	addr := serveAddr
	var dataDir string
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if addr == "" {
			addr = settings.Server.Addr
		}
		dataDir = settings.DataDir
	}
	if addr == "" {
		addr = domain.DefaultServerAddr
	}

	server := httpapi.NewServer(httpapi.Config{
		Addr:      addr,
		UploadDir: filepath.Join(dataDir, "uploads"),
		Ingestor:  ingestService,
		Answer:    answerService,
		Sources:   sourceService,
		Health:    healthService,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("HTTP API listening on %s\n", addr)
	return server.Run(ctx)
}
