package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/adapters/driving/watcher"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a folder and ingest new documents",
	Long: `Watches a directory and submits new or changed documents for
ingestion. File events are debounced so editors that write in bursts
trigger one ingestion, not several. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	debounce := time.Duration(domain.DefaultWatchDebounceSec) * time.Second
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Watch.DebounceSeconds > 0 {
			debounce = time.Duration(settings.Watch.DebounceSeconds) * time.Second
		}
	}

	w := watcher.New(ingestService, debounce)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for documents (Ctrl+C to stop)...\n", args[0])
	return w.Watch(ctx, args[0])
}
