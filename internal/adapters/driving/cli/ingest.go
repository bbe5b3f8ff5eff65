package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/extractors"
)

var (
	ingestKind string
	ingestName string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path-or-url]",
	Short: "Ingest a document, web page or video",
	Long: `Submits a source for ingestion and waits for the pipeline to finish.

The origin kind is detected from the location: YouTube links become
videos, other URLs become web pages, everything else is read as a file.
Use --kind to override the detection.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestKind, "kind", "k", "", "origin kind: document, web_page or video (default: detected)")
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "display name override")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	location := args[0]
	kind := domain.OriginKind(ingestKind)
	if ingestKind == "" {
		kind = extractors.KindFor(location)
	}
	if !kind.IsValid() {
		return fmt.Errorf("unknown kind %q: use document, web_page or video", ingestKind)
	}

	// File paths are resolved before submission so the stored location
	// stays valid when re-ingestion runs from another working directory.
	if kind == domain.OriginDocument {
		abs, err := filepath.Abs(location)
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}
		location = abs
	}

	ctx := context.Background()

	src, err := ingestService.Submit(ctx, driving.SubmitRequest{
		Kind:        kind,
		Location:    location,
		DisplayName: ingestName,
	})
	if err != nil {
		return fmt.Errorf("failed to submit source: %w", err)
	}

	cmd.Printf("Ingesting %s (%s)...\n", src.DisplayName, src.ID)
	ingestService.Wait()

	if sourceService == nil {
		return nil
	}

	final, err := sourceService.Get(ctx, src.ID)
	if err != nil {
		return fmt.Errorf("failed to read final status: %w", err)
	}

	switch final.Status {
	case domain.StatusCompleted:
		cmd.Printf("Completed: %d chunks, %d tokens.\n", final.ChunkCount, final.TokenCount)
	case domain.StatusFailed:
		return fmt.Errorf("ingestion failed: %s", final.Error)
	default:
		cmd.Printf("Status: %s\n", final.Status)
	}

	return nil
}
