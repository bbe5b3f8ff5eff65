package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage knowledge base sources",
	Long:  `List ingested sources, inspect their status, or delete them.`,
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sources",
	RunE:  runSourcesList,
}

var sourcesStatusCmd = &cobra.Command{
	Use:   "status [source-id]",
	Short: "Show a source's ingestion status",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesStatus,
}

var sourcesDeleteCmd = &cobra.Command{
	Use:   "delete [source-id]",
	Short: "Delete a source and its indexed content",
	Long: `Removes the source's vectors, cached chunks and metadata record.
Queries after the deletion will no longer cite this source.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourcesDelete,
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesStatusCmd)
	sourcesCmd.AddCommand(sourcesDeleteCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runSourcesList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()

	sources, err := sourceService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources in the knowledge base.")
		return nil
	}

	cmd.Println("Sources:")
	cmd.Println()
	for i := range sources {
		cmd.Printf("  %s\n", sources[i].ID)
		cmd.Printf("    Name:   %s\n", sources[i].DisplayName)
		cmd.Printf("    Kind:   %s\n", sources[i].Kind)
		cmd.Printf("    Status: %s\n", sources[i].Status)
		if sources[i].Status == domain.StatusCompleted {
			cmd.Printf("    Chunks: %d\n", sources[i].ChunkCount)
		}
		if sources[i].Status == domain.StatusFailed && sources[i].Error != "" {
			cmd.Printf("    Error:  %s\n", sources[i].Error)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d sources\n", len(sources))
	return nil
}

func runSourcesStatus(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sourceID := args[0]
	ctx := context.Background()

	src, err := sourceService.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("failed to get source: %w", err)
	}

	cmd.Printf("Source: %s\n\n", src.ID)
	cmd.Printf("  Name:      %s\n", src.DisplayName)
	cmd.Printf("  Kind:      %s\n", src.Kind)
	cmd.Printf("  Location:  %s\n", src.Location)
	cmd.Printf("  Status:    %s\n", src.Status)
	if src.Error != "" {
		cmd.Printf("  Error:     %s\n", src.Error)
	}
	cmd.Printf("  Chunks:    %d\n", src.ChunkCount)
	cmd.Printf("  Tokens:    %d\n", src.TokenCount)
	cmd.Printf("  Attempts:  %d\n", src.Attempts)
	cmd.Printf("  Created:   %s\n", src.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:   %s\n", src.UpdatedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func runSourcesDelete(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sourceID := args[0]
	ctx := context.Background()

	if err := sourceService.Delete(ctx, sourceID); err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}

	cmd.Printf("Source %s deleted.\n", sourceID)
	return nil
}
