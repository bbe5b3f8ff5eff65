package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Retry failed ingestions",
	Long: `Re-runs ingestion for failed sources that still have retry attempts
left. The sweep runs once per invocation; there is no background timer.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	report, err := ingestService.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	if len(report.Retried) == 0 && report.Skipped == 0 {
		cmd.Println("No failed sources to retry.")
		return nil
	}

	for _, id := range report.Retried {
		cmd.Printf("  retried %s\n", id)
	}
	cmd.Printf("Retried %d, recovered %d, skipped %d (attempt cap reached).\n",
		len(report.Retried), report.Recovered, report.Skipped)

	return nil
}
