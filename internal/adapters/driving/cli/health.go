package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check pipeline dependencies",
	Long: `Probes the metadata store, the vector index and the configured
providers. Exits non-zero when any component is unavailable.`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if healthService == nil {
		return errors.New("health service not configured")
	}

	ctx := context.Background()
	report := healthService.Check(ctx)

	for _, c := range report.Components {
		state := "ok"
		if !c.OK {
			state = "unavailable"
		}
		cmd.Printf("  %-15s %s", c.Name, state)
		if c.Detail != "" {
			cmd.Printf(" (%s)", c.Detail)
		}
		cmd.Println()
	}

	if !report.OK {
		return errors.New("one or more components are unavailable")
	}

	cmd.Println("All components healthy.")
	return nil
}
