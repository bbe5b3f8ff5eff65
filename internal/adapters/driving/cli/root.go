// Package cli implements the ragchat command tree. Services are injected
// by the composition root before Execute runs; every command guards
// against missing services so partial wiring fails with a clear message
// instead of a panic.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Injected driving ports. Nil until Inject is called.
var (
	ingestService   driving.Ingestor
	answerService   driving.AnswerService
	sourceService   driving.SourceManager
	healthService   driving.HealthChecker
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Chat with your documents, web pages and videos",
	Long: `Ragchat builds a local knowledge base from uploaded documents,
web pages and video transcripts, and answers questions grounded in that
content with citations back to the sources.`,
	SilenceUsage: true,
}

// Services aggregates the driving ports the command tree depends on.
// This provides a single injection point for the composition root.
type Services struct {
	Ingestor driving.Ingestor
	Answer   driving.AnswerService
	Sources  driving.SourceManager
	Health   driving.HealthChecker
	Settings driving.SettingsService
}

// Inject wires the services into the command tree. Must be called once
// before Execute.
func Inject(s Services) {
	ingestService = s.Ingestor
	answerService = s.Answer
	sourceService = s.Sources
	healthService = s.Health
	settingsService = s.Settings
}

// SetVersion records the build version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
