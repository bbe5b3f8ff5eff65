package driving

import "github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves the current settings, with defaults applied for
	// anything the configuration file doesn't set.
	Get() (*domain.Settings, error)

	// Save persists the settings to the configuration file. Secrets are
	// never written; they live in the environment.
	Save(settings *domain.Settings) error

	// Path returns the configuration file path.
	Path() string
}
