package cli

import (
	"context"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
)

// cliMockIngestor is a mock implementation of driving.Ingestor.
type cliMockIngestor struct {
	source    *domain.Source
	report    *driving.SweepReport
	err       error
	submitted []driving.SubmitRequest
}

func (m *cliMockIngestor) Submit(_ context.Context, req driving.SubmitRequest) (*domain.Source, error) {
	m.submitted = append(m.submitted, req)
	return m.source, m.err
}

func (m *cliMockIngestor) Wait() {}

func (m *cliMockIngestor) Sweep(_ context.Context) (*driving.SweepReport, error) {
	if m.report == nil {
		return &driving.SweepReport{}, m.err
	}
	return m.report, m.err
}

// cliMockAnswer is a mock implementation of driving.AnswerService.
type cliMockAnswer struct {
	answer *domain.Answer
	err    error
	opts   domain.QueryOptions
}

func (m *cliMockAnswer) Answer(_ context.Context, _ string, opts domain.QueryOptions) (*domain.Answer, error) {
	m.opts = opts
	return m.answer, m.err
}

// cliMockSources is a mock implementation of driving.SourceManager.
type cliMockSources struct {
	sources []domain.Source
	source  *domain.Source
	chunks  []domain.Chunk
	err     error
	deleted []string
}

func (m *cliMockSources) Get(_ context.Context, _ string) (*domain.Source, error) {
	return m.source, m.err
}

func (m *cliMockSources) List(_ context.Context) ([]domain.Source, error) {
	return m.sources, m.err
}

func (m *cliMockSources) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *cliMockSources) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

// cliMockHealth is a mock implementation of driving.HealthChecker.
type cliMockHealth struct {
	report *driving.HealthReport
}

func (m *cliMockHealth) Check(_ context.Context) *driving.HealthReport {
	return m.report
}

// cliMockSettings is a mock implementation of driving.SettingsService.
type cliMockSettings struct {
	settings *domain.Settings
	saved    *domain.Settings
	err      error
}

func (m *cliMockSettings) Get() (*domain.Settings, error) {
	if m.settings == nil {
		defaults := domain.DefaultSettings()
		return &defaults, m.err
	}
	return m.settings, m.err
}

func (m *cliMockSettings) Save(settings *domain.Settings) error {
	m.saved = settings
	return m.err
}

func (m *cliMockSettings) Path() string {
	return "/tmp/ragchat.toml"
}

// setupTestServices injects mocks with sensible defaults and returns a
// cleanup that restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldAnswer := answerService
	oldSources := sourceService
	oldHealth := healthService
	oldSettings := settingsService

	completed := &domain.Source{
		ID:          "src-1",
		Kind:        domain.OriginWebPage,
		DisplayName: "Example Page",
		Location:    "https://example.com/page",
		Status:      domain.StatusCompleted,
		ChunkCount:  3,
		TokenCount:  120,
	}

	ingestService = &cliMockIngestor{source: completed}
	answerService = &cliMockAnswer{answer: &domain.Answer{
		Answer: "The answer is 42. [1]",
		Citations: []domain.Citation{
			{Number: 1, SourceID: "src-1", DisplayName: "Example Page", Kind: domain.OriginWebPage, BestScore: 0.91},
		},
	}}
	sourceService = &cliMockSources{
		sources: []domain.Source{*completed},
		source:  completed,
	}
	healthService = &cliMockHealth{report: &driving.HealthReport{
		OK: true,
		Components: []driving.ComponentStatus{
			{Name: "metadata_store", OK: true},
			{Name: "vector_index", OK: true},
		},
	}}
	settingsService = &cliMockSettings{}

	return func() {
		ingestService = oldIngest
		answerService = oldAnswer
		sourceService = oldSources
		healthService = oldHealth
		settingsService = oldSettings
	}
}
