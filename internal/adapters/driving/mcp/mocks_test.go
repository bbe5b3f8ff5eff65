package mcp

import (
	"context"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error

	question string
	opts     domain.QueryOptions
}

func (m *mockAnswerService) Answer(
	_ context.Context,
	question string,
	opts domain.QueryOptions,
) (*domain.Answer, error) {
	m.question = question
	m.opts = opts
	return m.answer, m.err
}

// mockSourceManager is a mock implementation of driving.SourceManager.
type mockSourceManager struct {
	sources []domain.Source
	source  *domain.Source
	chunks  []domain.Chunk
	err     error

	deleted []string
}

func (m *mockSourceManager) Get(_ context.Context, _ string) (*domain.Source, error) {
	return m.source, m.err
}

func (m *mockSourceManager) List(_ context.Context) ([]domain.Source, error) {
	return m.sources, m.err
}

func (m *mockSourceManager) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockSourceManager) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockIngestor is a mock implementation of driving.Ingestor.
type mockIngestor struct {
	source *domain.Source
	report *driving.SweepReport
	err    error

	submitted []driving.SubmitRequest
}

func (m *mockIngestor) Submit(_ context.Context, req driving.SubmitRequest) (*domain.Source, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.submitted = append(m.submitted, req)
	return m.source, nil
}

func (m *mockIngestor) Wait() {}

func (m *mockIngestor) Sweep(_ context.Context) (*driving.SweepReport, error) {
	if m.report != nil {
		return m.report, m.err
	}
	return &driving.SweepReport{}, m.err
}
