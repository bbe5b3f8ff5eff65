package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/logger"
)

func init() {
	logger.Disable()
}

// watchMockIngestor records submissions. Submissions arrive from debounce
// timer goroutines, so access is synchronised and notified on a channel.
type watchMockIngestor struct {
	mu        sync.Mutex
	submitted []driving.SubmitRequest
	notify    chan driving.SubmitRequest
}

func newWatchMockIngestor() *watchMockIngestor {
	return &watchMockIngestor{notify: make(chan driving.SubmitRequest, 16)}
}

func (m *watchMockIngestor) Submit(_ context.Context, req driving.SubmitRequest) (*domain.Source, error) {
	m.mu.Lock()
	m.submitted = append(m.submitted, req)
	m.mu.Unlock()

	m.notify <- req
	return &domain.Source{ID: "src-1", DisplayName: "Test", Status: domain.StatusPending}, nil
}

func (m *watchMockIngestor) Wait() {}

func (m *watchMockIngestor) Sweep(_ context.Context) (*driving.SweepReport, error) {
	return &driving.SweepReport{}, nil
}

func (m *watchMockIngestor) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.submitted)
}

func TestWatcher_Watch(t *testing.T) {
	t.Run("submits created document after debounce", func(t *testing.T) {
		dir := t.TempDir()
		ingestor := newWatchMockIngestor()
		w := New(ingestor, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- w.Watch(ctx, dir) }()

		// Give the watcher a moment to register before writing.
		time.Sleep(50 * time.Millisecond)
		path := filepath.Join(dir, "notes.md")
		require.NoError(t, os.WriteFile(path, []byte("# Notes"), 0o644))

		select {
		case req := <-ingestor.notify:
			assert.Equal(t, domain.OriginDocument, req.Kind)
			assert.Equal(t, path, req.Location)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for submission")
		}

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("collapses a write burst into one submission", func(t *testing.T) {
		dir := t.TempDir()
		ingestor := newWatchMockIngestor()
		w := New(ingestor, 100*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- w.Watch(ctx, dir) }()

		time.Sleep(50 * time.Millisecond)
		path := filepath.Join(dir, "draft.txt")
		require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, os.WriteFile(path, []byte("first, revised"), 0o644))

		select {
		case <-ingestor.notify:
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for submission")
		}

		// A second submission would fire within another debounce window.
		time.Sleep(200 * time.Millisecond)
		assert.Equal(t, 1, ingestor.count())

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("ignores unsupported and hidden files", func(t *testing.T) {
		dir := t.TempDir()
		ingestor := newWatchMockIngestor()
		w := New(ingestor, 20*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- w.Watch(ctx, dir) }()

		time.Sleep(50 * time.Millisecond)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "binary.exe"), []byte{0x1}, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.md"), []byte("x"), 0o644))
		supported := filepath.Join(dir, "report.pdf")
		require.NoError(t, os.WriteFile(supported, []byte("%PDF-1.4"), 0o644))

		select {
		case req := <-ingestor.notify:
			assert.Equal(t, supported, req.Location)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for submission")
		}

		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, 1, ingestor.count())

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("returns error for missing directory", func(t *testing.T) {
		w := New(newWatchMockIngestor(), time.Millisecond)

		err := w.Watch(context.Background(), "/non/existent/path")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "watch directory")
	})

	t.Run("returns error when path is a file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

		w := New(newWatchMockIngestor(), time.Millisecond)

		err := w.Watch(context.Background(), path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		dir := t.TempDir()
		w := New(newWatchMockIngestor(), time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- w.Watch(ctx, dir) }()

		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("watch did not stop after cancellation")
		}
	})
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"notes.md", true},
		{"notes.markdown", true},
		{"report.pdf", true},
		{"report.PDF", true},
		{"sheet.xlsx", true},
		{"letter.docx", true},
		{"plain.txt", true},
		{"binary.exe", false},
		{"image.png", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isSupported(tt.path))
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden.md", true},
		{"/watch/dir/.partial.pdf", true},
		{"visible.md", false},
		{"/watch/dir/visible.pdf", false},
		{"file.with.dots.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}
