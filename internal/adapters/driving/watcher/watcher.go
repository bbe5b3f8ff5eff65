// Package watcher submits documents dropped into a watched directory for
// ingestion. Filesystem events are debounced per path, so editors and
// download managers that write a file in bursts trigger one submission.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/domain"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/logger"
)

// supportedExtensions lists the file types submitted for ingestion.
// Anything else dropped into the watched directory is ignored.
var supportedExtensions = map[string]bool{
	".pdf":      true,
	".docx":     true,
	".xlsx":     true,
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// Watcher watches a single directory and submits supported files as
// document sources.
type Watcher struct {
	ingestor driving.Ingestor
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher submitting to the given ingestor. Each path's
// events are held for the debounce window before submission.
func New(ingestor driving.Ingestor, debounce time.Duration) *Watcher {
	return &Watcher{
		ingestor: ingestor,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
	}
}

// Watch blocks processing filesystem events for dir until ctx is
// cancelled. Submissions still inside their debounce window when ctx is
// cancelled are dropped.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory: %s is not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// handleEvent schedules a submission for relevant events. Only Create and
// Write matter; renames and removals never trigger ingestion.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if isHidden(event.Name) || !isSupported(event.Name) {
		return
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return
	}

	w.schedule(event.Name)
}

// schedule resets the per-path debounce timer, so a burst of writes to one
// file collapses into a single submission after the window.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		w.submit(path)
	})
}

// submit hands the settled file to the ingestor. The timer callback runs
// outside the watch loop, so there is no request context to inherit.
func (w *Watcher) submit(path string) {
	src, err := w.ingestor.Submit(context.Background(), driving.SubmitRequest{
		Kind:     domain.OriginDocument,
		Location: path,
	})
	if err != nil {
		logger.Warn("watch: submit %s: %v", filepath.Base(path), err)
		return
	}

	logger.Info("watch: submitted %s (%s)", src.DisplayName, src.ID)
}

// stopTimers cancels every pending debounce timer.
func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// isSupported reports whether the extension is an ingestable document type.
func isSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// isHidden reports whether the file name starts with a dot.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
