// Package logger provides leveled logging for the ragchat CLI.
// Output goes to stderr, rendered as human-readable console lines on a
// terminal and as JSON elsewhere, backed by zerolog.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = newLogger(os.Stderr, zerolog.InfoLevel)
)

// Init configures the package logger with the given level name
// (trace, debug, info, warn, error). Unknown names fall back to info.
func Init(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()
	log = newLogger(os.Stderr, lvl)
}

// SetOutput redirects log output to w as JSON.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Output(w)
}

// Disable silences the package logger. Useful for tests.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	log = log.Level(zerolog.Disabled)
}

func newLogger(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	var out io.Writer = w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: f}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug().Msgf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Info().Msgf(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn().Msgf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error().Msgf(format, args...)
}
