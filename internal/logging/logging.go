// Package logging provides structured logging using slog.
// Logs go to stderr so stdout only carries the rendered stream.
package logging

import (
	"io"
	"log/slog"
	"sync"
)

var (
	// defaultLogger is the package-level logger.
	defaultLogger *slog.Logger
	// mu protects concurrent access to the logger.
	mu sync.RWMutex
)

// Init points the logger at w. When verbose is false, logging is disabled.
func Init(w io.Writer, verbose bool) {
	mu.Lock()
	defer mu.Unlock()

	if !verbose {
		w = io.Discard
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)
}

// Logger returns the default logger.
// If not initialized, returns a no-op logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if defaultLogger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return defaultLogger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs at warning level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}
