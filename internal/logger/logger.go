// Package logger holds the structured logger shared by the hansard command
// and its packages. Records go to stderr and, optionally, to a log file as
// well.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	defaultLogger *slog.Logger
	logFile       *os.File
	mu            sync.RWMutex
)

func init() {
	defaultLogger = slog.New(newHandler(Options{}, os.Stderr))
}

// Options configures the logger.
type Options struct {
	Debug  bool      // Enable debug level logging
	Quiet  bool      // Only show errors
	JSON   bool      // Output as JSON
	Output io.Writer // Output destination (default: stderr)

	// LogFile also receives every record. It is opened for appending.
	LogFile string

	Logger *slog.Logger // Custom logger (overrides all other options)
}

// Init replaces the shared logger. A previously opened log file is closed.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	closeLogFile()

	if opts.Logger != nil {
		defaultLogger = opts.Logger
		return nil
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //#nosec G304
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		output = io.MultiWriter(output, f)
	}

	defaultLogger = slog.New(newHandler(opts, output))
	return nil
}

// Close closes the log file, if any, and logs to stderr from then on.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	err := closeLogFile()
	defaultLogger = slog.New(newHandler(Options{}, os.Stderr))
	return err
}

func closeLogFile() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func newHandler(opts Options, w io.Writer) slog.Handler {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	if opts.Quiet {
		level = slog.LevelError
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		return slog.NewJSONHandler(w, handlerOpts)
	}
	return slog.NewTextHandler(w, handlerOpts)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Default returns the shared logger.
func Default() *slog.Logger {
	return current()
}

// Component returns the shared logger tagged with a component name.
func Component(name string) *slog.Logger {
	return current().With("component", name)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}
