// Package logger builds the zerolog logger shared by the CLI and the engine.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level     string // debug, info, warn, error
	File      string // optional log file path
	Pretty    bool   // human readable console output
	Redaction bool   // mask API keys and tokens
	// RedactPatterns are extra regular expressions masked when Redaction is on.
	RedactPatterns []string
	Out            io.Writer // console destination, os.Stderr when nil
}

// DefaultConfig keeps stdout free for the transcript and only surfaces warnings.
func DefaultConfig() Config {
	return Config{
		Level:     "warn",
		Pretty:    true,
		Redaction: true,
	}
}

// Logger wraps a zerolog.Logger and the file it may write to.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New creates a logger. An unknown level falls back to warn.
func New(cfg Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.WarnLevel
	}

	redactor := NewRedactor()
	for _, pattern := range cfg.RedactPatterns {
		if err := redactor.AddPattern(pattern); err != nil {
			return nil, fmt.Errorf("logger: redact pattern %q: %w", pattern, err)
		}
	}
	// Sinks are redacted after formatting, so the console writer always
	// parses the event zerolog produced.
	sink := func(w io.Writer) io.Writer {
		if cfg.Redaction {
			return redactor.Wrap(w)
		}
		return w
	}

	var console io.Writer = cfg.Out
	if console == nil {
		console = os.Stderr
	}
	console = sink(console)
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}
	}
	w := console

	var file *os.File
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("logger: creating log directory: %w", err)
		}
		file, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: opening log file: %w", err)
		}
		w = zerolog.MultiLevelWriter(console, sink(file))
	}

	return &Logger{
		Logger: zerolog.New(w).Level(level).With().Timestamp().Logger(),
		file:   file,
	}, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
