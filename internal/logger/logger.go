package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logging levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Environments the logger knows how to format for
const (
	EnvDevelopment = "dev"
	EnvProduction  = "prod"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// New returns logger writing to stderr:
// human friendly text for development and JSON for production
func New(env string, level string) (Logger, error) {
	return NewWithWriter(os.Stderr, env, level)
}

func NewWithWriter(w io.Writer, env string, level string) (Logger, error) {
	l, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:       l,
		AddSource:   true,
		ReplaceAttr: replace,
	}

	var handler slog.Handler
	switch env {
	case EnvDevelopment:
		handler = slog.NewTextHandler(w, opts)
	case EnvProduction:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown environment %q, expected %q or %q", env, EnvDevelopment, EnvProduction)
	}

	return &slogLogger{logger: slog.New(handler)}, nil
}

// NewNoOpLogger creates a logger that discards all log messages
func NewNoOpLogger() Logger {
	return &slogLogger{logger: slog.New(slog.DiscardHandler)}
}
