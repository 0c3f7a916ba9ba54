// Package observability provides the structured logging and Prometheus
// metrics the server and CLI share.
package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog.Logger writing to output (stdout if nil) at
// the given level, with RFC3339 timestamps. It adds no component field
// itself; subsystems derive child loggers that add one via With().
func NewLogger(level zerolog.Level, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stdout
	}
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewConsoleLogger returns a human-readable logger for local development,
// writing colorized key=value lines instead of raw JSON.
func NewConsoleLogger(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// ParseLevel parses a log level string, defaulting to info on failure.
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return parsed
}

// globalLogger is the package-level default, overridable via SetGlobal.
var globalLogger = NewLogger(zerolog.InfoLevel, os.Stdout)

// SetGlobal replaces the package-level default logger.
func SetGlobal(logger zerolog.Logger) {
	globalLogger = logger
}

// Global returns the package-level default logger.
func Global() zerolog.Logger {
	return globalLogger
}

// LogOperation logs the start, duration, and outcome of fn under the given
// logger, tagging the log line with operation.
func LogOperation(logger zerolog.Logger, operation string, fn func() error) error {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("operation started")

	err := fn()
	duration := time.Since(start)

	evt := logger.Info()
	if err != nil {
		evt = logger.Error().Err(err)
	}
	evt.Str("operation", operation).Dur("duration", duration).Msg("operation finished")
	return err
}
