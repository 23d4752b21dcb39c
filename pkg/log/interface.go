// Package log provides the structured logging interface used by aqforecast.
//
// The interface is a thin, slog-compatible surface so callers can plug in their own
// backend. The default implementation writes JSON through log/slog; warnings raised
// via pkg/errors can be routed to zerolog with InstallZerologWarnings.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ComponentKey, "features",
//	    log.TargetKey, "pm2_5",
//	)
//	logger.Info("Pipeline completed",
//	    log.ModeKey, log.PhaseTraining,
//	    log.RowsOutKey, 812,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. The With method returns a
// child logger carrying the given fields on every record.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it is
	// attached under ErrAttrKey so the stack trace handler can expand it.
	//
	// Example:
	//   logger.Error("Training failed",
	//       err,
	//       log.TargetKey, "ozone",
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
