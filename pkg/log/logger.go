package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewSlogLogger(slog.Default())
)

// SetupLogger installs a JSON slog handler writing to w as the process default.
// Attribute keys are rewritten to the Cloud Logging format.
func SetupLogger(loglevel string, w io.Writer) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stdout
	}
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr.Key = "severity"
			case slog.MessageKey:
				attr.Key = "message"
			case slog.SourceKey:
				attr.Key = "logging.googleapis.com/sourceLocation"
			}
			return attr
		},
	}
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(w, &ops))
	sl := slog.New(handler)
	slog.SetDefault(sl)
	SetLogger(NewSlogLogger(sl))
	return nil
}

// ToLogLevel parses "debug", "info", "warn" or "error".
func ToLogLevel(level string) (slog.Level, error) {
	switch level {
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.NewConfigError("log_level", "must be one of debug, info, warn, error", level)
	}
}

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// GetLogger returns the process-wide default Logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide default Logger.
func SetLogger(l Logger) {
	if l == nil {
		l = Nop()
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// slogLogger adapts *slog.Logger to Logger.
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps a *slog.Logger.
func NewSlogLogger(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, fields...) }
func (s *slogLogger) Info(msg string, fields ...any) { s.l.Info(msg, fields...) }
func (s *slogLogger) Warn(msg string, fields ...any) { s.l.Warn(msg, fields...) }

func (s *slogLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{ErrAttr(err)}, fields[1:]...)
		}
	}
	s.l.Error(msg, fields...)
}

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(fields...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
func (n nopLogger) With(...any) Logger { return n }
func (nopLogger) Enabled(context.Context, Level) bool { return false }

// InstallZerologWarnings routes errors.Warn to a zerolog logger writing to w.
// Warnings implementing zerolog.LogObjectMarshaler keep their structured fields.
func InstallZerologWarnings(w io.Writer) zerolog.Logger {
	zl := zerolog.New(w).With().Timestamp().Str("component", "aqforecast").Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		ev := zl.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(fmt.Sprintf("aqforecast-Warning: %v", warning))
	})
	return zl
}
