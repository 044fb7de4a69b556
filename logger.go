package bytesocket

import "log/slog"

// Logger is the interface for structured logging.
// It is designed to be compatible with *slog.Logger from the standard library.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}

// defaultLogger returns the default slog logger from the standard library.
func defaultLogger() Logger {
	return slog.Default()
}

// loggerWith returns a logger that adds args to every record.
// *slog.Logger keeps its own With; other loggers are wrapped.
func loggerWith(l Logger, args ...any) Logger {
	if sl, ok := l.(*slog.Logger); ok {
		return sl.With(args...)
	}
	return &fieldLogger{next: l, fields: args}
}

// fieldLogger appends fixed key-value pairs to each call.
type fieldLogger struct {
	next   Logger
	fields []any
}

func (l *fieldLogger) with(args []any) []any {
	out := make([]any, 0, len(args)+len(l.fields))
	out = append(out, args...)
	return append(out, l.fields...)
}

func (l *fieldLogger) Debug(msg string, args ...any) { l.next.Debug(msg, l.with(args)...) }

func (l *fieldLogger) Info(msg string, args ...any) { l.next.Info(msg, l.with(args)...) }

func (l *fieldLogger) Warn(msg string, args ...any) { l.next.Warn(msg, l.with(args)...) }

func (l *fieldLogger) Error(msg string, args ...any) { l.next.Error(msg, l.with(args)...) }
