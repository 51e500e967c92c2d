package interfaces

import "context"

// Logger is the leveled, key/value logger used across the UI services.
// github.com/goliatone/go-logger loggers satisfy it directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, usually one per module.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can bind fields to every
// entry they write.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
