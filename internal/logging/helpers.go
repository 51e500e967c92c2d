package logging

import (
	"maps"

	"github.com/goliatone/go-cms-ui/pkg/interfaces"
)

// WithFields attaches structured fields to a logger when the implementation
// supports interfaces.FieldsLogger. Nil loggers and empty maps pass through.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// Ensure returns logger, or a no-op logger when it is nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}
