package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// TelemetryStatus classifies the outcome of an action execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes one execution outcome.
type TelemetryInfo struct {
	Action    string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
}

// Telemetry is invoked after every execution, successful or not.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// LogTelemetry reports outcomes through logger with the elapsed time.
func LogTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = logging.Ensure(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info("action.execute.success", args...)
		case TelemetryStatusContextError:
			entry.Error("action.execute.context_error", append(args, "error", info.Error)...)
		default:
			entry.Error("action.execute.failed", append(args, "error", info.Error)...)
		}
	}
}
