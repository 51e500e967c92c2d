package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-ui/pkg/interfaces"
)

const (
	rootModule       = "cms.ui"
	nodeInfoModule   = "cms.ui.nodeinfo"
	workspacesModule = "cms.ui.workspaces"
	httpModule       = "cms.ui.http"
	importerModule   = "cms.ui.importer"
	storeModule      = "cms.ui.store"
)

const (
	fieldNodeAddress = "node_address"
	fieldNodeType    = "node_type"
	fieldActionType  = "action_type"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// NodeInfoLogger returns the logger namespace reserved for node rendering.
func NodeInfoLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, nodeInfoModule)
}

// WorkspacesLogger returns the logger namespace reserved for workspace state.
func WorkspacesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, workspacesModule)
}

// StoreLogger returns the logger namespace reserved for the dispatch loop.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// HTTPLogger returns the logger namespace reserved for the UI services API.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// ImporterLogger returns the logger namespace reserved for fixture imports.
func ImporterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, importerModule)
}

// WithNodeContext enriches logger with the node address and node type being
// rendered. Empty values are ignored.
func WithNodeContext(logger interfaces.Logger, address, nodeType string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(address); trimmed != "" {
		fields[fieldNodeAddress] = trimmed
	}
	if trimmed := strings.TrimSpace(nodeType); trimmed != "" {
		fields[fieldNodeType] = trimmed
	}
	return WithFields(logger, fields)
}

// WithAction tags logger with a dispatched action type.
func WithAction(logger interfaces.Logger, actionType string) interfaces.Logger {
	if strings.TrimSpace(actionType) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldActionType: actionType})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
