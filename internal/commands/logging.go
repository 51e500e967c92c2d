package commands

import (
	"strings"

	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/pkg/interfaces"
)

const actionModuleRoot = "cms.ui.actions"

// ActionLogger returns the logger used by action handlers of one slice.
func ActionLogger(provider interfaces.LoggerProvider, slice string) interfaces.Logger {
	name := strings.TrimSpace(slice)
	if name == "" {
		name = "root"
	}
	logger := logging.ModuleLogger(provider, actionModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component": "store",
		"slice":     name,
	})
}
